package assist

import (
	"context"

	"urbanlink/internal/models"

	"github.com/google/uuid"
)

const chatSystemInstruction = "You are a helpful AI assistant for UrbanLink, a platform that connects users with home service professionals like electricians, plumbers, and cleaners. Your goal is to help users find the right service, answer their questions about the platform, and provide information about available services. Be friendly, concise, and helpful."

const chatGreeting = "Hello! I am UrbanLink's AI assistant. How can I help you find a service today?"

const chatFallback = "Sorry, I encountered an error. Please try again."

// Send posts one conversational turn with the running history and returns
// the reply text.
func (c *Client) Send(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	contents := make([]generateContent, 0, len(history)+1)
	for _, msg := range history {
		role := "user"
		if msg.Sender == models.SenderBot {
			role = "model"
		}
		contents = append(contents, generateContent{
			Role:  role,
			Parts: []generatePart{{Text: msg.Text}},
		})
	}
	contents = append(contents, generateContent{
		Role:  "user",
		Parts: []generatePart{{Text: message}},
	})

	return c.generate(ctx, generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: chatSystemInstruction}}},
		Contents:          contents,
	})
}

// ChatSession keeps one assistant conversation. The failure path appends
// the fallback line as a bot turn instead of returning an error, matching
// how the widget behaves.
type ChatSession struct {
	ID        string
	assistant interface {
		Send(ctx context.Context, history []models.ChatMessage, message string) (string, error)
	}
	messages []models.ChatMessage
}

func NewChatSession(assistant interface {
	Send(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}) *ChatSession {
	return &ChatSession{
		ID:        uuid.NewString(),
		assistant: assistant,
		messages: []models.ChatMessage{
			{ID: uuid.NewString(), Sender: models.SenderBot, Text: chatGreeting},
		},
	}
}

// Messages returns the transcript, oldest first.
func (s *ChatSession) Messages() []models.ChatMessage {
	return append([]models.ChatMessage(nil), s.messages...)
}

// Ask records the user turn, calls the model and records the reply. The
// returned message is the bot turn, fallback text included.
func (s *ChatSession) Ask(ctx context.Context, text string) models.ChatMessage {
	history := s.Messages()
	s.messages = append(s.messages, models.ChatMessage{
		ID:     uuid.NewString(),
		Sender: models.SenderUser,
		Text:   text,
	})

	reply, err := s.assistant.Send(ctx, history, text)
	if err != nil {
		reply = chatFallback
	}

	bot := models.ChatMessage{
		ID:     uuid.NewString(),
		Sender: models.SenderBot,
		Text:   reply,
	}
	s.messages = append(s.messages, bot)
	return bot
}
