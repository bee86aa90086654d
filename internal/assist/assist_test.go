package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"urbanlink/internal/config"
	"urbanlink/internal/domain"
	"urbanlink/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replyWith builds a generateContent response body around the given text.
func replyWith(text string) string {
	body, _ := json.Marshal(map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"role":  "model",
				"parts": []map[string]string{{"text": text}},
			}},
		},
	})
	return string(body)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := zerolog.New(io.Discard)
	return NewClient(config.AssistConfig{
		APIKey:     "test-key",
		Model:      "gemini-2.5-flash",
		BaseURL:    srv.URL,
		TimeoutSec: 5,
		RPS:        100,
		Burst:      10,
	}, &logger)
}

func candidates() []models.Worker {
	return []models.Worker{
		{ID: 1, Name: "Rajesh Kumar", Service: "Plumber", Location: "Mumbai", HourlyRate: 500},
		{ID: 2, Name: "Priya Sharma", Service: "Electrician", Location: "Delhi", HourlyRate: 400},
	}
}

func TestSend(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsReplyText", func(t *testing.T) {
		var got generateRequest
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
			assert.Contains(t, r.URL.Path, "gemini-2.5-flash:generateContent")
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			fmt.Fprint(w, replyWith("We have plumbers available in Mumbai."))
		})

		history := []models.ChatMessage{
			{Sender: models.SenderBot, Text: "Hello!"},
			{Sender: models.SenderUser, Text: "Hi"},
		}
		reply, err := c.Send(ctx, history, "Find me a plumber")
		require.NoError(t, err)
		assert.Equal(t, "We have plumbers available in Mumbai.", reply)

		// History plus the new turn, with sender mapped to API roles.
		require.Len(t, got.Contents, 3)
		assert.Equal(t, "model", got.Contents[0].Role)
		assert.Equal(t, "user", got.Contents[1].Role)
		assert.Equal(t, "Find me a plumber", got.Contents[2].Parts[0].Text)
		require.NotNil(t, got.SystemInstruction)
	})

	t.Run("ServerErrorIsUnavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := c.Send(ctx, nil, "hello")
		assert.ErrorIs(t, err, domain.ErrExternalServiceUnavailable)
	})

	t.Run("APIErrorBodyIsUnavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"error":{"code":429,"message":"quota exhausted"}}`)
		})

		_, err := c.Send(ctx, nil, "hello")
		assert.ErrorIs(t, err, domain.ErrExternalServiceUnavailable)
	})

	t.Run("EmptyCandidatesIsUnavailable", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, `{"candidates":[]}`)
		})

		_, err := c.Send(ctx, nil, "hello")
		assert.ErrorIs(t, err, domain.ErrExternalServiceUnavailable)
	})
}

func TestMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsMatchedWorker", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith("2"))
		})

		got, err := c.Match(ctx, "I need wiring fixed", candidates())
		require.NoError(t, err)
		assert.Equal(t, int64(2), got.ID)
		assert.Equal(t, "Priya Sharma", got.Name)
	})

	t.Run("TrimsWhitespace", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith("  1\n"))
		})

		got, err := c.Match(ctx, "leaking tap", candidates())
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
	})

	t.Run("NonNumericReply", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith("The best match is Priya (id 2)."))
		})

		_, err := c.Match(ctx, "leaking tap", candidates())
		assert.ErrorIs(t, err, domain.ErrInvalidMatchResponse)
	})

	t.Run("UnknownId", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith("99"))
		})

		_, err := c.Match(ctx, "leaking tap", candidates())
		assert.ErrorIs(t, err, domain.ErrInvalidMatchResponse)
	})

	t.Run("TransportErrorPassesThrough", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		_, err := c.Match(ctx, "leaking tap", candidates())
		assert.ErrorIs(t, err, domain.ErrExternalServiceUnavailable)
		assert.False(t, errors.Is(err, domain.ErrInvalidMatchResponse))
	})
}

func TestEstimate(t *testing.T) {
	ctx := context.Background()
	w1 := candidates()[0]

	validEstimate := `{"laborEstimate":"₹1,000 - ₹1,500","materialsEstimate":"₹200 - ₹500","totalEstimate":"₹1,200 - ₹2,000","reasoning":"A simple tap replacement takes 2-3 hours."}`

	t.Run("ParsesStructuredReply", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith(validEstimate))
		})

		got, err := c.Estimate(ctx, w1, "replace a leaking tap")
		require.NoError(t, err)
		assert.Equal(t, "₹1,000 - ₹1,500", got.LaborEstimate)
		assert.Equal(t, "₹1,200 - ₹2,000", got.TotalEstimate)
		assert.NotEmpty(t, got.Reasoning)
	})

	t.Run("StripsCodeFence", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith("```json\n"+validEstimate+"\n```"))
		})

		got, err := c.Estimate(ctx, w1, "replace a leaking tap")
		require.NoError(t, err)
		assert.Equal(t, "₹200 - ₹500", got.MaterialsEstimate)
	})

	t.Run("MissingFieldIsMalformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith(`{"laborEstimate":"₹1,000","reasoning":"partial"}`))
		})

		_, err := c.Estimate(ctx, w1, "replace a leaking tap")
		assert.ErrorIs(t, err, domain.ErrMalformedEstimate)
	})

	t.Run("NonJSONIsMalformed", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, replyWith("about two thousand rupees"))
		})

		_, err := c.Estimate(ctx, w1, "replace a leaking tap")
		assert.ErrorIs(t, err, domain.ErrMalformedEstimate)
	})
}

type scriptedAssistant struct {
	reply string
	err   error
	calls int
}

func (s *scriptedAssistant) Send(_ context.Context, _ []models.ChatMessage, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestChatSession(t *testing.T) {
	ctx := context.Background()

	t.Run("OpensWithGreeting", func(t *testing.T) {
		s := NewChatSession(&scriptedAssistant{})

		msgs := s.Messages()
		require.Len(t, msgs, 1)
		assert.Equal(t, models.SenderBot, msgs[0].Sender)
		assert.Equal(t, chatGreeting, msgs[0].Text)
		assert.NotEmpty(t, s.ID)
	})

	t.Run("AskAppendsBothTurns", func(t *testing.T) {
		s := NewChatSession(&scriptedAssistant{reply: "Plumbers start at ₹400/hr."})

		bot := s.Ask(ctx, "How much does a plumber cost?")
		assert.Equal(t, models.SenderBot, bot.Sender)
		assert.Equal(t, "Plumbers start at ₹400/hr.", bot.Text)

		msgs := s.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, models.SenderUser, msgs[1].Sender)
		assert.Equal(t, "How much does a plumber cost?", msgs[1].Text)
	})

	t.Run("FailureAppendsFallback", func(t *testing.T) {
		s := NewChatSession(&scriptedAssistant{err: domain.ErrExternalServiceUnavailable})

		bot := s.Ask(ctx, "hello?")
		assert.Equal(t, chatFallback, bot.Text)

		msgs := s.Messages()
		require.Len(t, msgs, 3)
		assert.Equal(t, chatFallback, msgs[2].Text)
	})
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
	assert.Equal(t, "plain text", stripCodeFence("  plain text  "))
}
