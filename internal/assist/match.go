package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"urbanlink/internal/domain"
	"urbanlink/internal/models"
)

const matchSystemInstruction = `You are an expert at matching customers with service professionals.
You will be given a list of available professionals and a user's request.
Your task is to analyze the user's request and select the single best professional from the list.
The list of professionals will be a JSON array of objects.
The user's request is a text description of their needs.
You must only respond with the ID of the best-matched professional. Do not add any other text, explanation, or formatting.
Your response should be just the number of the ID. For example: 3`

// Match asks the model to pick the best candidate for a free-text request.
// The reply must be the numeric id of one of the candidates; anything else
// fails with domain.ErrInvalidMatchResponse.
func (c *Client) Match(ctx context.Context, request string, candidates []models.Worker) (models.Worker, error) {
	list, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return models.Worker{}, fmt.Errorf("encode candidates: %w", err)
	}

	prompt := fmt.Sprintf(`Professionals List:
%s

User's Request:
%q

Based on the user's request, which professional from the list is the best match? Return only their ID.`, list, request)

	text, err := c.generate(ctx, generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: matchSystemInstruction}}},
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{Temperature: floatPtr(0.2)},
	})
	if err != nil {
		return models.Worker{}, err
	}

	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return models.Worker{}, fmt.Errorf("%w: %q", domain.ErrInvalidMatchResponse, strings.TrimSpace(text))
	}

	for _, w := range candidates {
		if w.ID == id {
			return w.Clone(), nil
		}
	}
	return models.Worker{}, fmt.Errorf("%w: no candidate with id %d", domain.ErrInvalidMatchResponse, id)
}
