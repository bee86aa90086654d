package assist

import (
	"context"
	"encoding/json"
	"fmt"

	"urbanlink/internal/domain"
	"urbanlink/internal/models"
)

const estimateSystemInstruction = `You are an expert cost estimator for home services in India. Your task is to provide a transparent price estimate based on a user's job description and a professional's hourly rate (in INR).

Analysis Steps:
1. Estimate the hours required for the job. Be realistic. A simple fix might be 1-2 hours, a complex installation could be 4-6 hours.
2. Calculate the labor cost: estimated hours * hourly rate.
3. Estimate a reasonable cost range for potential materials. If none, state "Not applicable".
4. Calculate the total estimate by combining labor and materials.
5. Write a brief explanation for your estimate.

You MUST respond in a valid JSON format with the fields laborEstimate, materialsEstimate, totalEstimate and reasoning.`

// Estimate asks the model for a structured labor/materials/total breakdown.
// A reply missing any required field fails with domain.ErrMalformedEstimate.
func (c *Client) Estimate(ctx context.Context, worker models.Worker, jobDescription string) (models.PricingEstimate, error) {
	details, err := json.Marshal(map[string]interface{}{
		"name":       worker.Name,
		"service":    worker.Service,
		"hourlyRate": worker.HourlyRate,
	})
	if err != nil {
		return models.PricingEstimate{}, fmt.Errorf("encode worker details: %w", err)
	}

	prompt := fmt.Sprintf(`Professional's Details:
%s

User's Job Description:
%q`, details, jobDescription)

	text, err := c.generate(ctx, generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: estimateSystemInstruction}}},
		Contents: []generateContent{
			{Role: "user", Parts: []generatePart{{Text: prompt}}},
		},
		GenerationConfig: &generationConfig{ResponseMimeType: "application/json"},
	})
	if err != nil {
		return models.PricingEstimate{}, err
	}

	var estimate models.PricingEstimate
	if err := json.Unmarshal([]byte(stripCodeFence(text)), &estimate); err != nil {
		return models.PricingEstimate{}, fmt.Errorf("%w: %v", domain.ErrMalformedEstimate, err)
	}

	if estimate.LaborEstimate == "" || estimate.MaterialsEstimate == "" ||
		estimate.TotalEstimate == "" || estimate.Reasoning == "" {
		return models.PricingEstimate{}, domain.ErrMalformedEstimate
	}

	return estimate, nil
}
