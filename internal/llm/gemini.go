package llm

import (
	"context"

	"google.golang.org/genai"

	"partdoc/internal/config"
	"partdoc/internal/errors"
)

// Gemini forwards prompts to the Google Gemini API.
type Gemini struct {
	key       string
	model     string
	maxTokens int
}

// NewGemini returns a hosted provider backed by the Gemini API.
func NewGemini(key, model string, maxTokens int) *Gemini {
	return &Gemini{key: key, model: model, maxTokens: maxTokens}
}

func (g *Gemini) Name() string { return config.ProviderGemini }

func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: g.key})
	if err != nil {
		return "", errors.WrapWithDetails(errors.EProviderUnavailable,
			"create gemini client", err,
			map[string]string{"provider": g.Name(), "model": g.model})
	}

	resp, err := client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			MaxOutputTokens: int32(g.maxTokens),
		},
	)
	if err != nil {
		return "", errors.WrapWithDetails(errors.EProviderUnavailable,
			"gemini generation failed", err,
			map[string]string{"provider": g.Name(), "model": g.model})
	}
	text := resp.Text()
	if text == "" {
		return "", errors.NewWithDetails(errors.EProviderUnavailable,
			"gemini returned empty response",
			map[string]string{"provider": g.Name(), "model": g.model})
	}
	return text, nil
}
