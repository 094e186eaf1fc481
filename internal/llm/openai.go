package llm

import (
	"context"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"partdoc/internal/config"
	"partdoc/internal/errors"
)

// OpenAI forwards prompts to the OpenAI chat completions API.
type OpenAI struct {
	key       string
	model     string
	maxTokens int
}

// NewOpenAI returns a hosted provider backed by the OpenAI API.
func NewOpenAI(key, model string, maxTokens int) *OpenAI {
	return &OpenAI{key: key, model: model, maxTokens: maxTokens}
}

func (o *OpenAI) Name() string { return config.ProviderOpenAI }

func (o *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	client := openai.NewClient(option.WithAPIKey(o.key))

	// One user message carrying the packed prompt; the template is the
	// system prompt in all but transport.
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens: openai.Int(int64(o.maxTokens)),
	})
	if err != nil {
		return "", errors.WrapWithDetails(errors.EProviderUnavailable,
			"openai chat completion failed", err,
			map[string]string{"provider": o.Name(), "model": o.model})
	}
	if len(resp.Choices) == 0 {
		return "", errors.NewWithDetails(errors.EProviderUnavailable,
			"openai returned no choices",
			map[string]string{"provider": o.Name(), "model": o.model})
	}
	return resp.Choices[0].Message.Content, nil
}
