// Package llm abstracts the generation backend. Two kinds of provider
// exist: the deterministic stub (offline, used by tests and demos) and
// hosted APIs. A hosted provider with missing credentials fails the run;
// there is no silent fallback to the stub.
package llm

import (
	"context"
	"os"

	"golang.org/x/time/rate"

	"partdoc/internal/config"
	"partdoc/internal/errors"
)

// Provider generates text from a packed prompt.
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// Credential environment variables per hosted provider.
const (
	EnvOpenAIKey = "OPENAI_API_KEY"
	EnvGeminiKey = "GEMINI_API_KEY"
)

// New builds the provider selected by the config. Hosted providers read
// their credential from the environment and are wrapped with a client-side
// rate limiter sized from limits.requests_per_minute.
func New(cfg config.Config) (Provider, error) {
	switch cfg.LLM.Provider {
	case config.ProviderStub:
		return NewStub(cfg.App.DefaultModel), nil
	case config.ProviderOpenAI:
		key := os.Getenv(EnvOpenAIKey)
		if key == "" {
			return nil, missingCredential(cfg.LLM.Provider, EnvOpenAIKey)
		}
		return throttle(NewOpenAI(key, cfg.App.DefaultModel, cfg.Limits.MaxTokens), cfg.Limits.RequestsPerMinute), nil
	case config.ProviderGemini:
		key := os.Getenv(EnvGeminiKey)
		if key == "" {
			return nil, missingCredential(cfg.LLM.Provider, EnvGeminiKey)
		}
		return throttle(NewGemini(key, cfg.App.DefaultModel, cfg.Limits.MaxTokens), cfg.Limits.RequestsPerMinute), nil
	default:
		return nil, errors.NewWithDetails(errors.EUnknownProvider,
			"unknown llm provider: "+cfg.LLM.Provider,
			map[string]string{"provider": cfg.LLM.Provider})
	}
}

func missingCredential(provider, env string) error {
	return errors.NewWithDetails(errors.EProviderUnavailable,
		"provider "+provider+" selected but "+env+" is not set",
		map[string]string{"provider": provider, "env": env})
}

// throttled applies a client-side rate limit in front of a hosted provider.
type throttled struct {
	inner Provider
	lim   *rate.Limiter
}

func throttle(p Provider, requestsPerMinute int) Provider {
	if requestsPerMinute <= 0 {
		return p
	}
	return &throttled{
		inner: p,
		lim:   rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), 1),
	}
}

func (t *throttled) Name() string { return t.inner.Name() }

func (t *throttled) Generate(ctx context.Context, prompt string) (string, error) {
	if err := t.lim.Wait(ctx); err != nil {
		return "", errors.Wrap(errors.EProviderUnavailable, "rate limiter interrupted", err)
	}
	return t.inner.Generate(ctx, prompt)
}
