package llm

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"partdoc/internal/config"
)

// Stub is the offline provider: a pure function of the prompt and model
// name. It echoes the sample corpus defaults so the shipped demo corpus
// validates cleanly, and embeds a prompt preview so different prompts
// produce different (but reproducible) outputs.
type Stub struct {
	model string
}

// NewStub returns the deterministic offline provider.
func NewStub(model string) *Stub {
	return &Stub{model: model}
}

func (s *Stub) Name() string { return config.ProviderStub }

func (s *Stub) Generate(_ context.Context, prompt string) (string, error) {
	head := strings.Join(strings.Fields(prompt), " ")
	if len(head) > 160 {
		cut := 160
		for cut > 0 && !utf8.RuneStart(head[cut]) {
			cut--
		}
		head = head[:cut] + "..."
	}
	out := fmt.Sprintf(`## Overview
Generated stub output for model %s (uses exemplar defaults).

## Materials & tolerances
Recommended default (from exemplar): 6061-T6 aluminum with ±0.05 mm on mounting interface.

## Vibration reliability practices
- Recommended default (from exemplar): Use blue threadlocker on screws.
- Recommended default (from exemplar): Apply anti-seize on aluminum interfaces.
- Recommended default (from exemplar): Torque M5 socket head cap screws to 4.5 N·m.

(Stub preview: %s)
`, s.model, head)
	return out, nil
}
