// Package llm holds the optional transcript-reconstruction provider.
// When enabled it replaces the entire heuristic pipeline's output for a
// given input; the heuristic core never calls out to it and works fully
// offline.
package llm

import (
	"context"
	"fmt"

	"github.com/ryotak25/kaidoku/internal/model"
)

// Provider reconstructs a conversation from a raw dump via an external
// model
type Provider interface {
	// Name returns the provider name
	Name() string

	// Reconstruct returns a full replacement analysis for the raw text
	Reconstruct(ctx context.Context, raw string) (*model.AnalysisResult, error)

	// IsAvailable checks whether the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// New builds a provider from the configuration. An empty provider name
// means disabled.
func New(cfg model.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "":
		return nil, fmt.Errorf("llm provider is disabled")
	case "openai":
		return NewOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// BuildPrompt constructs the reconstruction prompt. The model must only
// re-attribute the given text, never invent content.
func BuildPrompt(raw string) string {
	return fmt.Sprintf(`You are reconstructing a conversation that was copied as one messy
text dump from an AI-chat web UI. Split it into messages and decide for
each whether the human or the assistant wrote it.

RULES:
1. Use ONLY text from the dump. Never invent, summarize, or reorder content.
2. Respond with a JSON object: {"messages":[{"role":"user"|"ai","text":"..."}]}
3. Strip UI chrome (copy buttons, vote labels) but keep all real content.
4. The dump may mix Japanese and English; keep the original language.

DUMP:
%s`, raw)
}
