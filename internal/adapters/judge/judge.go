// Package judge adapts language-model providers to domain.Judge.
package judge

import (
	"context"
	"fmt"

	"flavor_sentiment/internal/domain"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

type Options struct {
	Provider    string
	OpenAIBase  string
	OpenAIKey   string
	OpenAIModel string
	GeminiKey   string
	GeminiModel string
	OllamaHost  string
	OllamaModel string
	RPS         int
}

// New builds the provider named by o.Provider. The returned close func
// releases provider resources and is never nil.
func New(ctx context.Context, o Options) (domain.Judge, func(), error) {
	nop := func() {}
	switch o.Provider {
	case ProviderOpenAI, "":
		j, err := NewOpenAI(o.OpenAIBase, o.OpenAIKey, o.OpenAIModel, o.RPS)
		if err != nil {
			return nil, nop, err
		}
		return j, nop, nil
	case ProviderOllama:
		j, err := NewOllama(o.OllamaHost, o.OllamaModel, o.RPS)
		if err != nil {
			return nil, nop, err
		}
		return j, nop, nil
	case ProviderGemini:
		j, err := NewGemini(ctx, o.GeminiKey, o.GeminiModel, o.RPS)
		if err != nil {
			return nil, nop, err
		}
		return j, func() { _ = j.Close() }, nil
	default:
		return nil, nop, fmt.Errorf("unknown judge provider %q", o.Provider)
	}
}
