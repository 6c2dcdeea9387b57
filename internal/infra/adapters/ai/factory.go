package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"projectnest/internal/config"
	"projectnest/internal/domain/ports/adapter"
)

// NewFromConfig builds the configured provider and caps its concurrency.
// Generation always runs on cfg.DefaultModel, so only one provider is constructed.
func NewFromConfig(ctx context.Context, cfg config.AIConfig, log *zerolog.Logger) (adapter.AIServiceAdapter, error) {
	var inner adapter.AIServiceAdapter
	switch cfg.Provider {
	case "gemini":
		g, err := NewGeminiAdapter(ctx, cfg.GeminiKey, cfg.GeminiURL, cfg.DefaultModel, cfg.MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("init gemini: %w", err)
		}
		inner = g
	case "openai":
		o, err := NewOpenAIAdapter(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.DefaultModel, cfg.MaxOutputTokens)
		if err != nil {
			return nil, fmt.Errorf("init openai: %w", err)
		}
		inner = o
	case "noop", "":
		inner = NewNoopAIAdapter(log)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}

	log.Info().Str("provider", inner.Name()).Str("model", cfg.DefaultModel).Int("concurrency", cfg.ConcurrentLimit).Msg("ai provider ready")
	return NewLimitedAI(inner, cfg.ConcurrentLimit), nil
}
