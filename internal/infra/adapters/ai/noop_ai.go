package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"projectnest/internal/domain/ports/adapter"
)

var _ adapter.AIServiceAdapter = (*NoopAIAdapter)(nil)

// NoopAIAdapter implements adapter.AIServiceAdapter for local/dev testing.
// It logs the prompt and returns a canned markdown article.
type NoopAIAdapter struct {
	log    *zerolog.Logger
	tokens *TokenCounter
}

func NewNoopAIAdapter(log *zerolog.Logger) *NoopAIAdapter {
	return &NoopAIAdapter{log: log, tokens: NewTokenCounter()}
}

func (a *NoopAIAdapter) Name() string { return "noop" }

func (a *NoopAIAdapter) CountTokens(_ context.Context, model string, messages []adapter.Message) (int, error) {
	return a.tokens.CountMessages(model, messages), nil
}

func (a *NoopAIAdapter) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	reply, _, err := a.ChatWithUsage(ctx, model, messages)
	return reply, err
}

func (a *NoopAIAdapter) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	select {
	case <-time.After(50 * time.Millisecond):
	case <-ctx.Done():
		return "", adapter.Usage{}, ctx.Err()
	}

	prompt := ""
	for _, m := range messages {
		if strings.EqualFold(m.Role, "user") {
			prompt = m.Content
		}
	}
	a.log.Debug().Str("model", model).Int("prompt_len", len(prompt)).Msg("[noop-ai] generate")

	reply := fmt.Sprintf("# Draft\n\nThis is a placeholder article generated without an AI provider.\n\n> %s\n", prompt)
	in := a.tokens.CountMessages(model, messages)
	out := a.tokens.Count(model, reply)
	return reply, adapter.Usage{PromptTokens: in, CompletionTokens: out, TotalTokens: in + out}, nil
}
