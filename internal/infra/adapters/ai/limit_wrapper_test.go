package ai_test

import (
	"context"
	"errors"
	"testing"

	"projectnest/internal/domain/ports/adapter"
	ai "projectnest/internal/infra/adapters/ai"
)

type stubAI struct {
	name         string
	ctN          int
	cwuN         int
	lastModelCT  string
	lastModelCWU string
}

func (s *stubAI) Name() string { return s.name }
func (s *stubAI) CountTokens(ctx context.Context, model string, messages []adapter.Message) (int, error) {
	s.ctN++
	s.lastModelCT = model
	return 1, nil
}
func (s *stubAI) Chat(ctx context.Context, model string, messages []adapter.Message) (string, error) {
	return "ok", nil
}
func (s *stubAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	s.cwuN++
	s.lastModelCWU = model
	return "ok", adapter.Usage{PromptTokens: 1, CompletionTokens: 1}, nil
}

type blockingAI struct {
	stubAI
	entered chan struct{}
	release chan struct{}
}

func (b *blockingAI) ChatWithUsage(ctx context.Context, model string, messages []adapter.Message) (string, adapter.Usage, error) {
	b.entered <- struct{}{}
	<-b.release
	return "ok", adapter.Usage{}, nil
}

func TestLimitedAI_RespectsContextWhileWaiting(t *testing.T) {
	inner := &blockingAI{stubAI: stubAI{name: "slow"}, entered: make(chan struct{}, 1), release: make(chan struct{})}
	l := ai.NewLimitedAI(inner, 1)

	go func() { _, _, _ = l.ChatWithUsage(context.Background(), "m", nil) }()
	<-inner.entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := l.ChatWithUsage(ctx, "m", nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled while the slot is taken, got %v", err)
	}
	close(inner.release)

	if l.Name() != "slow" {
		t.Errorf("Name() must pass through, got %q", l.Name())
	}
}

func TestNewLimitedAI_ZeroLimitReturnsInner(t *testing.T) {
	inner := &stubAI{name: "x"}
	if got := ai.NewLimitedAI(inner, 0); got != adapter.AIServiceAdapter(inner) {
		t.Error("a non-positive limit must return the inner adapter unchanged")
	}
}
