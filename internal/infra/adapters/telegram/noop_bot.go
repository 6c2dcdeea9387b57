package telegram

import (
	"context"

	"github.com/rs/zerolog"

	"projectnest/internal/config"
	"projectnest/internal/domain/ports/adapter"
)

var _ adapter.AdminNotifier = (*NoopNotifier)(nil)

// NoopNotifier logs alerts instead of sending them.
type NoopNotifier struct {
	log *zerolog.Logger
}

func NewNoopNotifier(log *zerolog.Logger) *NoopNotifier {
	return &NoopNotifier{log: log}
}

func (n *NoopNotifier) NotifyAdmins(_ context.Context, text string) error {
	n.log.Debug().Str("text", text).Msg("[noop-telegram] admin alert")
	return nil
}

// New returns the real notifier when a token and at least one admin chat are configured.
func New(cfg config.TelegramConfig, log *zerolog.Logger) adapter.AdminNotifier {
	if cfg.Token == "" || len(cfg.AdminIDs) == 0 {
		return NewNoopNotifier(log)
	}
	n, err := NewBotNotifier(cfg)
	if err != nil {
		log.Warn().Err(err).Msg("telegram notifier disabled")
		return NewNoopNotifier(log)
	}
	return n
}
