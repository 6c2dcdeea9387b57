package telegram

import (
	"context"
	"errors"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"projectnest/internal/config"
	"projectnest/internal/domain/ports/adapter"
)

var _ adapter.AdminNotifier = (*BotNotifier)(nil)

type messageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// BotNotifier sends plain-text alerts to every configured admin chat.
type BotNotifier struct {
	bot      messageSender
	adminIDs []int64
}

func NewBotNotifier(cfg config.TelegramConfig) (*BotNotifier, error) {
	if cfg.Token == "" {
		return nil, errors.New("telegram token empty")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return &BotNotifier{bot: bot, adminIDs: cfg.AdminIDs}, nil
}

// NotifyAdmins tries every chat and returns the first failure.
func (n *BotNotifier) NotifyAdmins(ctx context.Context, text string) error {
	var firstErr error
	for _, id := range n.adminIDs {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg := tgbotapi.NewMessage(id, text)
		if _, err := n.bot.Send(msg); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("notify admin %d: %w", id, err)
		}
	}
	return firstErr
}
