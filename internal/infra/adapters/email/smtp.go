package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"projectnest/internal/config"
	"projectnest/internal/domain/ports/adapter"
)

var _ adapter.EmailSender = (*SMTPSender)(nil)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers plain-text mail with an HTML alternative.
type SMTPSender struct {
	from   string
	dialer dialer
}

func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	m.AddAlternative("text/html", "<html><body><p>"+strings.ReplaceAll(html.EscapeString(body), "\n", "<br>")+"</p></body></html>")

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

var _ adapter.EmailSender = (*LogSender)(nil)

// LogSender stands in when SMTP credentials are absent.
type LogSender struct {
	log *zerolog.Logger
}

func NewLogSender(log *zerolog.Logger) *LogSender { return &LogSender{log: log} }

func (s *LogSender) Send(_ context.Context, to, subject, body string) error {
	s.log.Info().Str("to", to).Str("subject", subject).Str("text", body).Msg("[MOCK EMAIL]")
	return nil
}

// New picks SMTP when credentials are configured.
func New(cfg config.EmailConfig, log *zerolog.Logger) adapter.EmailSender {
	if cfg.Enabled() {
		return NewSMTPSender(cfg)
	}
	return NewLogSender(log)
}
