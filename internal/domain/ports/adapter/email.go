package adapter

import "context"

// EmailSender delivers plain-text mail.
type EmailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}
