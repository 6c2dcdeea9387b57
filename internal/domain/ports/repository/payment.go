package repository

import (
	"context"
	"time"

	"projectnest/internal/domain/model"
)

// -----------------------------
// Payments
// -----------------------------

type PaymentRepository interface {
	Save(ctx context.Context, tx Tx, p *model.Payment) error
	// FindByOrderID locks the row (FOR UPDATE) when tx is a live transaction.
	FindByOrderID(ctx context.Context, tx Tx, orderID string) (*model.Payment, error)
	// MarkCompleted moves a pending payment to completed. Returns false if it was not pending.
	MarkCompleted(ctx context.Context, tx Tx, id int64, gatewayPaymentID string) (bool, error)
	// FailStalePending moves pending payments created before olderThan to failed.
	FailStalePending(ctx context.Context, tx Tx, olderThan time.Time) (int64, error)
}
