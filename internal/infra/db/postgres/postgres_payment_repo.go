package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
)

var _ repository.PaymentRepository = (*paymentRepo)(nil)

type paymentRepo struct{ pool *pgxpool.Pool }

func NewPaymentRepo(pool *pgxpool.Pool) *paymentRepo {
	return &paymentRepo{pool: pool}
}

func (r *paymentRepo) Save(ctx context.Context, tx repository.Tx, p *model.Payment) error {
	const q = `
INSERT INTO payments (user_id, amount, razorpay_order_id, razorpay_payment_id, status, pack_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id;`
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	row, err := pickRow(ctx, r.pool, tx, q, p.UserID, p.Amount, p.RazorpayOrderID, p.RazorpayPaymentID, string(p.Status), p.PackID, p.CreatedAt)
	if err != nil {
		return err
	}
	if err := row.Scan(&p.ID); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *paymentRepo) FindByOrderID(ctx context.Context, tx repository.Tx, orderID string) (*model.Payment, error) {
	q := forUpdate(`SELECT id, user_id, amount, razorpay_order_id, razorpay_payment_id, status, pack_id, created_at FROM payments WHERE razorpay_order_id=$1`, tx) + ";"
	row, err := pickRow(ctx, r.pool, tx, q, orderID)
	if err != nil {
		return nil, err
	}

	var (
		p      model.Payment
		status string
		packID *int64
	)
	if err := row.Scan(&p.ID, &p.UserID, &p.Amount, &p.RazorpayOrderID, &p.RazorpayPaymentID, &status, &packID, &p.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	p.Status = model.PaymentStatus(status)
	if packID != nil {
		p.PackID = *packID
	}
	return &p, nil
}

func (r *paymentRepo) MarkCompleted(ctx context.Context, tx repository.Tx, id int64, gatewayPaymentID string) (bool, error) {
	const q = `UPDATE payments SET status='completed', razorpay_payment_id=$2 WHERE id=$1 AND status='pending';`
	ct, err := execSQL(ctx, r.pool, tx, q, id, gatewayPaymentID)
	if err != nil {
		return false, mapExecErr(err)
	}
	return ct.RowsAffected() == 1, nil
}

func (r *paymentRepo) FailStalePending(ctx context.Context, tx repository.Tx, olderThan time.Time) (int64, error) {
	const q = `UPDATE payments SET status='failed' WHERE status='pending' AND created_at < $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, olderThan)
	if err != nil {
		return 0, mapExecErr(err)
	}
	return ct.RowsAffected(), nil
}
