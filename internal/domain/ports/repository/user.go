package repository

import (
	"context"

	"projectnest/internal/domain/model"
)

// -----------------------------
// Users / entitlement ledger
// -----------------------------

type UserRepository interface {
	// Upsert creates the user on first sight and refreshes username/email afterwards.
	// Entitlement columns are never touched by Upsert.
	Upsert(ctx context.Context, tx Tx, u *model.User) (*model.User, error)
	// FindByID locks the row (FOR UPDATE) when tx is a live transaction.
	FindByID(ctx context.Context, tx Tx, id string) (*model.User, error)
	// GrantSubscription overwrites status and credits unconditionally.
	GrantSubscription(ctx context.Context, tx Tx, id string, status model.SubscriptionStatus, credits int) (*model.User, error)
	// DecrementCredits subtracts one credit in a single relative update, only when the
	// user is not lifetime and has credits left. Returns domain.ErrInsufficientCredits otherwise.
	DecrementCredits(ctx context.Context, tx Tx, id string) (*model.User, error)
}
