package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
)

var _ repository.UserRepository = (*PostgresUserRepo)(nil)

type PostgresUserRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresUserRepo(pool *pgxpool.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

const userColumns = `id, username, email, subscription_status, premium_credits, created_at, updated_at`

func (r *PostgresUserRepo) Upsert(ctx context.Context, tx repository.Tx, u *model.User) (*model.User, error) {
	const q = `
INSERT INTO users (id, username, email, subscription_status, premium_credits, created_at, updated_at)
VALUES ($1, $2, $3, 'free', 0, NOW(), NOW())
ON CONFLICT (id) DO UPDATE SET
  username   = EXCLUDED.username,
  email      = EXCLUDED.email,
  updated_at = NOW()
RETURNING ` + userColumns + `;`
	row, err := pickRow(ctx, r.pool, tx, q, u.ID, u.Username, u.Email)
	if err != nil {
		return nil, err
	}
	out, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", domain.ErrOperationFailed)
	}
	return out, nil
}

func (r *PostgresUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	q := forUpdate(`SELECT `+userColumns+` FROM users WHERE id=$1`, tx) + ";"
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return u, nil
}

func (r *PostgresUserRepo) GrantSubscription(ctx context.Context, tx repository.Tx, id string, status model.SubscriptionStatus, credits int) (*model.User, error) {
	const q = `
UPDATE users
   SET subscription_status = $2, premium_credits = $3, updated_at = NOW()
 WHERE id = $1
RETURNING ` + userColumns + `;`
	row, err := pickRow(ctx, r.pool, tx, q, id, string(status), credits)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("grant subscription: %w", domain.ErrOperationFailed)
	}
	return u, nil
}

func (r *PostgresUserRepo) DecrementCredits(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	const q = `
UPDATE users
   SET premium_credits = premium_credits - 1, updated_at = NOW()
 WHERE id = $1
   AND subscription_status <> 'lifetime'
   AND premium_credits > 0
RETURNING ` + userColumns + `;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInsufficientCredits
		}
		return nil, fmt.Errorf("decrement credits: %w", domain.ErrOperationFailed)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*model.User, error) {
	var (
		u      model.User
		status string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &status, &u.PremiumCredits, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.SubscriptionStatus = model.SubscriptionStatus(status)
	return &u, nil
}
