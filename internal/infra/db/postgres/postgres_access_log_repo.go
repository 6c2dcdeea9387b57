package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
)

var _ repository.AccessLogRepository = (*accessLogRepo)(nil)

type accessLogRepo struct{ pool *pgxpool.Pool }

func NewAccessLogRepo(pool *pgxpool.Pool) *accessLogRepo {
	return &accessLogRepo{pool: pool}
}

func (r *accessLogRepo) Append(ctx context.Context, tx repository.Tx, l *model.AccessLog) error {
	const q = `INSERT INTO access_logs (user_id, article_id, type, timestamp) VALUES ($1, $2, $3, $4) RETURNING id;`
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	row, err := pickRow(ctx, r.pool, tx, q, l.UserID, l.ArticleID, l.Type, l.Timestamp)
	if err != nil {
		return err
	}
	if err := row.Scan(&l.ID); err != nil {
		return domain.ErrOperationFailed
	}
	return nil
}

func (r *accessLogRepo) CountByUser(ctx context.Context, tx repository.Tx, userID string) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM access_logs WHERE user_id=$1;`, userID)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, domain.ErrReadDatabaseRow
	}
	return n, nil
}
