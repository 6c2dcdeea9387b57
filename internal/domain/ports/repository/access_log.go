package repository

import (
	"context"

	"projectnest/internal/domain/model"
)

type AccessLogRepository interface {
	Append(ctx context.Context, tx Tx, l *model.AccessLog) error
	CountByUser(ctx context.Context, tx Tx, userID string) (int, error)
}
