package repository

import (
	"context"

	"projectnest/internal/domain/model"
)

// -----------------------------
// Articles
// -----------------------------

type ArticleRepository interface {
	// Save inserts the article and fills in ID and CreatedAt.
	Save(ctx context.Context, tx Tx, a *model.Article) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.Article, error)
	// List returns articles newest first. An empty result is not an error.
	List(ctx context.Context, tx Tx, filter model.ArticleFilter) ([]*model.Article, error)
	Count(ctx context.Context, tx Tx) (int, error)
}
