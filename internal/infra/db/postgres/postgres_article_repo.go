package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
)

var _ repository.ArticleRepository = (*articleRepo)(nil)

type articleRepo struct {
	pool *pgxpool.Pool
}

func NewArticleRepo(pool *pgxpool.Pool) *articleRepo {
	return &articleRepo{pool: pool}
}

const articleColumns = `id, title, content, category, is_premium, pdf_url, generated_by_ai, created_at`

func (r *articleRepo) Save(ctx context.Context, tx repository.Tx, a *model.Article) error {
	const q = `
INSERT INTO articles (title, content, category, is_premium, pdf_url, generated_by_ai, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id, created_at;`
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	row, err := pickRow(ctx, r.pool, tx, q, a.Title, a.Content, a.Category, a.IsPremium, a.PdfURL, a.GeneratedByAI, a.CreatedAt)
	if err != nil {
		return err
	}
	if err := row.Scan(&a.ID, &a.CreatedAt); err != nil {
		return fmt.Errorf("save article: %w", domain.ErrOperationFailed)
	}
	return nil
}

func (r *articleRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Article, error) {
	q := `SELECT ` + articleColumns + ` FROM articles WHERE id=$1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	a, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, domain.ErrReadDatabaseRow
	}
	return a, nil
}

// List applies the category (exact) and search (case-insensitive, title or content) filters.
func (r *articleRepo) List(ctx context.Context, tx repository.Tx, filter model.ArticleFilter) ([]*model.Article, error) {
	var (
		where []string
		args  []any
	)
	if c := strings.TrimSpace(filter.Category); c != "" {
		args = append(args, c)
		where = append(where, fmt.Sprintf("category = $%d", len(args)))
	}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+escapeLike(s)+"%")
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", len(args), len(args)))
	}

	q := `SELECT ` + articleColumns + ` FROM articles`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC, id DESC;"

	rows, err := queryRows(ctx, r.pool, tx, q, args...)
	if err != nil {
		return nil, mapExecErr(err)
	}
	defer rows.Close()

	out := make([]*model.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrOperationFailed
	}
	return out, nil
}

func (r *articleRepo) Count(ctx context.Context, tx repository.Tx) (int, error) {
	row, err := pickRow(ctx, r.pool, tx, `SELECT COUNT(*) FROM articles;`)
	if err != nil {
		return 0, err
	}
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("count articles: %w", err)
	}
	return n, nil
}

func scanArticle(row pgx.Row) (*model.Article, error) {
	var a model.Article
	if err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Category, &a.IsPremium, &a.PdfURL, &a.GeneratedByAI, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
