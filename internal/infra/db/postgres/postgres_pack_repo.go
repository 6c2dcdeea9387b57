package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
)

// Ensure interface compliance
var _ repository.PremiumPackRepository = (*PostgresPackRepo)(nil)

type PostgresPackRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresPackRepo(pool *pgxpool.Pool) *PostgresPackRepo {
	return &PostgresPackRepo{pool: pool}
}

func (r *PostgresPackRepo) Save(ctx context.Context, tx repository.Tx, p *model.PremiumPack) error {
	features, err := json.Marshal(nonNilFeatures(p.Features))
	if err != nil {
		return fmt.Errorf("Save pack: %w", err)
	}
	if p.ID == 0 {
		const q = `
INSERT INTO premium_packs (name, price, pdf_limit, access_type, features)
VALUES ($1, $2, $3, $4, $5)
RETURNING id;`
		row, err := pickRow(ctx, r.pool, tx, q, p.Name, p.Price, p.PdfLimit, string(p.AccessType), features)
		if err != nil {
			return err
		}
		if err := row.Scan(&p.ID); err != nil {
			return fmt.Errorf("Save pack: %w", err)
		}
		return nil
	}

	const q = `
UPDATE premium_packs
   SET name = $2, price = $3, pdf_limit = $4, access_type = $5, features = $6
 WHERE id = $1;`
	ct, err := execSQL(ctx, r.pool, tx, q, p.ID, p.Name, p.Price, p.PdfLimit, string(p.AccessType), features)
	if err != nil {
		return mapExecErr(err)
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrPackNotFound
	}
	return nil
}

func (r *PostgresPackRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.PremiumPack, error) {
	const q = `
SELECT id, name, price, pdf_limit, access_type, features
  FROM premium_packs
 WHERE id = $1;`
	row, err := pickRow(ctx, r.pool, tx, q, id)
	if err != nil {
		return nil, err
	}
	p, err := scanPack(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPackNotFound
		}
		return nil, fmt.Errorf("FindByID pack: %w", err)
	}
	return p, nil
}

func (r *PostgresPackRepo) ListAll(ctx context.Context, tx repository.Tx) ([]*model.PremiumPack, error) {
	const q = `
SELECT id, name, price, pdf_limit, access_type, features
  FROM premium_packs
 ORDER BY price ASC, id ASC;`
	rows, err := queryRows(ctx, r.pool, tx, q)
	if err != nil {
		return nil, fmt.Errorf("ListAll packs: %w", err)
	}
	defer rows.Close()
	out := make([]*model.PremiumPack, 0)
	for rows.Next() {
		p, err := scanPack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPack(row pgx.Row) (*model.PremiumPack, error) {
	var (
		p        model.PremiumPack
		access   string
		features []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.PdfLimit, &access, &features); err != nil {
		return nil, err
	}
	p.AccessType = model.AccessType(access)
	p.Features = []string{}
	if len(features) > 0 {
		if err := json.Unmarshal(features, &p.Features); err != nil {
			return nil, fmt.Errorf("decode pack features: %w", err)
		}
	}
	return &p, nil
}

func nonNilFeatures(f []string) []string {
	if f == nil {
		return []string{}
	}
	return f
}
