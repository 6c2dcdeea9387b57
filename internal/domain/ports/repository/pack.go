package repository

import (
	"context"

	"projectnest/internal/domain/model"
)

// PremiumPackRepository is the port for the pack catalog.
type PremiumPackRepository interface {
	Save(ctx context.Context, tx Tx, p *model.PremiumPack) error
	FindByID(ctx context.Context, tx Tx, id int64) (*model.PremiumPack, error)
	// ListAll returns packs ordered by ascending price.
	ListAll(ctx context.Context, tx Tx) ([]*model.PremiumPack, error)
}
