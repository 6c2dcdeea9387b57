package usecase

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/domain/model"
	"projectnest/internal/domain/ports/repository"
	"projectnest/internal/infra/logging"
	"projectnest/internal/infra/metrics"
)

// Compile-time check
var _ EntitlementUseCase = (*entitlementUC)(nil)

// EntitlementUseCase owns the per-user tier and credit ledger.
type EntitlementUseCase interface {
	// EnsureUser records the authenticated identity on first sight and refreshes
	// username/email afterwards. Entitlement is left untouched.
	EnsureUser(ctx context.Context, id, username, email string) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
}

type entitlementUC struct {
	users repository.UserRepository
	log   *zerolog.Logger
}

func NewEntitlementUseCase(users repository.UserRepository, logger *zerolog.Logger) *entitlementUC {
	return &entitlementUC{users: users, log: logger}
}

func (e *entitlementUC) EnsureUser(ctx context.Context, id, username, email string) (*model.User, error) {
	defer logging.TraceDuration(e.log, "EntitlementUC.EnsureUser")()

	u, err := model.NewUser(strings.TrimSpace(id), strings.TrimSpace(username), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	return e.users.Upsert(ctx, repository.NoTX, u)
}

func (e *entitlementUC) GetUser(ctx context.Context, id string) (*model.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.ErrUserNotFound
	}
	return e.users.FindByID(ctx, repository.NoTX, id)
}

// grantPack locks the user row, computes the monotonic entitlement and writes it.
// tx must be a live transaction for the lock to hold until the write. Credits are
// consumed by the download gate through the repository's conditional decrement.
func grantPack(ctx context.Context, users repository.UserRepository, tx repository.Tx, userID string, pack *model.PremiumPack) (*model.User, error) {
	u, err := users.FindByID(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	ent := model.EntitlementAfter(u, pack)
	updated, err := users.GrantSubscription(ctx, tx, userID, ent.Status, ent.Credits)
	if err != nil {
		metrics.IncGrant("error")
		return nil, err
	}
	metrics.IncGrant(string(ent.Status))
	return updated, nil
}
