package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/infra/logging"
	"projectnest/internal/usecase"
)

// Principal is the authenticated caller as seen by handlers.
type Principal struct {
	UserID   string
	Username string
	Email    string
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the caller attached by Guard, if any.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok && p.UserID != ""
}

// Guard resolves the session once per request. A valid session makes sure the
// user row exists and attaches the Principal; anything else leaves the request
// anonymous so RequireAuth (or the handler) decides.
type Guard struct {
	auth   *AuthManager
	ledger usecase.EntitlementUseCase
	log    *zerolog.Logger
}

func NewGuard(auth *AuthManager, ledger usecase.EntitlementUseCase, logger *zerolog.Logger) *Guard {
	return &Guard{auth: auth, ledger: ledger, log: logger}
}

func (g *Guard) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.auth.ParseFromRequest(r)
		if err != nil {
			if !errors.Is(err, errMissingToken) {
				logging.With(r.Context(), g.log).Debug().Err(err).Msg("session rejected")
			}
			next.ServeHTTP(w, r)
			return
		}

		p := Principal{UserID: claims.Subject, Username: claims.Username, Email: claims.Email}
		ctx := r.Context()
		if _, err := g.ledger.GetUser(ctx, p.UserID); err != nil {
			if !errors.Is(err, domain.ErrUserNotFound) {
				writeError(w, r, g.log, err)
				return
			}
			if _, err := g.ledger.EnsureUser(ctx, p.UserID, p.Username, p.Email); err != nil {
				writeError(w, r, g.log, err)
				return
			}
		}

		ctx = logging.WithUserID(withPrincipal(ctx, p), p.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFrom(r.Context()); !ok {
			writeMessage(w, http.StatusUnauthorized, "Login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
