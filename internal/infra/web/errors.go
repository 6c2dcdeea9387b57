package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"projectnest/internal/domain"
	"projectnest/internal/infra/logging"
)

type errorResponse struct {
	Message      string `json:"message"`
	RequiredPack string `json:"requiredPack,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Message: msg})
}

// statusFor maps domain errors to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrInsufficientCredits),
		errors.Is(err, domain.ErrPaymentOwnership):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrArticleNotFound),
		errors.Is(err, domain.ErrPackNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidSignature),
		errors.Is(err, domain.ErrPaymentNotPending),
		errors.Is(err, domain.ErrPackMismatch):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as {"message": ...}. Storage failures are logged and
// reported generically; provider failures keep their message.
func writeError(w http.ResponseWriter, r *http.Request, log *zerolog.Logger, err error) {
	status := statusFor(err)
	resp := errorResponse{Message: err.Error()}

	var credits *domain.InsufficientCreditsError
	if errors.As(err, &credits) {
		resp.RequiredPack = credits.RequiredPack
	}

	if status == http.StatusInternalServerError {
		logging.With(r.Context(), log).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if !errors.Is(err, domain.ErrProvider) {
			resp.Message = "Internal Server Error"
		}
	}
	writeJSON(w, status, resp)
}
