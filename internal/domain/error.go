package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrAlreadyExists   = errors.New("entity already exists")
	ErrInvalidArgument = errors.New("invalid argument")

	// Auth
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")

	// Catalog
	ErrArticleNotFound = errors.New("article not found")
	ErrPackNotFound    = errors.New("pack not found")
	ErrUserNotFound    = errors.New("user not found")

	// Ledger
	ErrInsufficientCredits = errors.New("no credits remaining")

	// Payments
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrPaymentNotPending = errors.New("payment is not pending")
	ErrPaymentOwnership  = errors.New("payment belongs to another user")
	ErrPackMismatch      = errors.New("pack does not match the order")

	// External providers (gateway, AI)
	ErrProvider    = errors.New("provider error")
	ErrRateLimited = errors.New("rate limit exceeded")

	// Storage plumbing
	ErrInvalidExecContext = errors.New("invalid db execution context")
	ErrOperationFailed    = errors.New("database operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")
)

// InsufficientCreditsError is returned by the download gate. RequiredPack names the
// cheapest pack that would unlock the download.
type InsufficientCreditsError struct {
	RequiredPack string
}

func (e *InsufficientCreditsError) Error() string { return ErrInsufficientCredits.Error() }
func (e *InsufficientCreditsError) Unwrap() error { return ErrInsufficientCredits }
