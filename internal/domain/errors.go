package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency. Store failures are
// wrapped into ErrStoreUnavailable at the service boundary so presentation
// code never sees raw driver errors.

var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Event errors — rejected before any store mutation
	ErrInvalidEvent    = errors.New("invalid event: negative amount or unknown kind")
	ErrUnknownMaterial = errors.New("unknown recycling material")

	// Store errors
	ErrStoreUnavailable = errors.New("store unavailable")

	// Report errors
	ErrReportNotFound = errors.New("report not found")
	ErrNotReportOwner = errors.New("only the report owner can delete it")
	ErrEmptyReport    = errors.New("report message must not be empty")

	// Location errors
	ErrLocationNotFound = errors.New("collection point not found")
)
