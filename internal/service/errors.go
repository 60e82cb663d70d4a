package service

import "errors"

// Error taxonomy for the serving core. The transport layer owns the mapping
// to HTTP status codes; everything here is local to a single request and
// never fatal to the process.
var (
	// ErrNoFill means no eligible campaign matched the request. Not a
	// failure: the client falls back to house inventory.
	ErrNoFill = errors.New("no eligible campaign")

	// ErrBudgetExhausted is returned by ReserveImpression when the campaign
	// cap was already reached. The serve loop retries the next candidate.
	ErrBudgetExhausted = errors.New("impression budget exhausted")

	// ErrInvalidToken covers unknown, malformed, and expired tracking tokens.
	ErrInvalidToken = errors.New("invalid tracking token")

	// ErrAlreadyConfirmed means the impression token was consumed before.
	ErrAlreadyConfirmed = errors.New("impression already confirmed")

	// ErrAlreadyClicked means the impression already has its one click.
	ErrAlreadyClicked = errors.New("impression already clicked")

	// ErrImpressionNotConfirmed means a click arrived before the impression
	// was confirmed.
	ErrImpressionNotConfirmed = errors.New("impression not confirmed")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrStoreUnavailable wraps persistence-layer failures. Surfaced as 503;
	// retrying is the caller's responsibility.
	ErrStoreUnavailable = errors.New("campaign store unavailable")
)
