package domain

import "errors"

var (
	// Format errors
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidEventKind = errors.New("invalid event kind")

	// Timeline errors
	ErrEventsOutOfOrder = errors.New("events are not in chronological order")
	ErrNoEvents         = errors.New("no events supplied")
	ErrTooManyEvents    = errors.New("too many events")

	// Ledger errors
	ErrInvariantViolation = errors.New("ledger invariant violated")

	// Account errors
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidAccountName = errors.New("invalid account name")

	// Auth errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// IsFormatError reports whether err comes from parsing a malformed event or date.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidEventKind)
}
