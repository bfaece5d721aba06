package core

import "errors"

// Sentinel errors returned by services and storage. Handlers map these to
// HTTP status codes; nothing below the HTTP layer retries them.
var (
	// ErrNotFound covers both a missing entity and an entity owned by a
	// different owner, so existence never leaks across owners.
	ErrNotFound = errors.New("not found")

	// ErrOverpayment is returned when a debt payment exceeds the remaining
	// amount. The debt is left untouched.
	ErrOverpayment = errors.New("payment exceeds remaining debt")

	// ErrConflict signals that a concurrent mutation invalidated an in-flight
	// operation's precondition.
	ErrConflict = errors.New("concurrent modification conflict")

	// ErrConsistency signals that an atomic unit could not complete. The
	// original state is intact.
	ErrConsistency = errors.New("operation could not complete atomically")
)

// Validation errors.
var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidDirection = errors.New("invalid debt direction")
	ErrInvalidFrequency = errors.New("invalid frequency")
	ErrInvalidStatus    = errors.New("invalid invoice status")
	ErrInvalidDate      = errors.New("invalid date")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyTitle       = errors.New("empty title")
)

// IsValidation reports whether err belongs to the validation family, so the
// HTTP layer can map it without enumerating every sentinel.
func IsValidation(err error) bool {
	for _, v := range []error{
		ErrInvalidAmount, ErrInvalidType, ErrInvalidDirection,
		ErrInvalidFrequency, ErrInvalidStatus, ErrInvalidDate,
		ErrEmptyName, ErrEmptyTitle,
	} {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
