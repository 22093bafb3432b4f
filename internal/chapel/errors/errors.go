package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	// ErrSlotClaimed means another request currently holds the claim on
	// the same (date, time) slot. Retryable.
	ErrSlotClaimed = errors.New("slot is claimed by another request")
)
