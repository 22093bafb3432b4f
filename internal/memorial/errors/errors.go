package errors

import "errors"

var (
	// ErrCreditNotFound means no prepayment credit exists for the
	// submission id.
	ErrCreditNotFound = errors.New("prepayment credit not found")

	// ErrCreditTerminal means the credit was cancelled or refunded and
	// can never be redeemed.
	ErrCreditTerminal = errors.New("prepayment credit is cancelled or refunded")

	// ErrCreditExhausted means every placement the credit covers has
	// already been used.
	ErrCreditExhausted = errors.New("prepayment credit has no placements remaining")

	// ErrNoCapacity is the guarded-update miss: the credit existed when
	// classified but a concurrent redemption took the last placement.
	ErrNoCapacity = errors.New("prepayment credit capacity taken concurrently")

	// ErrBookingNotFound means the booking a redemption referenced does
	// not exist.
	ErrBookingNotFound = errors.New("referenced booking not found")

	ErrInvalidID = errors.New("invalid prepayment ID format")
)
