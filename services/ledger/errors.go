package ledgerService

import (
	"errors"
	"fmt"
)

// Error taxonomy surfaced to controllers. Storage errors are never passed
// through; everything a caller sees wraps one of these sentinels.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrForbidden          = errors.New("forbidden")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrDuplicateReference = errors.New("external reference already in use")

	// Idempotent no-ops, not user-facing failures
	ErrAlreadySettled = errors.New("transaction already settled")
	ErrAlreadyOpened  = errors.New("chest already opened")

	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

var (
	ErrInvalidAmount       = fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	ErrUserNotFound        = fmt.Errorf("user %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrChestNotFound       = fmt.Errorf("reward chest %w", ErrNotFound)

	ErrDepositRequired = fmt.Errorf("%w: at least one completed deposit is required", ErrForbidden)
	ErrBalanceTooLow   = fmt.Errorf("%w: balance below the required threshold", ErrForbidden)
)
