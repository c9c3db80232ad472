package domain

import (
	"errors"
	"fmt"
)

var (
	// Lookup errors
	ErrPartyNotFound       = errors.New("party not found")
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrEntryNotFound       = errors.New("ledger entry not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrPaymentNotFound     = errors.New("payment not found")

	// Posting errors
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidUnitCost    = errors.New("unit cost cannot be negative")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrEntryUnbalanced    = errors.New("entry must move exactly one side of the balance")
	ErrReversalOfReversal = errors.New("cannot reverse a reversal entry")
	ErrAlreadyReversed    = errors.New("entry has already been reversed")

	// ErrConcurrencyConflict surfaces a storage-level serialization failure.
	// The caller must retry against a fresh read; the engine never retries.
	ErrConcurrencyConflict = errors.New("concurrent modification detected")
)

// ValidationError reports rejected input. Nothing has been written when one
// is returned.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// PersistenceError wraps an unexpected storage failure opening or committing
// a unit of work. No mutation survives it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure in %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// TransactionFailedError wraps any failure occurring after a posting's unit
// of work opened. Every mutation of the invocation was rolled back.
type TransactionFailedError struct {
	Cause error
}

func (e *TransactionFailedError) Error() string {
	return fmt.Sprintf("transaction failed: %v", e.Cause)
}

func (e *TransactionFailedError) Unwrap() error {
	return e.Cause
}
