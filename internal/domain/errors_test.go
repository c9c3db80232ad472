package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("party_id", "party id must be positive")

	assert.EqualError(t, err, "validation failed on party_id: party id must be positive")

	wrapped := fmt.Errorf("posting rejected: %w", err)

	var verr *ValidationError
	require.ErrorAs(t, wrapped, &verr)
	assert.Equal(t, "party_id", verr.Field)
	assert.Equal(t, "party id must be positive", verr.Message)
}

func TestInsufficientStockError(t *testing.T) {
	err := &InsufficientStockError{
		Available: decimal.NewFromInt(100),
		Requested: decimal.NewFromInt(250),
	}

	assert.EqualError(t, err, "insufficient stock: available 100, requested 250")
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("broken pipe")
	err := &PersistenceError{Op: "begin transaction", Err: cause}

	assert.EqualError(t, err, "persistence failure in begin transaction: broken pipe")
	require.ErrorIs(t, err, cause)
}

func TestTransactionFailedError(t *testing.T) {
	cause := errors.New("connection reset")
	err := &TransactionFailedError{Cause: &PersistenceError{Op: "commit transaction", Err: cause}}

	assert.EqualError(t, err, "transaction failed: persistence failure in commit transaction: connection reset")

	// Matching must reach through both layers.
	require.ErrorIs(t, err, cause)

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "commit transaction", perr.Op)
}

func TestConcurrencyConflictSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("%w: could not serialize access", ErrConcurrencyConflict)

	require.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.NotErrorIs(t, err, ErrAlreadyReversed)
}
