package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxQuantity          = 1_000_000
	MaxNoteLength        = 1000
	MaxAmount            = "1000000000" // 1 billion primary units
	TimestampSlack       = 24 * time.Hour
	MaxCategoryLength    = 100
	MaxDescriptionLength = 255
)

// ValidatePartyID checks the party identifier is usable for posting.
func ValidatePartyID(id int64) error {
	if id <= 0 {
		return NewValidationError("party_id", "party id must be positive")
	}
	return nil
}

// ValidateQuantity checks 0 < qty <= MaxQuantity.
func ValidateQuantity(qty decimal.Decimal) error {
	if qty.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("quantity", "quantity must be positive")
	}

	if qty.GreaterThan(decimal.NewFromInt(MaxQuantity)) {
		return NewValidationError("quantity", fmt.Sprintf("quantity exceeds maximum of %d", MaxQuantity))
	}

	return nil
}

// ValidateRate checks 0 <= rate <= ceiling. A zero rate records a zero-value
// movement (free disposal or gift) and posts no ledger entry.
func ValidateRate(rate, ceiling decimal.Decimal) error {
	if rate.IsNegative() {
		return NewValidationError("rate", "rate cannot be negative")
	}

	if ceiling.IsPositive() && rate.GreaterThan(ceiling) {
		return NewValidationError("rate", fmt.Sprintf("rate exceeds configured ceiling of %s", ceiling))
	}

	return nil
}

// ValidateAmount checks 0 < amount <= MaxAmount for payments and expenses.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("amount", "amount must be positive")
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return NewValidationError("amount", fmt.Sprintf("amount exceeds maximum of %s", MaxAmount))
	}

	return nil
}

// ValidateNote checks the free-text note length.
func ValidateNote(note string) error {
	if len(note) > MaxNoteLength {
		return NewValidationError("note", fmt.Sprintf("note exceeds %d characters", MaxNoteLength))
	}
	return nil
}

// ValidateTimestamp rejects zero timestamps and timestamps more than
// TimestampSlack in the future. Backdating is allowed.
func ValidateTimestamp(ts, now time.Time) error {
	if ts.IsZero() {
		return NewValidationError("timestamp", "timestamp is required")
	}

	if ts.After(now.Add(TimestampSlack)) {
		return NewValidationError("timestamp", "timestamp too far in the future")
	}

	return nil
}
