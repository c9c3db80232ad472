package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// The exchange rate is expressed as primary-currency units per one
// secondary-currency unit (e.g. rate 78 means 78 primary = 1 secondary).
// Every transaction carries its own rate snapshot; changing the configured
// default never rewrites history.

// MaxExchangeRate is the upper bound for a per-transaction exchange rate.
const MaxExchangeRate = "1000"

// MoneyScale is the decimal precision used for monetary amounts.
const MoneyScale = 2

// ValidateExchangeRate checks the rate is positive and within bounds.
func ValidateExchangeRate(rate decimal.Decimal) error {
	if rate.LessThanOrEqual(decimal.Zero) {
		return NewValidationError("exchange_rate", "exchange rate must be positive")
	}

	maxRate, _ := decimal.NewFromString(MaxExchangeRate)
	if rate.GreaterThan(maxRate) {
		return NewValidationError("exchange_rate", fmt.Sprintf("exchange rate exceeds maximum of %s", MaxExchangeRate))
	}

	return nil
}

// ConvertToSecondary converts a primary-currency amount to the secondary
// currency using the given rate, rounding half-up to 2 decimal places.
func ConvertToSecondary(amountPrimary, rate decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateExchangeRate(rate); err != nil {
		return decimal.Zero, err
	}

	return amountPrimary.DivRound(rate, MoneyScale), nil
}
