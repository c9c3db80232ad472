package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InsufficientStockError reports an outbound request exceeding the quantity
// available at call time.
type InsufficientStockError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: available %s, requested %s", e.Available, e.Requested)
}

// CheckStock verifies that requested can be consumed from available. It never
// clamps the request; callers either get the full quantity or an error.
func CheckStock(available, requested decimal.Decimal) error {
	if requested.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidQuantity
	}

	if requested.GreaterThan(available) {
		return &InsufficientStockError{Available: available, Requested: requested}
	}

	return nil
}
