package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemKind classifies an inventory item.
type ItemKind string

const (
	ItemRaw       ItemKind = "RAW"
	ItemPackaging ItemKind = "PACKAGING"
	ItemFinished  ItemKind = "FINISHED"
)

// CostScale is the decimal precision used for weighted-average unit costs.
const CostScale = 4

// InventoryItem is a stocked good valued at a weighted-average unit cost in
// the primary currency. Quantity and average cost are mutated only through
// ApplyInbound and ApplyOutbound inside a unit of work.
type InventoryItem struct {
	UpdatedAt time.Time
	CreatedAt time.Time
	Name      string
	Kind      ItemKind
	ID        int64
	FarmID    int64
	Quantity  decimal.Decimal
	AvgCost   decimal.Decimal
}

// ApplyInbound adds qty units at unitCost and recomputes the weighted-average
// cost. At zero stock the average resets to unitCost. Returns the new average.
func (i *InventoryItem) ApplyInbound(qty, unitCost decimal.Decimal) (decimal.Decimal, error) {
	if qty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidQuantity
	}

	if unitCost.IsNegative() {
		return decimal.Zero, ErrInvalidUnitCost
	}

	if i.Quantity.IsZero() {
		i.AvgCost = unitCost.Round(CostScale)
	} else {
		total := i.Quantity.Mul(i.AvgCost).Add(qty.Mul(unitCost))
		i.AvgCost = total.DivRound(i.Quantity.Add(qty), CostScale)
	}

	i.Quantity = i.Quantity.Add(qty)

	return i.AvgCost, nil
}

// ApplyOutbound consumes qty units and returns the current average unit cost
// as the cost basis for the movement. Outbound never changes the average.
func (i *InventoryItem) ApplyOutbound(qty decimal.Decimal) (decimal.Decimal, error) {
	if err := CheckStock(i.Quantity, qty); err != nil {
		return decimal.Zero, err
	}

	i.Quantity = i.Quantity.Sub(qty)

	return i.AvgCost, nil
}
