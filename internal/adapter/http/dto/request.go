package dto

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

// validate holds the shared validator instance. Tags cover request shape
// (required fields, enum values); amount and rate checks live in the domain
// because validator cannot inspect decimal values.
var validate = validator.New()

// RecordSaleRequest represents a request to record a sale.
type RecordSaleRequest struct {
	PartyID      int64           `json:"party_id" validate:"required,gt=0"`
	ItemID       int64           `json:"item_id" validate:"gte=0"`
	FarmID       int64           `json:"farm_id" validate:"gte=0"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	Method       string          `json:"method" validate:"required,oneof=Cash Credit"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Note         string          `json:"note" validate:"max=500"`
	OccurredAt   *time.Time      `json:"occurred_at,omitempty"`
}

// Validate checks the request shape.
func (r *RecordSaleRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RecordSaleRequest) ToUseCaseInput() usecase.RecordSaleInput {
	input := usecase.RecordSaleInput{
		PartyID:      r.PartyID,
		ItemID:       r.ItemID,
		FarmID:       r.FarmID,
		Quantity:     r.Quantity,
		UnitRate:     r.UnitRate,
		Method:       domain.PaymentMethod(r.Method),
		ExchangeRate: r.ExchangeRate,
		Note:         r.Note,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = *r.OccurredAt
	}

	return input
}

// RecordPurchaseRequest represents a request to record a purchase.
type RecordPurchaseRequest struct {
	PartyID      int64           `json:"party_id" validate:"required,gt=0"`
	ItemID       int64           `json:"item_id" validate:"gte=0"`
	FarmID       int64           `json:"farm_id" validate:"gte=0"`
	Quantity     decimal.Decimal `json:"quantity"`
	UnitRate     decimal.Decimal `json:"unit_rate"`
	Method       string          `json:"method" validate:"required,oneof=Cash Credit"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Note         string          `json:"note" validate:"max=500"`
	OccurredAt   *time.Time      `json:"occurred_at,omitempty"`
}

// Validate checks the request shape.
func (r *RecordPurchaseRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RecordPurchaseRequest) ToUseCaseInput() usecase.RecordPurchaseInput {
	input := usecase.RecordPurchaseInput{
		PartyID:      r.PartyID,
		ItemID:       r.ItemID,
		FarmID:       r.FarmID,
		Quantity:     r.Quantity,
		UnitRate:     r.UnitRate,
		Method:       domain.PaymentMethod(r.Method),
		ExchangeRate: r.ExchangeRate,
		Note:         r.Note,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = *r.OccurredAt
	}

	return input
}

// RecordExpenseRequest represents a request to record an operating expense.
// A zero party_id books the expense without a counterparty.
type RecordExpenseRequest struct {
	PartyID      int64           `json:"party_id" validate:"gte=0"`
	FarmID       int64           `json:"farm_id" validate:"gte=0"`
	Amount       decimal.Decimal `json:"amount"`
	Category     string          `json:"category" validate:"required,max=100"`
	Method       string          `json:"method" validate:"required,oneof=Cash Credit"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Note         string          `json:"note" validate:"max=500"`
	OccurredAt   *time.Time      `json:"occurred_at,omitempty"`
}

// Validate checks the request shape.
func (r *RecordExpenseRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RecordExpenseRequest) ToUseCaseInput() usecase.RecordExpenseInput {
	input := usecase.RecordExpenseInput{
		PartyID:      r.PartyID,
		FarmID:       r.FarmID,
		Amount:       r.Amount,
		Category:     r.Category,
		Method:       domain.PaymentMethod(r.Method),
		ExchangeRate: r.ExchangeRate,
		Note:         r.Note,
	}
	if r.OccurredAt != nil {
		input.OccurredAt = *r.OccurredAt
	}

	return input
}

// RecordPaymentRequest represents a standalone settlement against a party.
type RecordPaymentRequest struct {
	PartyID      int64           `json:"party_id" validate:"required,gt=0"`
	Kind         string          `json:"kind" validate:"required,oneof=Received Paid"`
	Amount       decimal.Decimal `json:"amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	Note         string          `json:"note" validate:"max=500"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
}

// Validate checks the request shape.
func (r *RecordPaymentRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RecordPaymentRequest) ToUseCaseInput() usecase.RecordPaymentInput {
	input := usecase.RecordPaymentInput{
		PartyID:      r.PartyID,
		Kind:         domain.PaymentKind(r.Kind),
		Amount:       r.Amount,
		ExchangeRate: r.ExchangeRate,
		Note:         r.Note,
	}
	if r.PaidAt != nil {
		input.PaidAt = *r.PaidAt
	}

	return input
}

// ReverseEntryRequest carries the reason for reversing a ledger entry.
type ReverseEntryRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// Validate checks the request shape.
func (r *ReverseEntryRequest) Validate() error {
	return validate.Struct(r)
}

// ProductionComponentRequest is one consumed component of a production run.
type ProductionComponentRequest struct {
	ItemID   int64           `json:"item_id" validate:"required,gt=0"`
	Quantity decimal.Decimal `json:"quantity"`
}

// RecordProductionRequest represents a production or packing run.
type RecordProductionRequest struct {
	OutputItemID   int64                        `json:"output_item_id" validate:"required,gt=0"`
	FarmID         int64                        `json:"farm_id" validate:"gte=0"`
	OutputQuantity decimal.Decimal              `json:"output_quantity"`
	ExtraCost      decimal.Decimal              `json:"extra_cost"`
	Components     []ProductionComponentRequest `json:"components" validate:"required,min=1,dive"`
}

// Validate checks the request shape.
func (r *RecordProductionRequest) Validate() error {
	return validate.Struct(r)
}

// ToUseCaseInput converts to use case input.
func (r *RecordProductionRequest) ToUseCaseInput() usecase.RecordProductionInput {
	components := make([]usecase.ProductionComponent, len(r.Components))
	for i, c := range r.Components {
		components[i] = usecase.ProductionComponent{
			ItemID:   c.ItemID,
			Quantity: c.Quantity,
		}
	}

	return usecase.RecordProductionInput{
		OutputItemID:   r.OutputItemID,
		FarmID:         r.FarmID,
		OutputQuantity: r.OutputQuantity,
		ExtraCost:      r.ExtraCost,
		Components:     components,
	}
}
