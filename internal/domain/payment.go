package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKind distinguishes money received from a party from money paid out.
type PaymentKind string

const (
	PaymentReceived PaymentKind = "Received"
	PaymentPaid     PaymentKind = "Paid"
)

// ParsePaymentKind maps raw input onto the closed kind set.
func ParsePaymentKind(s string) (PaymentKind, error) {
	switch PaymentKind(s) {
	case PaymentReceived:
		return PaymentReceived, nil
	case PaymentPaid:
		return PaymentPaid, nil
	default:
		return "", NewValidationError("payment_kind", fmt.Sprintf("unknown payment kind %q", s))
	}
}

// Payment is a settlement event against a party. Cash sales and purchases
// create one automatically to offset the primary entry; standalone payments
// settle outstanding credit balances. Only cash settlements reach the engine.
type Payment struct {
	PaidAt          time.Time
	CreatedAt       time.Time
	ID              string
	Kind            PaymentKind
	Method          PaymentMethod
	Note            string
	ReferenceType   ReferenceType
	ReferenceID     string
	PartyID         int64
	AmountPrimary   decimal.Decimal
	AmountSecondary decimal.Decimal
	ExchangeRate    decimal.Decimal
}

// EntrySide returns the side of the party balance this payment moves: money
// received credits the party (reduces what they owe), money paid debits it.
func (k PaymentKind) EntrySide() (EntrySide, error) {
	switch k {
	case PaymentReceived:
		return SideCredit, nil
	case PaymentPaid:
		return SideDebit, nil
	default:
		return "", NewValidationError("payment_kind", fmt.Sprintf("unknown payment kind %q", k))
	}
}
