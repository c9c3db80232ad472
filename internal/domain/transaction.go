package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind identifies the business event a transaction records.
type TransactionKind string

const (
	KindSale     TransactionKind = "Sale"
	KindPurchase TransactionKind = "Purchase"
	KindExpense  TransactionKind = "Expense"
)

// PaymentMethod is the closed settlement tag. Coordinators switch on it
// exhaustively; values outside the set never make it past parsing.
type PaymentMethod string

const (
	MethodCash   PaymentMethod = "Cash"
	MethodCredit PaymentMethod = "Credit"
)

// ParsePaymentMethod maps raw input onto the closed method set.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCash:
		return MethodCash, nil
	case MethodCredit:
		return MethodCredit, nil
	default:
		return "", NewValidationError("payment_method", fmt.Sprintf("unknown payment method %q", s))
	}
}

// ParseTransactionKind maps raw input onto the closed kind set.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch TransactionKind(s) {
	case KindSale:
		return KindSale, nil
	case KindPurchase:
		return KindPurchase, nil
	case KindExpense:
		return KindExpense, nil
	default:
		return "", NewValidationError("kind", fmt.Sprintf("unknown transaction kind %q", s))
	}
}

// Transaction is the durable record of a Sale, Purchase or Expense. Amounts
// are snapshots: totals in both currencies and the exchange rate used are
// fixed at posting time. CostBasis holds the total cost of goods consumed by
// a Sale, valued at the weighted average current when the sale posted.
type Transaction struct {
	OccurredAt     time.Time
	CreatedAt      time.Time
	ID             string
	Kind           TransactionKind
	Method         PaymentMethod
	Note           string
	Category       string
	PartyID        int64
	FarmID         int64
	ItemID         int64
	Quantity       decimal.Decimal
	UnitRate       decimal.Decimal
	TotalPrimary   decimal.Decimal
	TotalSecondary decimal.Decimal
	ExchangeRate   decimal.Decimal
	CostBasis      decimal.Decimal
}

// EntrySide returns the side of the party balance the primary ledger entry
// takes for this kind: a sale is owed to the operator, a purchase or
// party-linked expense is owed to the party.
func (k TransactionKind) EntrySide() (EntrySide, error) {
	switch k {
	case KindSale:
		return SideDebit, nil
	case KindPurchase, KindExpense:
		return SideCredit, nil
	default:
		return "", NewValidationError("kind", fmt.Sprintf("unknown transaction kind %q", k))
	}
}

// ReferenceType returns the entry reference tag for this kind.
func (k TransactionKind) ReferenceType() (ReferenceType, error) {
	switch k {
	case KindSale:
		return ReferenceSale, nil
	case KindPurchase:
		return ReferencePurchase, nil
	case KindExpense:
		return ReferenceExpense, nil
	default:
		return "", NewValidationError("kind", fmt.Sprintf("unknown transaction kind %q", k))
	}
}

// SettlementKind returns the payment kind that settles a Cash transaction of
// this kind: a cash sale is money received, a cash purchase is money paid.
func (k TransactionKind) SettlementKind() (PaymentKind, error) {
	switch k {
	case KindSale:
		return PaymentReceived, nil
	case KindPurchase:
		return PaymentPaid, nil
	default:
		return "", NewValidationError("kind", fmt.Sprintf("kind %q has no settlement", k))
	}
}
