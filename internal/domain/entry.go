package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntrySide selects which side of a party's balance an entry moves.
type EntrySide string

const (
	SideDebit  EntrySide = "DEBIT"
	SideCredit EntrySide = "CREDIT"
)

// ReferenceType links a ledger entry back to its originating record.
type ReferenceType string

const (
	ReferenceSale     ReferenceType = "Sale"
	ReferencePurchase ReferenceType = "Purchase"
	ReferenceExpense  ReferenceType = "Expense"
	ReferencePayment  ReferenceType = "Payment"
	ReferenceReversal ReferenceType = "Reversal"
)

// LedgerEntry is an immutable, append-only record of a debit or credit
// against a party, recorded in both currencies with the exchange rate used.
// Seq is assigned by the store and breaks ties between entries sharing a
// timestamp. Corrections are new compensating entries, never edits.
type LedgerEntry struct {
	PostedAt        time.Time
	CreatedAt       time.Time
	ID              string
	Description     string
	ReferenceType   ReferenceType
	ReferenceID     string
	PartyID         int64
	Seq             int64
	DebitPrimary    decimal.Decimal
	CreditPrimary   decimal.Decimal
	DebitSecondary  decimal.Decimal
	CreditSecondary decimal.Decimal
	ExchangeRate    decimal.Decimal
}

// NewLedgerEntry builds an entry moving amountPrimary on the given side, with
// the secondary legs derived from the exchange rate. The store assigns ID and
// Seq at append time.
func NewLedgerEntry(partyID int64, postedAt time.Time, description string, side EntrySide, amountPrimary, rate decimal.Decimal, refType ReferenceType, refID string) (*LedgerEntry, error) {
	if partyID <= 0 {
		return nil, NewValidationError("party_id", "party id must be positive")
	}

	if amountPrimary.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	if len(description) > MaxDescriptionLength {
		return nil, NewValidationError("description", "description too long")
	}

	secondary, err := ConvertToSecondary(amountPrimary, rate)
	if err != nil {
		return nil, err
	}

	e := &LedgerEntry{
		PostedAt:      postedAt,
		Description:   description,
		ReferenceType: refType,
		ReferenceID:   refID,
		PartyID:       partyID,
		ExchangeRate:  rate,
	}

	switch side {
	case SideDebit:
		e.DebitPrimary = amountPrimary
		e.DebitSecondary = secondary
	case SideCredit:
		e.CreditPrimary = amountPrimary
		e.CreditSecondary = secondary
	default:
		return nil, NewValidationError("side", "entry side must be debit or credit")
	}

	return e, nil
}

// Side reports which side of the balance the entry moves.
func (e *LedgerEntry) Side() EntrySide {
	if !e.DebitPrimary.IsZero() {
		return SideDebit
	}
	return SideCredit
}

// SignedAmount is the entry's contribution to the party balance in the
// primary currency: debit minus credit.
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	return e.DebitPrimary.Sub(e.CreditPrimary)
}

// Validate checks the one-side shape of a stored entry: exactly one of
// debit/credit is non-zero in the primary currency, no leg is negative, and
// the secondary legs sit on the same side.
func (e *LedgerEntry) Validate() error {
	if e.DebitPrimary.IsNegative() || e.CreditPrimary.IsNegative() ||
		e.DebitSecondary.IsNegative() || e.CreditSecondary.IsNegative() {
		return ErrEntryUnbalanced
	}

	debit := !e.DebitPrimary.IsZero()
	credit := !e.CreditPrimary.IsZero()

	if debit == credit {
		return ErrEntryUnbalanced
	}

	if debit && !e.CreditSecondary.IsZero() {
		return ErrEntryUnbalanced
	}

	if credit && !e.DebitSecondary.IsZero() {
		return ErrEntryUnbalanced
	}

	return nil
}

// Reversal builds the compensating entry for e. The legs are swapped, the
// exchange-rate snapshot is preserved, and the reversal references the
// original entry by id. Reversing a reversal is rejected.
func (e *LedgerEntry) Reversal(postedAt time.Time, description string) (*LedgerEntry, error) {
	if e.ReferenceType == ReferenceReversal {
		return nil, ErrReversalOfReversal
	}

	return &LedgerEntry{
		PostedAt:        postedAt,
		Description:     description,
		ReferenceType:   ReferenceReversal,
		ReferenceID:     e.ID,
		PartyID:         e.PartyID,
		DebitPrimary:    e.CreditPrimary,
		CreditPrimary:   e.DebitPrimary,
		DebitSecondary:  e.CreditSecondary,
		CreditSecondary: e.DebitSecondary,
		ExchangeRate:    e.ExchangeRate,
	}, nil
}
