package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Method         string          `json:"method"`
	PartyID        int64           `json:"party_id,omitempty"`
	FarmID         int64           `json:"farm_id,omitempty"`
	ItemID         int64           `json:"item_id,omitempty"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitRate       decimal.Decimal `json:"unit_rate"`
	TotalPrimary   decimal.Decimal `json:"total_primary"`
	TotalSecondary decimal.Decimal `json:"total_secondary"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	CostBasis      decimal.Decimal `json:"cost_basis"`
	Category       string          `json:"category,omitempty"`
	Note           string          `json:"note,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
	CreatedAt      time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             t.ID,
		Kind:           string(t.Kind),
		Method:         string(t.Method),
		PartyID:        t.PartyID,
		FarmID:         t.FarmID,
		ItemID:         t.ItemID,
		Quantity:       t.Quantity,
		UnitRate:       t.UnitRate,
		TotalPrimary:   t.TotalPrimary,
		TotalSecondary: t.TotalSecondary,
		ExchangeRate:   t.ExchangeRate,
		CostBasis:      t.CostBasis,
		Category:       t.Category,
		Note:           t.Note,
		OccurredAt:     t.OccurredAt,
		CreatedAt:      t.CreatedAt,
	}
}

// PaymentResponse represents a payment in API responses.
type PaymentResponse struct {
	ID              string          `json:"id"`
	Kind            string          `json:"kind"`
	Method          string          `json:"method"`
	PartyID         int64           `json:"party_id"`
	AmountPrimary   decimal.Decimal `json:"amount_primary"`
	AmountSecondary decimal.Decimal `json:"amount_secondary"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	Note            string          `json:"note,omitempty"`
	PaidAt          time.Time       `json:"paid_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PaymentFromDomain converts a domain payment to a response.
func PaymentFromDomain(p *domain.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:              p.ID,
		Kind:            string(p.Kind),
		Method:          string(p.Method),
		PartyID:         p.PartyID,
		AmountPrimary:   p.AmountPrimary,
		AmountSecondary: p.AmountSecondary,
		ExchangeRate:    p.ExchangeRate,
		ReferenceType:   string(p.ReferenceType),
		ReferenceID:     p.ReferenceID,
		Note:            p.Note,
		PaidAt:          p.PaidAt,
		CreatedAt:       p.CreatedAt,
	}
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID              string          `json:"id"`
	PartyID         int64           `json:"party_id"`
	Seq             int64           `json:"seq"`
	DebitPrimary    decimal.Decimal `json:"debit_primary"`
	CreditPrimary   decimal.Decimal `json:"credit_primary"`
	DebitSecondary  decimal.Decimal `json:"debit_secondary"`
	CreditSecondary decimal.Decimal `json:"credit_secondary"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
	ReferenceType   string          `json:"reference_type"`
	ReferenceID     string          `json:"reference_id"`
	Description     string          `json:"description,omitempty"`
	PostedAt        time.Time       `json:"posted_at"`
	CreatedAt       time.Time       `json:"created_at"`
}

// EntryFromDomain converts a domain ledger entry to a response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:              e.ID,
		PartyID:         e.PartyID,
		Seq:             e.Seq,
		DebitPrimary:    e.DebitPrimary,
		CreditPrimary:   e.CreditPrimary,
		DebitSecondary:  e.DebitSecondary,
		CreditSecondary: e.CreditSecondary,
		ExchangeRate:    e.ExchangeRate,
		ReferenceType:   string(e.ReferenceType),
		ReferenceID:     e.ReferenceID,
		Description:     e.Description,
		PostedAt:        e.PostedAt,
		CreatedAt:       e.CreatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// PostingResponse represents a committed posting: the transaction, the
// settlement payment when one was created, the entries written, and the
// party balance after the last one.
type PostingResponse struct {
	Transaction *TransactionResponse `json:"transaction"`
	Payment     *PaymentResponse     `json:"payment,omitempty"`
	Entries     []*EntryResponse     `json:"entries"`
	Balance     decimal.Decimal      `json:"balance"`
}

// PostingFromResult converts a posting result to a response.
func PostingFromResult(r *usecase.PostingResult) *PostingResponse {
	resp := &PostingResponse{
		Transaction: TransactionFromDomain(r.Transaction),
		Entries:     EntriesFromDomain(r.Entries),
		Balance:     r.Balance,
	}
	if r.Payment != nil {
		resp.Payment = PaymentFromDomain(r.Payment)
	}
	return resp
}

// PaymentResultResponse represents a committed standalone payment.
type PaymentResultResponse struct {
	Payment *PaymentResponse `json:"payment"`
	Entry   *EntryResponse   `json:"entry"`
	Balance decimal.Decimal  `json:"balance"`
}

// PaymentFromResult converts a payment result to a response.
func PaymentFromResult(r *usecase.PaymentResult) *PaymentResultResponse {
	return &PaymentResultResponse{
		Payment: PaymentFromDomain(r.Payment),
		Entry:   EntryFromDomain(r.Entry),
		Balance: r.Balance,
	}
}

// BalanceResponse represents a party's derived balance.
type BalanceResponse struct {
	PartyID int64           `json:"party_id"`
	Balance decimal.Decimal `json:"balance"`
}

// StatementLineResponse pairs an entry with the running balance after it.
type StatementLineResponse struct {
	Entry          *EntryResponse  `json:"entry"`
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// StatementResponse represents a party statement over a date range.
type StatementResponse struct {
	PartyID        int64                   `json:"party_id"`
	From           time.Time               `json:"from"`
	To             time.Time               `json:"to"`
	OpeningBalance decimal.Decimal         `json:"opening_balance"`
	Lines          []StatementLineResponse `json:"lines"`
	ClosingBalance decimal.Decimal         `json:"closing_balance"`
}

// StatementFromLines builds a statement response from collected lines.
func StatementFromLines(partyID int64, from, to time.Time, opening, closing decimal.Decimal, lines []usecase.StatementLine) *StatementResponse {
	resp := &StatementResponse{
		PartyID:        partyID,
		From:           from,
		To:             to,
		OpeningBalance: opening,
		Lines:          make([]StatementLineResponse, len(lines)),
		ClosingBalance: closing,
	}
	for i, line := range lines {
		resp.Lines[i] = StatementLineResponse{
			Entry:          EntryFromDomain(line.Entry),
			RunningBalance: line.RunningBalance,
		}
	}
	return resp
}

// ItemResponse represents an inventory item in API responses.
type ItemResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Kind      string          `json:"kind"`
	FarmID    int64           `json:"farm_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	AvgCost   decimal.Decimal `json:"avg_cost"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemFromDomain converts a domain inventory item to a response.
func ItemFromDomain(i *domain.InventoryItem) *ItemResponse {
	return &ItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Kind:      string(i.Kind),
		FarmID:    i.FarmID,
		Quantity:  i.Quantity,
		AvgCost:   i.AvgCost,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}

// ProductionResponse represents a committed production run.
type ProductionResponse struct {
	Output    *ItemResponse   `json:"output"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// ProductionFromResult converts a production result to a response.
func ProductionFromResult(r *usecase.ProductionResult) *ProductionResponse {
	return &ProductionResponse{
		Output:    ItemFromDomain(r.Output),
		UnitCost:  r.UnitCost,
		TotalCost: r.TotalCost,
	}
}

// ConsistencyResponse reports ledger-wide invariant checks.
type ConsistencyResponse struct {
	Consistent                 bool  `json:"consistent"`
	MalformedEntries           int64 `json:"malformed_entries"`
	UnbalancedCashTransactions int64 `json:"unbalanced_cash_transactions"`
}

// ConsistencyFromReport converts a consistency report to a response.
func ConsistencyFromReport(r *usecase.ConsistencyReport) *ConsistencyResponse {
	return &ConsistencyResponse{
		Consistent:                 r.Consistent(),
		MalformedEntries:           r.MalformedEntries,
		UnbalancedCashTransactions: r.UnbalancedCashTransactions,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
