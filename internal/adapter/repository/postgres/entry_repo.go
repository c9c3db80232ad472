package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/postgres/generated"
	"github.com/agriops/farmledger/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository. Entries are append-only:
// the table has no update path, and balances are aggregates over it.
type EntryRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create appends an entry within the caller's transaction. The database
// assigns the sequence number; it is written back to the entry.
func (r *EntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	seq, err := queries.CreateEntry(ctx, generated.CreateEntryParams{
		ID:              entry.ID,
		PartyID:         entry.PartyID,
		PostedAt:        timeToPgTimestamptz(entry.PostedAt),
		Description:     entry.Description,
		ReferenceType:   string(entry.ReferenceType),
		ReferenceID:     entry.ReferenceID,
		DebitPrimary:    decimalToNumeric(entry.DebitPrimary),
		CreditPrimary:   decimalToNumeric(entry.CreditPrimary),
		DebitSecondary:  decimalToNumeric(entry.DebitSecondary),
		CreditSecondary: decimalToNumeric(entry.CreditSecondary),
		ExchangeRate:    decimalToNumeric(entry.ExchangeRate),
		CreatedAt:       timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		return mapConflict(err)
	}

	entry.Seq = seq

	return nil
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}

		return nil, err
	}

	return rowToEntry(row), nil
}

// SumBalance computes the party's running balance over all its entries.
func (r *EntryRepository) SumBalance(ctx context.Context, partyID int64) (decimal.Decimal, error) {
	balance, err := r.queries.SumEntryBalance(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// SumBalanceTx computes the balance inside the caller's transaction, so
// entries written in it are visible.
func (r *EntryRepository) SumBalanceTx(ctx context.Context, tx usecase.Transaction, partyID int64) (decimal.Decimal, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	balance, err := queries.SumEntryBalance(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// SumBalanceBefore computes the balance over entries strictly before the
// given time. A zero time yields zero: nothing precedes it.
func (r *EntryRepository) SumBalanceBefore(ctx context.Context, partyID int64, before time.Time) (decimal.Decimal, error) {
	balance, err := r.queries.SumEntryBalanceBefore(ctx, generated.SumEntryBalanceBeforeParams{
		PartyID:  partyID,
		PostedAt: timeToPgTimestamptz(before),
	})
	if err != nil {
		return decimal.Zero, err
	}

	return numericToDecimal(balance), nil
}

// ListByPartyRange returns a keyset page of the party's entries in
// (posted_at, seq) order.
func (r *EntryRepository) ListByPartyRange(ctx context.Context, q usecase.EntryRangeQuery) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListEntriesByPartyRange(ctx, generated.ListEntriesByPartyRangeParams{
		PartyID:   q.PartyID,
		FromTime:  timeToPgTimestamptz(q.From),
		ToTime:    timeToPgTimestamptz(q.To),
		AfterTime: timeToPgTimestamptz(q.AfterTime),
		AfterSeq:  q.AfterSeq,
		PageLimit: int32(q.Limit),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// ListByReference returns entries referencing the given record.
func (r *EntryRepository) ListByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListEntriesByReference(ctx, generated.ListEntriesByReferenceParams{
		ReferenceType: string(refType),
		ReferenceID:   refID,
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToEntry(row))
	}

	return entries, nil
}

// CountMalformed counts entries violating the one-sided posting shape.
func (r *EntryRepository) CountMalformed(ctx context.Context) (int64, error) {
	return r.queries.CountMalformedEntries(ctx)
}

// CountUnbalancedCashTransactions counts cash sales and purchases whose
// entries do not net to zero.
func (r *EntryRepository) CountUnbalancedCashTransactions(ctx context.Context) (int64, error) {
	return r.queries.CountUnbalancedCashTransactions(ctx)
}

func rowToEntry(row generated.Entry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:              row.ID,
		Seq:             row.Seq,
		PartyID:         row.PartyID,
		PostedAt:        row.PostedAt.Time,
		Description:     row.Description,
		ReferenceType:   domain.ReferenceType(row.ReferenceType),
		ReferenceID:     row.ReferenceID,
		DebitPrimary:    numericToDecimal(row.DebitPrimary),
		CreditPrimary:   numericToDecimal(row.CreditPrimary),
		DebitSecondary:  numericToDecimal(row.DebitSecondary),
		CreditSecondary: numericToDecimal(row.CreditSecondary),
		ExchangeRate:    numericToDecimal(row.ExchangeRate),
		CreatedAt:       row.CreatedAt.Time,
	}
}
