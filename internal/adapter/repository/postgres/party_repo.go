package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/postgres/generated"
	"github.com/agriops/farmledger/internal/usecase"
)

// PartyRepository implements usecase.PartyRepository. Party rows are owned by
// the farm catalog; the engine only reads and locks them.
type PartyRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewPartyRepository creates a new PartyRepository.
func NewPartyRepository(pool *pgxpool.Pool) *PartyRepository {
	return &PartyRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// GetByID retrieves a party by ID.
func (r *PartyRepository) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	row, err := r.queries.GetPartyByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, err
	}

	return rowToParty(row), nil
}

// GetByIDForUpdate retrieves a party by ID with a FOR UPDATE lock. The lock
// serializes postings against the same party for the rest of the transaction.
func (r *PartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Party, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetPartyByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPartyNotFound
		}

		return nil, mapConflict(err)
	}

	return rowToParty(row), nil
}

func rowToParty(row generated.Party) *domain.Party {
	return &domain.Party{
		ID:        row.ID,
		Name:      row.Name,
		Phone:     row.Phone,
		Address:   row.Address,
		CreatedAt: row.CreatedAt.Time,
	}
}

// Type conversion helpers.
func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric

	_ = n.Scan(d.String())

	return n
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}

	d, _ := decimal.NewFromString(n.Int.String())
	if n.Exp != 0 {
		d = d.Shift(n.Exp)
	}

	return d
}

func timeToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}
