package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/postgres/generated"
	"github.com/agriops/farmledger/internal/usecase"
)

// TransactionRepository implements usecase.TransactionRepository.
type TransactionRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a transaction record within the caller's transaction.
func (r *TransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:             txn.ID,
		Kind:           string(txn.Kind),
		Method:         string(txn.Method),
		Category:       txn.Category,
		Note:           txn.Note,
		PartyID:        txn.PartyID,
		FarmID:         txn.FarmID,
		ItemID:         txn.ItemID,
		Quantity:       decimalToNumeric(txn.Quantity),
		UnitRate:       decimalToNumeric(txn.UnitRate),
		TotalPrimary:   decimalToNumeric(txn.TotalPrimary),
		TotalSecondary: decimalToNumeric(txn.TotalSecondary),
		ExchangeRate:   decimalToNumeric(txn.ExchangeRate),
		CostBasis:      decimalToNumeric(txn.CostBasis),
		OccurredAt:     timeToPgTimestamptz(txn.OccurredAt),
		CreatedAt:      timeToPgTimestamptz(txn.CreatedAt),
	})
	if err != nil {
		return mapConflict(err)
	}

	return nil
}

// GetByID retrieves a transaction by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}

		return nil, err
	}

	return rowToTransaction(row), nil
}

func rowToTransaction(row generated.Transaction) *domain.Transaction {
	return &domain.Transaction{
		ID:             row.ID,
		Kind:           domain.TransactionKind(row.Kind),
		Method:         domain.PaymentMethod(row.Method),
		Category:       row.Category,
		Note:           row.Note,
		PartyID:        row.PartyID,
		FarmID:         row.FarmID,
		ItemID:         row.ItemID,
		Quantity:       numericToDecimal(row.Quantity),
		UnitRate:       numericToDecimal(row.UnitRate),
		TotalPrimary:   numericToDecimal(row.TotalPrimary),
		TotalSecondary: numericToDecimal(row.TotalSecondary),
		ExchangeRate:   numericToDecimal(row.ExchangeRate),
		CostBasis:      numericToDecimal(row.CostBasis),
		OccurredAt:     row.OccurredAt.Time,
		CreatedAt:      row.CreatedAt.Time,
	}
}
