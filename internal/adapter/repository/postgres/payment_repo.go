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

// PaymentRepository implements usecase.PaymentRepository.
type PaymentRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewPaymentRepository creates a new PaymentRepository.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a payment record within the caller's transaction.
func (r *PaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.CreatePayment(ctx, generated.CreatePaymentParams{
		ID:              payment.ID,
		Kind:            string(payment.Kind),
		Method:          string(payment.Method),
		Note:            payment.Note,
		ReferenceType:   string(payment.ReferenceType),
		ReferenceID:     payment.ReferenceID,
		PartyID:         payment.PartyID,
		AmountPrimary:   decimalToNumeric(payment.AmountPrimary),
		AmountSecondary: decimalToNumeric(payment.AmountSecondary),
		ExchangeRate:    decimalToNumeric(payment.ExchangeRate),
		PaidAt:          timeToPgTimestamptz(payment.PaidAt),
		CreatedAt:       timeToPgTimestamptz(payment.CreatedAt),
	})
	if err != nil {
		return mapConflict(err)
	}

	return nil
}

// GetByID retrieves a payment by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	row, err := r.queries.GetPaymentByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}

		return nil, err
	}

	return rowToPayment(row), nil
}

func rowToPayment(row generated.Payment) *domain.Payment {
	return &domain.Payment{
		ID:              row.ID,
		Kind:            domain.PaymentKind(row.Kind),
		Method:          domain.PaymentMethod(row.Method),
		Note:            row.Note,
		ReferenceType:   domain.ReferenceType(row.ReferenceType),
		ReferenceID:     row.ReferenceID,
		PartyID:         row.PartyID,
		AmountPrimary:   numericToDecimal(row.AmountPrimary),
		AmountSecondary: numericToDecimal(row.AmountSecondary),
		ExchangeRate:    numericToDecimal(row.ExchangeRate),
		PaidAt:          row.PaidAt.Time,
		CreatedAt:       row.CreatedAt.Time,
	}
}
