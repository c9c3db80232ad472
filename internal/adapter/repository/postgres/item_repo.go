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

// ItemRepository implements usecase.ItemRepository.
type ItemRepository struct {
	pool    *pgxpool.Pool
	queries *generated.Queries
}

// NewItemRepository creates a new ItemRepository.
func NewItemRepository(pool *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// GetByID retrieves an item by ID.
func (r *ItemRepository) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	row, err := r.queries.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}

		return nil, err
	}

	return rowToItem(row), nil
}

// GetByIDForUpdate retrieves an item by ID with a FOR UPDATE lock.
func (r *ItemRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.InventoryItem, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	row, err := queries.GetItemByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrItemNotFound
		}

		return nil, mapConflict(err)
	}

	return rowToItem(row), nil
}

// GetByIDsForUpdate retrieves multiple items with FOR UPDATE locks, in id
// order so concurrent production runs lock in the same sequence.
func (r *ItemRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.InventoryItem, error) {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	rows, err := queries.GetItemsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, mapConflict(err)
	}

	items := make([]*domain.InventoryItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, rowToItem(row))
	}

	return items, nil
}

// UpdateStock updates the quantity and weighted-average cost of an item.
func (r *ItemRepository) UpdateStock(ctx context.Context, tx usecase.Transaction, id int64, quantity, avgCost decimal.Decimal, updatedAt time.Time) error {
	pgxTx := tx.(*Tx).PgxTx()
	queries := generated.New(pgxTx)

	err := queries.UpdateItemStock(ctx, generated.UpdateItemStockParams{
		ID:        id,
		Quantity:  decimalToNumeric(quantity),
		AvgCost:   decimalToNumeric(avgCost),
		UpdatedAt: timeToPgTimestamptz(updatedAt),
	})

	return mapConflict(err)
}

func rowToItem(row generated.Item) *domain.InventoryItem {
	return &domain.InventoryItem{
		ID:        row.ID,
		FarmID:    row.FarmID,
		Name:      row.Name,
		Kind:      domain.ItemKind(row.Kind),
		Quantity:  numericToDecimal(row.Quantity),
		AvgCost:   numericToDecimal(row.AvgCost),
		CreatedAt: row.CreatedAt.Time,
		UpdatedAt: row.UpdatedAt.Time,
	}
}
