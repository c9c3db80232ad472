package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/metrics"
)

// InventoryUseCase maintains item quantities and weighted-average costs.
// Inbound and outbound movements run inside a caller-supplied unit of work so
// the coordinator can commit them atomically with the ledger; production runs
// open their own.
type InventoryUseCase struct {
	txManager  TransactionManager
	itemRepo   ItemRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	cache      Cache
	metrics    *metrics.Metrics
}

// NewInventoryUseCase creates a new InventoryUseCase.
func NewInventoryUseCase(
	txManager TransactionManager,
	itemRepo ItemRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
) *InventoryUseCase {
	return &InventoryUseCase{
		txManager:  txManager,
		itemRepo:   itemRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		cache:      cache,
		metrics:    m,
	}
}

// GetItem returns the item's current quantity and average cost.
func (uc *InventoryUseCase) GetItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error) {
	if itemID <= 0 {
		return nil, domain.NewValidationError("item_id", "item id must be positive")
	}

	return uc.itemRepo.GetByID(ctx, itemID)
}

// CheckAvailability locks the item row and verifies qty could be consumed,
// without mutating anything. Callers run it ahead of writes so an
// insufficient-stock rejection leaves the store untouched; the lock it takes
// keeps the answer valid for the rest of the unit of work.
func (uc *InventoryUseCase) CheckAvailability(ctx context.Context, tx Transaction, itemID int64, qty decimal.Decimal) error {
	item, err := uc.itemRepo.GetByIDForUpdate(ctx, tx, itemID)
	if err != nil {
		return err
	}

	if err := domain.CheckStock(item.Quantity, qty); err != nil {
		if uc.metrics != nil {
			uc.metrics.StockRejections.Inc()
		}
		return err
	}

	return nil
}

// RecordInbound adds stock at unitCost inside the caller's unit of work,
// recomputing the weighted average, and returns the updated item.
func (uc *InventoryUseCase) RecordInbound(ctx context.Context, tx Transaction, itemID int64, qty, unitCost decimal.Decimal) (*domain.InventoryItem, error) {
	item, err := uc.itemRepo.GetByIDForUpdate(ctx, tx, itemID)
	if err != nil {
		return nil, err
	}

	if _, err := item.ApplyInbound(qty, unitCost); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := uc.itemRepo.UpdateStock(ctx, tx, item.ID, item.Quantity, item.AvgCost, now); err != nil {
		return nil, err
	}
	item.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.InboundMovements.Inc()
	}

	return item, nil
}

// RecordOutbound consumes stock inside the caller's unit of work and returns
// the updated item and the unit cost basis for the movement. The stock check
// runs before any write; the average cost is never changed.
func (uc *InventoryUseCase) RecordOutbound(ctx context.Context, tx Transaction, itemID int64, qty decimal.Decimal) (*domain.InventoryItem, decimal.Decimal, error) {
	item, err := uc.itemRepo.GetByIDForUpdate(ctx, tx, itemID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	basis, err := item.ApplyOutbound(qty)
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.StockRejections.Inc()
		}
		return nil, decimal.Zero, err
	}

	now := time.Now().UTC()
	if err := uc.itemRepo.UpdateStock(ctx, tx, item.ID, item.Quantity, item.AvgCost, now); err != nil {
		return nil, decimal.Zero, err
	}
	item.UpdatedAt = now

	if uc.metrics != nil {
		uc.metrics.OutboundMovements.Inc()
	}

	return item, basis, nil
}

// ProductionComponent is one input consumed by a production run.
type ProductionComponent struct {
	ItemID   int64
	Quantity decimal.Decimal
}

// RecordProductionInput describes a production or packing run: components
// (raw material, packaging) are consumed once, and the output item is
// received at the cost derived from them. Selling the packaged good later
// must not touch the component items again.
type RecordProductionInput struct {
	OutputItemID   int64
	FarmID         int64
	OutputQuantity decimal.Decimal
	ExtraCost      decimal.Decimal
	Components     []ProductionComponent
}

// ProductionResult reports the outcome of a production run.
type ProductionResult struct {
	Output    *domain.InventoryItem
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
}

// RecordProduction consumes the component items and receives the output item
// at the derived unit cost, all in one unit of work.
func (uc *InventoryUseCase) RecordProduction(ctx context.Context, input RecordProductionInput) (*ProductionResult, error) {
	if err := validateProductionInput(input); err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock every touched item in id order to avoid lock-order deadlocks
	// between concurrent runs.
	ids := make([]int64, 0, len(input.Components)+1)
	ids = append(ids, input.OutputItemID)
	for _, c := range input.Components {
		ids = append(ids, c.ItemID)
	}
	sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })

	items, err := uc.itemRepo.GetByIDsForUpdate(txCtx, tx, ids)
	if err != nil {
		return nil, err
	}

	if len(items) != len(ids) {
		return nil, domain.ErrItemNotFound
	}

	itemMap := make(map[int64]*domain.InventoryItem, len(items))
	for _, it := range items {
		itemMap[it.ID] = it
	}

	// Consume components at their current averages.
	totalCost := input.ExtraCost
	for _, c := range input.Components {
		component := itemMap[c.ItemID]

		basis, err := component.ApplyOutbound(c.Quantity)
		if err != nil {
			if uc.metrics != nil {
				uc.metrics.StockRejections.Inc()
			}
			return nil, err
		}

		totalCost = totalCost.Add(basis.Mul(c.Quantity))
	}

	unitCost := totalCost.DivRound(input.OutputQuantity, domain.CostScale)

	output := itemMap[input.OutputItemID]
	if _, err := output.ApplyInbound(input.OutputQuantity, unitCost); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, id := range ids {
		it := itemMap[id]
		if err := uc.itemRepo.UpdateStock(txCtx, tx, it.ID, it.Quantity, it.AvgCost, now); err != nil {
			return nil, err
		}
		it.UpdatedAt = now
	}

	if uc.outboxRepo != nil {
		keys := make([]string, 0, len(ids))
		for _, id := range ids {
			keys = append(keys, ItemCacheKey(id))
		}

		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   fmt.Sprintf("%d", input.OutputItemID),
			AggregateType: domain.AggregateTypeItem,
			EventType:     domain.EventTypeStockChanged,
			Payload: map[string]any{
				"item_id":    input.OutputItemID,
				"reference":  "production",
				"cache_keys": keys,
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.cache != nil {
		keys := make([]string, 0, len(ids))
		for _, id := range ids {
			keys = append(keys, ItemCacheKey(id))
		}
		_ = uc.cache.Delete(ctx, keys...)
	}

	if uc.metrics != nil {
		uc.metrics.ProductionRuns.Inc()
	}

	return &ProductionResult{
		Output:    output,
		UnitCost:  unitCost,
		TotalCost: totalCost,
	}, nil
}

func validateProductionInput(input RecordProductionInput) error {
	if input.OutputItemID <= 0 {
		return domain.NewValidationError("output_item_id", "output item id must be positive")
	}

	if err := domain.ValidateQuantity(input.OutputQuantity); err != nil {
		return err
	}

	if input.ExtraCost.IsNegative() {
		return domain.NewValidationError("extra_cost", "extra cost cannot be negative")
	}

	if len(input.Components) == 0 {
		return domain.NewValidationError("components", "at least one component is required")
	}

	seen := make(map[int64]bool, len(input.Components))
	for _, c := range input.Components {
		if c.ItemID <= 0 {
			return domain.NewValidationError("components", "component item id must be positive")
		}

		if c.ItemID == input.OutputItemID {
			return domain.NewValidationError("components", "output item cannot be its own component")
		}

		if seen[c.ItemID] {
			return domain.NewValidationError("components", fmt.Sprintf("duplicate component item %d", c.ItemID))
		}
		seen[c.ItemID] = true

		if err := domain.ValidateQuantity(c.Quantity); err != nil {
			return err
		}
	}

	return nil
}
