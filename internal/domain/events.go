package domain

import "time"

// Event types
const (
	EventTypeBalanceChanged   = "balance.changed"
	EventTypeStockChanged     = "stock.changed"
	EventTypeDashboardChanged = "dashboard.changed"
)

// Aggregate types
const (
	AggregateTypeParty = "party"
	AggregateTypeItem  = "item"
	AggregateTypeFarm  = "farm"
)

// OutboxEvent is a cache-invalidation signal written in the same unit of work
// as the mutation it describes and drained by the publisher after commit.
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// BalanceChangedEvent payload
type BalanceChangedEvent struct {
	PartyID   int64    `json:"party_id"`
	Reference string   `json:"reference"`
	CacheKeys []string `json:"cache_keys"`
}

// StockChangedEvent payload
type StockChangedEvent struct {
	ItemID    int64    `json:"item_id"`
	Reference string   `json:"reference"`
	CacheKeys []string `json:"cache_keys"`
}

// DashboardChangedEvent payload
type DashboardChangedEvent struct {
	FarmID    int64    `json:"farm_id"`
	Reference string   `json:"reference"`
	CacheKeys []string `json:"cache_keys"`
}
