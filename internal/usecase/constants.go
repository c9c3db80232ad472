package usecase

import (
	"fmt"
	"time"
)

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// DefaultBalanceCacheTTL bounds staleness of cached balances when the
	// invalidation path is unavailable
	DefaultBalanceCacheTTL = 5 * time.Minute

	// DefaultStatementPageSize is the keyset page size used by statements
	DefaultStatementPageSize = 100

	// MaxStatementPageSize caps caller-provided statement page sizes
	MaxStatementPageSize = 500
)

// BalanceCacheKey is the cache key for a party's running balance.
func BalanceCacheKey(partyID int64) string {
	return fmt.Sprintf("balance:party:%d", partyID)
}

// ItemCacheKey is the cache key for an item's stock snapshot.
func ItemCacheKey(itemID int64) string {
	return fmt.Sprintf("stock:item:%d", itemID)
}

// DashboardCacheKey is the cache key for a farm's dashboard aggregates.
func DashboardCacheKey(farmID int64) string {
	return fmt.Sprintf("dashboard:farm:%d", farmID)
}
