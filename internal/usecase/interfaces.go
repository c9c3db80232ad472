package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
)

// PartyRepository defines read access to parties. Rows are owned by the
// catalog; the engine looks them up and locks them to serialize postings.
type PartyRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Party, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.Party, error)
}

// ItemRepository defines data access for inventory items.
type ItemRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id int64) (*domain.InventoryItem, error)
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []int64) ([]*domain.InventoryItem, error)
	UpdateStock(ctx context.Context, tx Transaction, id int64, quantity, avgCost decimal.Decimal, updatedAt time.Time) error
}

// EntryRangeQuery selects a keyset page of a party's entries ordered by
// (posted_at, seq). AfterTime/AfterSeq are the cursor; zero values start from
// the beginning of the range.
type EntryRangeQuery struct {
	From      time.Time
	To        time.Time
	AfterTime time.Time
	PartyID   int64
	AfterSeq  int64
	Limit     int
}

// EntryRepository defines data access for ledger entries. Entries are
// append-only; there is no update or delete.
type EntryRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	SumBalance(ctx context.Context, partyID int64) (decimal.Decimal, error)
	SumBalanceTx(ctx context.Context, tx Transaction, partyID int64) (decimal.Decimal, error)
	SumBalanceBefore(ctx context.Context, partyID int64, before time.Time) (decimal.Decimal, error)
	ListByPartyRange(ctx context.Context, q EntryRangeQuery) ([]*domain.LedgerEntry, error)
	ListByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]*domain.LedgerEntry, error)
	CountMalformed(ctx context.Context) (int64, error)
	CountUnbalancedCashTransactions(ctx context.Context) (int64, error)
}

// TransactionRepository defines data access for transaction records.
type TransactionRepository interface {
	Create(ctx context.Context, tx Transaction, txn *domain.Transaction) error
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)
}

// PaymentRepository defines data access for payments.
type PaymentRepository interface {
	Create(ctx context.Context, tx Transaction, payment *domain.Payment) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for the audit trail.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle. Each coordinator
// invocation begins exactly one transaction and closes it before returning.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Retrier replays an operation on lock conflicts. The engine itself never
// retries; retry policy belongs to the caller.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
