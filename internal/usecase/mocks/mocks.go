package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

// MockPartyRepository is a mock implementation of PartyRepository.
type MockPartyRepository struct {
	mu      sync.RWMutex
	parties map[int64]*domain.Party

	GetByIDFunc          func(ctx context.Context, id int64) (*domain.Party, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Party, error)
}

func NewMockPartyRepository() *MockPartyRepository {
	return &MockPartyRepository{
		parties: make(map[int64]*domain.Party),
	}
}

// Add seeds a party for tests using the default in-memory behavior.
func (m *MockPartyRepository) Add(party *domain.Party) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parties[party.ID] = party
}

func (m *MockPartyRepository) GetByID(ctx context.Context, id int64) (*domain.Party, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.parties[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPartyNotFound
}

func (m *MockPartyRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.Party, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

// MockItemRepository is a mock implementation of ItemRepository.
type MockItemRepository struct {
	mu    sync.RWMutex
	items map[int64]*domain.InventoryItem

	GetByIDFunc           func(ctx context.Context, id int64) (*domain.InventoryItem, error)
	GetByIDForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, id int64) (*domain.InventoryItem, error)
	GetByIDsForUpdateFunc func(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.InventoryItem, error)
	UpdateStockFunc       func(ctx context.Context, tx usecase.Transaction, id int64, quantity, avgCost decimal.Decimal, updatedAt time.Time) error
}

func NewMockItemRepository() *MockItemRepository {
	return &MockItemRepository{
		items: make(map[int64]*domain.InventoryItem),
	}
}

// Add seeds an item for tests using the default in-memory behavior.
func (m *MockItemRepository) Add(item *domain.InventoryItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[item.ID] = item
}

func (m *MockItemRepository) GetByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if item, ok := m.items[id]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, domain.ErrItemNotFound
}

func (m *MockItemRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id int64) (*domain.InventoryItem, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockItemRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []int64) ([]*domain.InventoryItem, error) {
	if m.GetByIDsForUpdateFunc != nil {
		return m.GetByIDsForUpdateFunc(ctx, tx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var items []*domain.InventoryItem
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			copied := *item
			items = append(items, &copied)
		}
	}
	return items, nil
}

func (m *MockItemRepository) UpdateStock(ctx context.Context, tx usecase.Transaction, id int64, quantity, avgCost decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateStockFunc != nil {
		return m.UpdateStockFunc(ctx, tx, id, quantity, avgCost, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if item, ok := m.items[id]; ok {
		item.Quantity = quantity
		item.AvgCost = avgCost
		item.UpdatedAt = updatedAt
	}
	return nil
}

// MockEntryRepository is a mock implementation of EntryRepository. The
// default behavior keeps entries in memory, assigns sequence numbers and
// answers balance and range queries the way the SQL implementation does.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries []*domain.LedgerEntry
	nextSeq int64

	CreateFunc                          func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error
	GetByIDFunc                         func(ctx context.Context, id string) (*domain.LedgerEntry, error)
	SumBalanceFunc                      func(ctx context.Context, partyID int64) (decimal.Decimal, error)
	SumBalanceTxFunc                    func(ctx context.Context, tx usecase.Transaction, partyID int64) (decimal.Decimal, error)
	SumBalanceBeforeFunc                func(ctx context.Context, partyID int64, before time.Time) (decimal.Decimal, error)
	ListByPartyRangeFunc                func(ctx context.Context, q usecase.EntryRangeQuery) ([]*domain.LedgerEntry, error)
	ListByReferenceFunc                 func(ctx context.Context, refType domain.ReferenceType, refID string) ([]*domain.LedgerEntry, error)
	CountMalformedFunc                  func(ctx context.Context) (int64, error)
	CountUnbalancedCashTransactionsFunc func(ctx context.Context) (int64, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{}
}

// Entries returns a snapshot of everything created so far.
func (m *MockEntryRepository) Entries() []*domain.LedgerEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LedgerEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSeq++
	entry.Seq = m.nextSeq
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) SumBalance(ctx context.Context, partyID int64) (decimal.Decimal, error) {
	if m.SumBalanceFunc != nil {
		return m.SumBalanceFunc(ctx, partyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.PartyID == partyID {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) SumBalanceTx(ctx context.Context, tx usecase.Transaction, partyID int64) (decimal.Decimal, error) {
	if m.SumBalanceTxFunc != nil {
		return m.SumBalanceTxFunc(ctx, tx, partyID)
	}
	return m.SumBalance(ctx, partyID)
}

func (m *MockEntryRepository) SumBalanceBefore(ctx context.Context, partyID int64, before time.Time) (decimal.Decimal, error) {
	if m.SumBalanceBeforeFunc != nil {
		return m.SumBalanceBeforeFunc(ctx, partyID, before)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	sum := decimal.Zero
	for _, e := range m.entries {
		if e.PartyID == partyID && e.PostedAt.Before(before) {
			sum = sum.Add(e.SignedAmount())
		}
	}
	return sum, nil
}

func (m *MockEntryRepository) ListByPartyRange(ctx context.Context, q usecase.EntryRangeQuery) ([]*domain.LedgerEntry, error) {
	if m.ListByPartyRangeFunc != nil {
		return m.ListByPartyRangeFunc(ctx, q)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.PartyID != q.PartyID {
			continue
		}
		if !q.From.IsZero() && e.PostedAt.Before(q.From) {
			continue
		}
		if e.PostedAt.After(q.To) {
			continue
		}
		afterCursor := e.PostedAt.After(q.AfterTime) ||
			(e.PostedAt.Equal(q.AfterTime) && e.Seq > q.AfterSeq)
		if !afterCursor {
			continue
		}
		matched = append(matched, e)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].PostedAt.Equal(matched[j].PostedAt) {
			return matched[i].Seq < matched[j].Seq
		}
		return matched[i].PostedAt.Before(matched[j].PostedAt)
	})

	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (m *MockEntryRepository) ListByReference(ctx context.Context, refType domain.ReferenceType, refID string) ([]*domain.LedgerEntry, error) {
	if m.ListByReferenceFunc != nil {
		return m.ListByReferenceFunc(ctx, refType, refID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var matched []*domain.LedgerEntry
	for _, e := range m.entries {
		if e.ReferenceType == refType && e.ReferenceID == refID {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (m *MockEntryRepository) CountMalformed(ctx context.Context) (int64, error) {
	if m.CountMalformedFunc != nil {
		return m.CountMalformedFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, e := range m.entries {
		if e.Validate() != nil {
			count++
		}
	}
	return count, nil
}

func (m *MockEntryRepository) CountUnbalancedCashTransactions(ctx context.Context) (int64, error) {
	if m.CountUnbalancedCashTransactionsFunc != nil {
		return m.CountUnbalancedCashTransactionsFunc(ctx)
	}
	return 0, nil
}

// MockTransactionRepository is a mock implementation of TransactionRepository.
type MockTransactionRepository struct {
	mu   sync.RWMutex
	txns map[string]*domain.Transaction

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Transaction, error)
}

func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		txns: make(map[string]*domain.Transaction),
	}
}

func (m *MockTransactionRepository) Create(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, txn)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txns[txn.ID] = txn
	return nil
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if txn, ok := m.txns[id]; ok {
		return txn, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	CreateFunc  func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	GetByIDFunc func(ctx context.Context, id string) (*domain.Payment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.payments[id]; ok {
		return p, nil
	}
	return nil, domain.ErrPaymentNotFound
}

// MockOutboxRepository is a mock implementation of OutboxRepository.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
	GetUnpublishedFunc  func(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublishedFunc   func(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublishedFunc func(ctx context.Context, before time.Time) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

// Events returns a snapshot of everything created so far.
func (m *MockOutboxRepository) Events() []*domain.OutboxEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.OutboxEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	if m.GetUnpublishedFunc != nil {
		return m.GetUnpublishedFunc(ctx, limit)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.MarkPublishedFunc != nil {
		return m.MarkPublishedFunc(ctx, id, publishedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	if m.DeletePublishedFunc != nil {
		return m.DeletePublishedFunc(ctx, before)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var kept []*domain.OutboxEvent
	for _, e := range m.events {
		if e.Published && e.CreatedAt.Before(before) {
			continue
		}
		kept = append(kept, e)
	}
	m.events = kept
	return nil
}

// MockAuditRepository is a mock implementation of AuditRepository.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateFunc func(ctx context.Context, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

// Logs returns a snapshot of everything created so far.
func (m *MockAuditRepository) Logs() []*domain.AuditLog {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.AuditLog, len(m.logs))
	copy(out, m.logs)
	return out
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, log)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return "mock-id-" + string(rune('0'+m.counter))
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
