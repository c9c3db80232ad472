package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/agriops/farmledger/internal/adapter/http"
	"github.com/agriops/farmledger/internal/adapter/http/handler"
	"github.com/agriops/farmledger/internal/adapter/repository/postgres"
	"github.com/agriops/farmledger/internal/usecase"
	"github.com/agriops/farmledger/tests/testutil"
)

// engine wires the posting stack over a real database the way cmd/server
// does, with the repositories exposed so tests can verify through them.
type engine struct {
	db          *testutil.TestDB
	router      http.Handler
	partyRepo   *postgres.PartyRepository
	itemRepo    *postgres.ItemRepository
	entryRepo   *postgres.EntryRepository
	txnRepo     *postgres.TransactionRepository
	paymentRepo *postgres.PaymentRepository
	auditRepo   *postgres.AuditRepository
	outboxRepo  usecase.OutboxRepository
	ledgerUC    *usecase.LedgerUseCase
	inventoryUC *usecase.InventoryUseCase
	postingUC   *usecase.PostingUseCase
}

type engineOptions struct {
	cache            usecase.Cache
	idempotencyStore usecase.IdempotencyStore
	// realOutbox queues events in the outbox table instead of discarding
	// them. Only the publisher tests need this.
	realOutbox bool
}

// Metrics are nil throughout: promauto registers on the default registry,
// so a second metrics.New in the same binary would panic.
func newEngine(t *testing.T, opts engineOptions) *engine {
	t.Helper()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	txManager := postgres.NewTxManager(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	itemRepo := postgres.NewItemRepository(pool)
	entryRepo := postgres.NewEntryRepository(pool)
	txnRepo := postgres.NewTransactionRepository(pool)
	paymentRepo := postgres.NewPaymentRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	idGen := postgres.NewULIDGenerator()

	var outboxRepo usecase.OutboxRepository = postgres.NewNullOutboxRepository()
	if opts.realOutbox {
		outboxRepo = postgres.NewOutboxRepository(pool)
	}

	ledgerUC := usecase.NewLedgerUseCase(txManager, partyRepo, entryRepo, outboxRepo, idGen, opts.cache, nil, 0)
	inventoryUC := usecase.NewInventoryUseCase(txManager, itemRepo, outboxRepo, idGen, opts.cache, nil)
	postingUC := usecase.NewPostingUseCase(
		txManager, partyRepo, txnRepo, paymentRepo, outboxRepo, auditRepo,
		idGen, opts.cache, nil, ledgerUC, inventoryUC,
		decimal.RequireFromString("278.50"), decimal.RequireFromString("1000"),
	)

	retrier := postgres.NewRetrier()

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		PostingHandler:   handler.NewPostingHandler(postingUC, retrier),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		InventoryHandler: handler.NewInventoryHandler(inventoryUC, retrier),
		HealthHandler:    handler.NewHealthHandler(pool, nil),
		IdempotencyStore: opts.idempotencyStore,
		Logger:           zerolog.Nop(),
	})

	return &engine{
		db:          testDB,
		router:      router,
		partyRepo:   partyRepo,
		itemRepo:    itemRepo,
		entryRepo:   entryRepo,
		txnRepo:     txnRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		outboxRepo:  outboxRepo,
		ledgerUC:    ledgerUC,
		inventoryUC: inventoryUC,
		postingUC:   postingUC,
	}
}

// postJSON posts a payload through the router and returns the recorder.
func (e *engine) postJSON(t *testing.T, path string, payload any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal request: %v", err)
	}

	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		r.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)

	return w
}

// getJSON performs a GET through the router and returns the recorder.
func (e *engine) getJSON(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, r)

	return w
}

// decode unmarshals a response body, failing the test on malformed JSON.
func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()

	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
}
