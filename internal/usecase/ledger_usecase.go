package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/metrics"
)

// LedgerUseCase is the append-only ledger. It posts immutable entries inside
// a caller-supplied unit of work and serves balances and statements derived
// from those entries: no balance is ever stored.
type LedgerUseCase struct {
	txManager  TransactionManager
	partyRepo  PartyRepository
	entryRepo  EntryRepository
	outboxRepo OutboxRepository
	idGen      IDGenerator
	cache      Cache
	metrics    *metrics.Metrics
	balanceTTL time.Duration
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	entryRepo EntryRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
	balanceTTL time.Duration,
) *LedgerUseCase {
	if balanceTTL <= 0 {
		balanceTTL = DefaultBalanceCacheTTL
	}

	return &LedgerUseCase{
		txManager:  txManager,
		partyRepo:  partyRepo,
		entryRepo:  entryRepo,
		outboxRepo: outboxRepo,
		idGen:      idGen,
		cache:      cache,
		metrics:    m,
		balanceTTL: balanceTTL,
	}
}

// PostEntryInput describes one entry to append.
type PostEntryInput struct {
	PostedAt      time.Time
	Description   string
	ReferenceType domain.ReferenceType
	ReferenceID   string
	Side          domain.EntrySide
	PartyID       int64
	AmountPrimary decimal.Decimal
	ExchangeRate  decimal.Decimal
}

// PostEntry appends an immutable entry within the caller's unit of work and
// returns it together with the party's updated running balance. The balance
// is recomputed from the entries visible to the transaction, never read from
// a stored column.
func (uc *LedgerUseCase) PostEntry(ctx context.Context, tx Transaction, input PostEntryInput) (*domain.LedgerEntry, decimal.Decimal, error) {
	entry, err := domain.NewLedgerEntry(
		input.PartyID,
		input.PostedAt,
		input.Description,
		input.Side,
		input.AmountPrimary,
		input.ExchangeRate,
		input.ReferenceType,
		input.ReferenceID,
	)
	if err != nil {
		return nil, decimal.Zero, err
	}

	entry.ID = uc.idGen.Generate()

	if err := uc.entryRepo.Create(ctx, tx, entry); err != nil {
		return nil, decimal.Zero, err
	}

	balance, err := uc.entryRepo.SumBalanceTx(ctx, tx, input.PartyID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesPosted.Inc()
	}

	return entry, balance, nil
}

// GetBalance returns the party's running balance: cache first, then the
// aggregate over its entries. Readers tolerate a miss and recompute.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, partyID int64) (decimal.Decimal, error) {
	if err := domain.ValidatePartyID(partyID); err != nil {
		return decimal.Zero, err
	}

	key := BalanceCacheKey(partyID)

	if uc.cache != nil {
		if raw, err := uc.cache.Get(ctx, key); err == nil && raw != nil {
			if balance, perr := decimal.NewFromString(string(raw)); perr == nil {
				if uc.metrics != nil {
					uc.metrics.CacheHits.Inc()
				}
				return balance, nil
			}
		}

		if uc.metrics != nil {
			uc.metrics.CacheMisses.Inc()
		}
	}

	if _, err := uc.partyRepo.GetByID(ctx, partyID); err != nil {
		return decimal.Zero, err
	}

	balance, err := uc.entryRepo.SumBalance(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Set(ctx, key, []byte(balance.String()), uc.balanceTTL)
	}

	if uc.metrics != nil {
		uc.metrics.BalanceReads.Inc()
	}

	return balance, nil
}

// GetStatement returns a lazy, restartable statement over [from, to] ordered
// by (posted_at, seq). A zero from starts at the first entry; a zero to
// extends through the posting slack so future-dated entries are included.
func (uc *LedgerUseCase) GetStatement(ctx context.Context, partyID int64, from, to time.Time) (*Statement, error) {
	if err := domain.ValidatePartyID(partyID); err != nil {
		return nil, err
	}

	if to.IsZero() {
		to = time.Now().UTC().Add(domain.TimestampSlack)
	}

	if !from.IsZero() && to.Before(from) {
		return nil, domain.NewValidationError("date_range", "to precedes from")
	}

	if _, err := uc.partyRepo.GetByID(ctx, partyID); err != nil {
		return nil, err
	}

	opening, err := uc.entryRepo.SumBalanceBefore(ctx, partyID, from)
	if err != nil {
		return nil, err
	}

	return newStatement(uc.entryRepo, partyID, from, to, opening, DefaultStatementPageSize), nil
}

// ReverseEntry appends the compensating entry for entryID in its own unit of
// work and returns it with the party's updated balance. The original is left
// untouched; an entry can be reversed once.
func (uc *LedgerUseCase) ReverseEntry(ctx context.Context, entryID, reason string) (*domain.LedgerEntry, decimal.Decimal, error) {
	original, err := uc.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	now := time.Now().UTC()

	if reason == "" {
		reason = fmt.Sprintf("reversal of entry %s", original.ID)
	}
	if err := domain.ValidateNote(reason); err != nil {
		return nil, decimal.Zero, err
	}

	rev, err := original.Reversal(now, reason)
	if err != nil {
		return nil, decimal.Zero, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock the party row first: once the lock is held, any competing
	// reversal has either committed (and the check below sees it) or
	// rolled back.
	if _, err := uc.partyRepo.GetByIDForUpdate(txCtx, tx, original.PartyID); err != nil {
		return nil, decimal.Zero, err
	}

	existing, err := uc.entryRepo.ListByReference(txCtx, domain.ReferenceReversal, original.ID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	if len(existing) > 0 {
		return nil, decimal.Zero, domain.ErrAlreadyReversed
	}

	rev.ID = uc.idGen.Generate()

	if err := uc.entryRepo.Create(txCtx, tx, rev); err != nil {
		return nil, decimal.Zero, err
	}

	balance, err := uc.entryRepo.SumBalanceTx(txCtx, tx, original.PartyID)
	if err != nil {
		return nil, decimal.Zero, err
	}

	if uc.outboxRepo != nil {
		event := &domain.OutboxEvent{
			ID:            uc.idGen.Generate(),
			AggregateID:   fmt.Sprintf("%d", original.PartyID),
			AggregateType: domain.AggregateTypeParty,
			EventType:     domain.EventTypeBalanceChanged,
			Payload: map[string]any{
				"party_id":   original.PartyID,
				"reference":  rev.ID,
				"cache_keys": []string{BalanceCacheKey(original.PartyID)},
			},
			CreatedAt: now,
			Published: false,
		}
		if err := uc.outboxRepo.Create(txCtx, tx, event); err != nil {
			return nil, decimal.Zero, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, decimal.Zero, err
	}

	if uc.cache != nil {
		_ = uc.cache.Delete(ctx, BalanceCacheKey(original.PartyID))
	}

	if uc.metrics != nil {
		uc.metrics.EntriesReversed.Inc()
	}

	return rev, balance, nil
}

// ConsistencyReport summarizes ledger-wide invariant checks.
type ConsistencyReport struct {
	MalformedEntries           int64
	UnbalancedCashTransactions int64
}

// Consistent reports whether every check passed.
func (r *ConsistencyReport) Consistent() bool {
	return r.MalformedEntries == 0 && r.UnbalancedCashTransactions == 0
}

// CheckConsistency verifies stored entries still satisfy the posting
// invariants: every entry moves exactly one side, and the entries of every
// cash sale or purchase net to zero.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	malformed, err := uc.entryRepo.CountMalformed(ctx)
	if err != nil {
		return nil, err
	}

	unbalanced, err := uc.entryRepo.CountUnbalancedCashTransactions(ctx)
	if err != nil {
		return nil, err
	}

	return &ConsistencyReport{
		MalformedEntries:           malformed,
		UnbalancedCashTransactions: unbalanced,
	}, nil
}
