package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/infrastructure/metrics"
)

// PostingUseCase coordinates the posting protocol shared by sales, purchases,
// expenses and payments: one unit of work covering the primary record, the
// inventory movement and every ledger entry, committed all or nothing.
type PostingUseCase struct {
	txManager   TransactionManager
	partyRepo   PartyRepository
	txnRepo     TransactionRepository
	paymentRepo PaymentRepository
	outboxRepo  OutboxRepository
	auditRepo   AuditRepository
	idGen       IDGenerator
	cache       Cache
	metrics     *metrics.Metrics
	ledger      *LedgerUseCase
	inventory   *InventoryUseCase
	defaultRate decimal.Decimal
	rateCeiling decimal.Decimal
}

// NewPostingUseCase creates a posting coordinator. defaultRate is applied when
// an input carries no exchange rate; rateCeiling bounds per-unit rates and is
// ignored when non-positive.
func NewPostingUseCase(
	txManager TransactionManager,
	partyRepo PartyRepository,
	txnRepo TransactionRepository,
	paymentRepo PaymentRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	cache Cache,
	m *metrics.Metrics,
	ledger *LedgerUseCase,
	inventory *InventoryUseCase,
	defaultRate decimal.Decimal,
	rateCeiling decimal.Decimal,
) *PostingUseCase {
	return &PostingUseCase{
		txManager:   txManager,
		partyRepo:   partyRepo,
		txnRepo:     txnRepo,
		paymentRepo: paymentRepo,
		outboxRepo:  outboxRepo,
		auditRepo:   auditRepo,
		idGen:       idGen,
		cache:       cache,
		metrics:     m,
		ledger:      ledger,
		inventory:   inventory,
		defaultRate: defaultRate,
		rateCeiling: rateCeiling,
	}
}

// RecordSaleInput describes a sale of stock to a party.
type RecordSaleInput struct {
	OccurredAt   time.Time
	Note         string
	Method       domain.PaymentMethod
	PartyID      int64
	ItemID       int64
	FarmID       int64
	Quantity     decimal.Decimal
	UnitRate     decimal.Decimal
	ExchangeRate decimal.Decimal
}

// RecordPurchaseInput describes a purchase from a party. ItemID zero records
// a purchase with no inventory movement (services, fees).
type RecordPurchaseInput struct {
	OccurredAt   time.Time
	Note         string
	Method       domain.PaymentMethod
	PartyID      int64
	ItemID       int64
	FarmID       int64
	Quantity     decimal.Decimal
	UnitRate     decimal.Decimal
	ExchangeRate decimal.Decimal
}

// RecordExpenseInput describes an operating expense. PartyID zero records the
// expense against no counterparty, so no ledger entry is posted.
type RecordExpenseInput struct {
	OccurredAt   time.Time
	Note         string
	Category     string
	Method       domain.PaymentMethod
	PartyID      int64
	FarmID       int64
	Amount       decimal.Decimal
	ExchangeRate decimal.Decimal
}

// RecordPaymentInput describes a standalone cash settlement against a party
// balance, in either direction.
type RecordPaymentInput struct {
	PaidAt       time.Time
	Note         string
	Kind         domain.PaymentKind
	PartyID      int64
	Amount       decimal.Decimal
	ExchangeRate decimal.Decimal
}

// PostingResult reports everything a posting committed. Balance is the party
// balance after the final entry; postings with a zero total or no party leave
// it at the balance current when the unit of work committed.
type PostingResult struct {
	Transaction *domain.Transaction
	Payment     *domain.Payment
	Entries     []*domain.LedgerEntry
	Balance     decimal.Decimal
}

// PaymentResult reports a committed standalone payment.
type PaymentResult struct {
	Payment *domain.Payment
	Entry   *domain.LedgerEntry
	Balance decimal.Decimal
}

// RecordSale posts a sale: stock out at the current weighted average, a debit
// against the buyer, and for cash sales an immediate offsetting settlement.
func (uc *PostingUseCase) RecordSale(ctx context.Context, input RecordSaleInput) (*PostingResult, error) {
	start := time.Now()

	result, err := uc.recordSale(ctx, input)
	if err != nil {
		uc.observeError(err)
		return nil, err
	}

	uc.observePosting(result.Transaction, start)
	uc.audit(ctx, domain.AuditActionSaleRecord, "transaction", result.Transaction.ID,
		fmt.Sprintf("sale of %s to party %d", result.Transaction.TotalPrimary, result.Transaction.PartyID))
	return result, nil
}

func (uc *PostingUseCase) recordSale(ctx context.Context, input RecordSaleInput) (*PostingResult, error) {
	now := time.Now().UTC()

	// 1. Validate before touching the store.
	if err := uc.validateSale(&input, now); err != nil {
		return nil, err
	}
	totalPrimary, totalSecondary, err := computeTotals(input.Quantity, input.UnitRate, input.ExchangeRate)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// The party lookup doubles as the row lock serializing postings
	// against the same party.
	if _, err := uc.partyRepo.GetByIDForUpdate(txCtx, tx, input.PartyID); err != nil {
		return nil, partyLookupError(err)
	}

	// 2. Stock check before any write, on the already-locked item row.
	if err := uc.inventory.CheckAvailability(txCtx, tx, input.ItemID, input.Quantity); err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return nil, domain.NewValidationError("item_id", "item does not exist")
		}
		return nil, err
	}

	// 3. Primary record, pending until commit.
	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Kind:           domain.KindSale,
		Method:         input.Method,
		Note:           input.Note,
		PartyID:        input.PartyID,
		FarmID:         input.FarmID,
		ItemID:         input.ItemID,
		Quantity:       input.Quantity,
		UnitRate:       input.UnitRate,
		TotalPrimary:   totalPrimary,
		TotalSecondary: totalSecondary,
		ExchangeRate:   input.ExchangeRate,
		OccurredAt:     input.OccurredAt,
		CreatedAt:      now,
	}

	// 4. Stock out at the current average, captured as the cost basis.
	_, basis, err := uc.inventory.RecordOutbound(txCtx, tx, input.ItemID, input.Quantity)
	if err != nil {
		return nil, postingFailure(err)
	}
	txn.CostBasis = basis.Mul(input.Quantity).Round(domain.MoneyScale)

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, postingFailure(err)
	}

	result := &PostingResult{Transaction: txn}

	// 5. Debit the buyer for the full value.
	if !totalPrimary.IsZero() {
		entry, balance, err := uc.ledger.PostEntry(txCtx, tx, PostEntryInput{
			PartyID:       txn.PartyID,
			PostedAt:      txn.OccurredAt,
			Description:   fmt.Sprintf("Sale of %s @ %s", txn.Quantity, txn.UnitRate),
			Side:          domain.SideDebit,
			AmountPrimary: totalPrimary,
			ExchangeRate:  txn.ExchangeRate,
			ReferenceType: domain.ReferenceSale,
			ReferenceID:   txn.ID,
		})
		if err != nil {
			return nil, postingFailure(err)
		}
		result.Entries = append(result.Entries, entry)
		result.Balance = balance

		// 6. Cash settles immediately with an offsetting entry.
		if txn.Method == domain.MethodCash {
			payment, offset, balance, err := uc.settleCash(txCtx, tx, txn, now)
			if err != nil {
				return nil, postingFailure(err)
			}
			result.Payment = payment
			result.Entries = append(result.Entries, offset)
			result.Balance = balance
		}
	} else {
		balance, err := uc.ledger.entryRepo.SumBalanceTx(txCtx, tx, txn.PartyID)
		if err != nil {
			return nil, postingFailure(err)
		}
		result.Balance = balance
	}

	if err := uc.queueInvalidation(txCtx, tx, txn, now); err != nil {
		return nil, postingFailure(err)
	}

	// 7. All or nothing.
	if err := tx.Commit(txCtx); err != nil {
		return nil, postingFailure(err)
	}

	// 8. Drop caches touched by this posting.
	uc.dropCaches(ctx, txn.PartyID, txn.ItemID, txn.FarmID)

	return result, nil
}

// RecordPurchase posts a purchase: optional stock in at the purchase rate, a
// credit in favour of the supplier, and for cash purchases an immediate
// offsetting settlement.
func (uc *PostingUseCase) RecordPurchase(ctx context.Context, input RecordPurchaseInput) (*PostingResult, error) {
	start := time.Now()

	result, err := uc.recordPurchase(ctx, input)
	if err != nil {
		uc.observeError(err)
		return nil, err
	}

	uc.observePosting(result.Transaction, start)
	uc.audit(ctx, domain.AuditActionPurchaseRecord, "transaction", result.Transaction.ID,
		fmt.Sprintf("purchase of %s from party %d", result.Transaction.TotalPrimary, result.Transaction.PartyID))
	return result, nil
}

func (uc *PostingUseCase) recordPurchase(ctx context.Context, input RecordPurchaseInput) (*PostingResult, error) {
	now := time.Now().UTC()

	if err := uc.validatePurchase(&input, now); err != nil {
		return nil, err
	}
	totalPrimary, totalSecondary, err := computeTotals(input.Quantity, input.UnitRate, input.ExchangeRate)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.partyRepo.GetByIDForUpdate(txCtx, tx, input.PartyID); err != nil {
		return nil, partyLookupError(err)
	}

	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Kind:           domain.KindPurchase,
		Method:         input.Method,
		Note:           input.Note,
		PartyID:        input.PartyID,
		FarmID:         input.FarmID,
		ItemID:         input.ItemID,
		Quantity:       input.Quantity,
		UnitRate:       input.UnitRate,
		TotalPrimary:   totalPrimary,
		TotalSecondary: totalSecondary,
		ExchangeRate:   input.ExchangeRate,
		OccurredAt:     input.OccurredAt,
		CreatedAt:      now,
	}

	// Stock in reprices the weighted average before the ledger posting.
	if txn.ItemID > 0 {
		if _, err := uc.inventory.RecordInbound(txCtx, tx, txn.ItemID, txn.Quantity, txn.UnitRate); err != nil {
			if errors.Is(err, domain.ErrItemNotFound) {
				return nil, domain.NewValidationError("item_id", "item does not exist")
			}
			return nil, postingFailure(err)
		}
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, postingFailure(err)
	}

	result := &PostingResult{Transaction: txn}

	if !totalPrimary.IsZero() {
		entry, balance, err := uc.ledger.PostEntry(txCtx, tx, PostEntryInput{
			PartyID:       txn.PartyID,
			PostedAt:      txn.OccurredAt,
			Description:   fmt.Sprintf("Purchase of %s @ %s", txn.Quantity, txn.UnitRate),
			Side:          domain.SideCredit,
			AmountPrimary: totalPrimary,
			ExchangeRate:  txn.ExchangeRate,
			ReferenceType: domain.ReferencePurchase,
			ReferenceID:   txn.ID,
		})
		if err != nil {
			return nil, postingFailure(err)
		}
		result.Entries = append(result.Entries, entry)
		result.Balance = balance

		if txn.Method == domain.MethodCash {
			payment, offset, balance, err := uc.settleCash(txCtx, tx, txn, now)
			if err != nil {
				return nil, postingFailure(err)
			}
			result.Payment = payment
			result.Entries = append(result.Entries, offset)
			result.Balance = balance
		}
	} else {
		balance, err := uc.ledger.entryRepo.SumBalanceTx(txCtx, tx, txn.PartyID)
		if err != nil {
			return nil, postingFailure(err)
		}
		result.Balance = balance
	}

	if err := uc.queueInvalidation(txCtx, tx, txn, now); err != nil {
		return nil, postingFailure(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, postingFailure(err)
	}

	uc.dropCaches(ctx, txn.PartyID, txn.ItemID, txn.FarmID)

	return result, nil
}

// RecordExpense posts an operating expense. With a counterparty the expense
// credits that party's balance; without one only the transaction record is
// written.
func (uc *PostingUseCase) RecordExpense(ctx context.Context, input RecordExpenseInput) (*PostingResult, error) {
	start := time.Now()

	result, err := uc.recordExpense(ctx, input)
	if err != nil {
		uc.observeError(err)
		return nil, err
	}

	uc.observePosting(result.Transaction, start)
	uc.audit(ctx, domain.AuditActionExpenseRecord, "transaction", result.Transaction.ID,
		fmt.Sprintf("expense of %s (%s)", result.Transaction.TotalPrimary, result.Transaction.Category))
	return result, nil
}

func (uc *PostingUseCase) recordExpense(ctx context.Context, input RecordExpenseInput) (*PostingResult, error) {
	now := time.Now().UTC()

	if err := uc.validateExpense(&input, now); err != nil {
		return nil, err
	}
	totalSecondary, err := domain.ConvertToSecondary(input.Amount, input.ExchangeRate)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if input.PartyID > 0 {
		if _, err := uc.partyRepo.GetByIDForUpdate(txCtx, tx, input.PartyID); err != nil {
			return nil, partyLookupError(err)
		}
	}

	txn := &domain.Transaction{
		ID:             uc.idGen.Generate(),
		Kind:           domain.KindExpense,
		Method:         input.Method,
		Note:           input.Note,
		Category:       input.Category,
		PartyID:        input.PartyID,
		FarmID:         input.FarmID,
		TotalPrimary:   input.Amount,
		TotalSecondary: totalSecondary,
		ExchangeRate:   input.ExchangeRate,
		OccurredAt:     input.OccurredAt,
		CreatedAt:      now,
	}

	if err := uc.txnRepo.Create(txCtx, tx, txn); err != nil {
		return nil, postingFailure(err)
	}

	result := &PostingResult{Transaction: txn}

	// A counterparty expense is owed until settled by a payment; expenses
	// never settle inline.
	if txn.PartyID > 0 {
		entry, balance, err := uc.ledger.PostEntry(txCtx, tx, PostEntryInput{
			PartyID:       txn.PartyID,
			PostedAt:      txn.OccurredAt,
			Description:   expenseDescription(txn.Category),
			Side:          domain.SideCredit,
			AmountPrimary: txn.TotalPrimary,
			ExchangeRate:  txn.ExchangeRate,
			ReferenceType: domain.ReferenceExpense,
			ReferenceID:   txn.ID,
		})
		if err != nil {
			return nil, postingFailure(err)
		}
		result.Entries = append(result.Entries, entry)
		result.Balance = balance
	}

	if err := uc.queueInvalidation(txCtx, tx, txn, now); err != nil {
		return nil, postingFailure(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, postingFailure(err)
	}

	uc.dropCaches(ctx, txn.PartyID, 0, txn.FarmID)

	return result, nil
}

// RecordPayment posts a standalone cash settlement: received payments credit
// the party, made payments debit it.
func (uc *PostingUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	start := time.Now()

	result, err := uc.recordPayment(ctx, input)
	if err != nil {
		uc.observeError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.PaymentsRecorded.WithLabelValues(string(result.Payment.Kind)).Inc()
		amount, _ := result.Payment.AmountPrimary.Float64()
		uc.metrics.PostingAmount.Observe(amount)
		uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
	}
	uc.audit(ctx, domain.AuditActionPaymentRecord, "payment", result.Payment.ID,
		fmt.Sprintf("%s of %s for party %d", result.Payment.Kind, result.Payment.AmountPrimary, result.Payment.PartyID))
	return result, nil
}

func (uc *PostingUseCase) recordPayment(ctx context.Context, input RecordPaymentInput) (*PaymentResult, error) {
	now := time.Now().UTC()

	if err := uc.validatePayment(&input, now); err != nil {
		return nil, err
	}
	totalSecondary, err := domain.ConvertToSecondary(input.Amount, input.ExchangeRate)
	if err != nil {
		return nil, err
	}
	side, err := input.Kind.EntrySide()
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.partyRepo.GetByIDForUpdate(txCtx, tx, input.PartyID); err != nil {
		return nil, partyLookupError(err)
	}

	payment := &domain.Payment{
		ID:              uc.idGen.Generate(),
		Kind:            input.Kind,
		Method:          domain.MethodCash,
		Note:            input.Note,
		PartyID:         input.PartyID,
		AmountPrimary:   input.Amount,
		AmountSecondary: totalSecondary,
		ExchangeRate:    input.ExchangeRate,
		PaidAt:          input.PaidAt,
		CreatedAt:       now,
	}

	if err := uc.paymentRepo.Create(txCtx, tx, payment); err != nil {
		return nil, postingFailure(err)
	}

	entry, balance, err := uc.ledger.PostEntry(txCtx, tx, PostEntryInput{
		PartyID:       payment.PartyID,
		PostedAt:      payment.PaidAt,
		Description:   paymentDescription(payment.Kind),
		Side:          side,
		AmountPrimary: payment.AmountPrimary,
		ExchangeRate:  payment.ExchangeRate,
		ReferenceType: domain.ReferencePayment,
		ReferenceID:   payment.ID,
	})
	if err != nil {
		return nil, postingFailure(err)
	}

	if err := uc.queuePartyInvalidation(txCtx, tx, payment.PartyID, payment.ID, now); err != nil {
		return nil, postingFailure(err)
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, postingFailure(err)
	}

	uc.dropCaches(ctx, payment.PartyID, 0, 0)

	return &PaymentResult{Payment: payment, Entry: entry, Balance: balance}, nil
}

// settleCash writes the settlement payment and the ledger entry opposing the
// primary one, netting the party balance back to its prior value.
func (uc *PostingUseCase) settleCash(ctx context.Context, tx Transaction, txn *domain.Transaction, now time.Time) (*domain.Payment, *domain.LedgerEntry, decimal.Decimal, error) {
	kind, err := txn.Kind.SettlementKind()
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	refType, err := txn.Kind.ReferenceType()
	if err != nil {
		return nil, nil, decimal.Zero, err
	}
	side, err := kind.EntrySide()
	if err != nil {
		return nil, nil, decimal.Zero, err
	}

	payment := &domain.Payment{
		ID:              uc.idGen.Generate(),
		Kind:            kind,
		Method:          domain.MethodCash,
		PartyID:         txn.PartyID,
		AmountPrimary:   txn.TotalPrimary,
		AmountSecondary: txn.TotalSecondary,
		ExchangeRate:    txn.ExchangeRate,
		ReferenceType:   refType,
		ReferenceID:     txn.ID,
		PaidAt:          txn.OccurredAt,
		CreatedAt:       now,
	}
	if err := uc.paymentRepo.Create(ctx, tx, payment); err != nil {
		return nil, nil, decimal.Zero, err
	}

	entry, balance, err := uc.ledger.PostEntry(ctx, tx, PostEntryInput{
		PartyID:       txn.PartyID,
		PostedAt:      txn.OccurredAt,
		Description:   "Cash settlement",
		Side:          side,
		AmountPrimary: txn.TotalPrimary,
		ExchangeRate:  txn.ExchangeRate,
		ReferenceType: domain.ReferencePayment,
		ReferenceID:   payment.ID,
	})
	if err != nil {
		return nil, nil, decimal.Zero, err
	}

	return payment, entry, balance, nil
}

func (uc *PostingUseCase) validateSale(input *RecordSaleInput, now time.Time) error {
	if err := domain.ValidatePartyID(input.PartyID); err != nil {
		return err
	}
	if input.ItemID <= 0 {
		return domain.NewValidationError("item_id", "item id must be positive")
	}
	if input.FarmID < 0 {
		return domain.NewValidationError("farm_id", "farm id cannot be negative")
	}
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return err
	}
	if err := domain.ValidateRate(input.UnitRate, uc.rateCeiling); err != nil {
		return err
	}
	if err := uc.normalizeExchangeRate(&input.ExchangeRate); err != nil {
		return err
	}
	if err := validateMethod(input.Method); err != nil {
		return err
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = now
	}
	if err := domain.ValidateTimestamp(input.OccurredAt, now); err != nil {
		return err
	}
	return domain.ValidateNote(input.Note)
}

func (uc *PostingUseCase) validatePurchase(input *RecordPurchaseInput, now time.Time) error {
	if err := domain.ValidatePartyID(input.PartyID); err != nil {
		return err
	}
	if input.ItemID < 0 {
		return domain.NewValidationError("item_id", "item id cannot be negative")
	}
	if input.FarmID < 0 {
		return domain.NewValidationError("farm_id", "farm id cannot be negative")
	}
	if err := domain.ValidateQuantity(input.Quantity); err != nil {
		return err
	}
	if err := domain.ValidateRate(input.UnitRate, uc.rateCeiling); err != nil {
		return err
	}
	if err := uc.normalizeExchangeRate(&input.ExchangeRate); err != nil {
		return err
	}
	if err := validateMethod(input.Method); err != nil {
		return err
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = now
	}
	if err := domain.ValidateTimestamp(input.OccurredAt, now); err != nil {
		return err
	}
	return domain.ValidateNote(input.Note)
}

func (uc *PostingUseCase) validateExpense(input *RecordExpenseInput, now time.Time) error {
	if input.PartyID < 0 {
		return domain.NewValidationError("party_id", "party id cannot be negative")
	}
	if input.FarmID < 0 {
		return domain.NewValidationError("farm_id", "farm id cannot be negative")
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	if len(input.Category) > domain.MaxCategoryLength {
		return domain.NewValidationError("category", fmt.Sprintf("category exceeds %d characters", domain.MaxCategoryLength))
	}
	if err := uc.normalizeExchangeRate(&input.ExchangeRate); err != nil {
		return err
	}
	if err := validateMethod(input.Method); err != nil {
		return err
	}
	if input.OccurredAt.IsZero() {
		input.OccurredAt = now
	}
	if err := domain.ValidateTimestamp(input.OccurredAt, now); err != nil {
		return err
	}
	return domain.ValidateNote(input.Note)
}

func (uc *PostingUseCase) validatePayment(input *RecordPaymentInput, now time.Time) error {
	if err := domain.ValidatePartyID(input.PartyID); err != nil {
		return err
	}
	switch input.Kind {
	case domain.PaymentReceived, domain.PaymentPaid:
	default:
		return domain.NewValidationError("kind", fmt.Sprintf("unknown payment kind %q", input.Kind))
	}
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return err
	}
	if err := uc.normalizeExchangeRate(&input.ExchangeRate); err != nil {
		return err
	}
	if input.PaidAt.IsZero() {
		input.PaidAt = now
	}
	if err := domain.ValidateTimestamp(input.PaidAt, now); err != nil {
		return err
	}
	return domain.ValidateNote(input.Note)
}

func (uc *PostingUseCase) normalizeExchangeRate(rate *decimal.Decimal) error {
	if rate.IsZero() {
		*rate = uc.defaultRate
	}
	return domain.ValidateExchangeRate(*rate)
}

// computeTotals derives both currency legs from quantity and rate. A zero
// rate yields zero totals, which post no ledger entries.
func computeTotals(qty, rate, exchangeRate decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	totalPrimary := qty.Mul(rate).Round(domain.MoneyScale)
	if !totalPrimary.IsZero() {
		if err := domain.ValidateAmount(totalPrimary); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	totalSecondary, err := domain.ConvertToSecondary(totalPrimary, exchangeRate)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return totalPrimary, totalSecondary, nil
}

func validateMethod(method domain.PaymentMethod) error {
	switch method {
	case domain.MethodCash, domain.MethodCredit:
		return nil
	default:
		return domain.NewValidationError("payment_method", fmt.Sprintf("unknown payment method %q", method))
	}
}

func partyLookupError(err error) error {
	if errors.Is(err, domain.ErrPartyNotFound) {
		return domain.NewValidationError("party_id", "party does not exist")
	}
	return err
}

// postingFailure classifies an error raised after the first write of the unit
// of work. Lock conflicts surface as-is so callers can retry; everything else
// reports the rolled-back posting.
func postingFailure(err error) error {
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		return err
	}
	return &domain.TransactionFailedError{Cause: err}
}

func (uc *PostingUseCase) queueInvalidation(ctx context.Context, tx Transaction, txn *domain.Transaction, now time.Time) error {
	if txn.PartyID > 0 {
		if err := uc.queuePartyInvalidation(ctx, tx, txn.PartyID, txn.ID, now); err != nil {
			return err
		}
	}
	if txn.ItemID > 0 {
		if err := uc.queueItemInvalidation(ctx, tx, txn.ItemID, txn.ID, now); err != nil {
			return err
		}
	}
	if txn.FarmID > 0 {
		if err := uc.queueFarmInvalidation(ctx, tx, txn.FarmID, txn.ID, now); err != nil {
			return err
		}
	}
	return nil
}

func (uc *PostingUseCase) queuePartyInvalidation(ctx context.Context, tx Transaction, partyID int64, reference string, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(partyID, 10),
		AggregateType: domain.AggregateTypeParty,
		EventType:     domain.EventTypeBalanceChanged,
		Payload: map[string]any{
			"party_id":   partyID,
			"reference":  reference,
			"cache_keys": []string{BalanceCacheKey(partyID)},
		},
		CreatedAt: now,
	})
}

func (uc *PostingUseCase) queueItemInvalidation(ctx context.Context, tx Transaction, itemID int64, reference string, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(itemID, 10),
		AggregateType: domain.AggregateTypeItem,
		EventType:     domain.EventTypeStockChanged,
		Payload: map[string]any{
			"item_id":    itemID,
			"reference":  reference,
			"cache_keys": []string{ItemCacheKey(itemID)},
		},
		CreatedAt: now,
	})
}

func (uc *PostingUseCase) queueFarmInvalidation(ctx context.Context, tx Transaction, farmID int64, reference string, now time.Time) error {
	if uc.outboxRepo == nil {
		return nil
	}
	return uc.outboxRepo.Create(ctx, tx, &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   strconv.FormatInt(farmID, 10),
		AggregateType: domain.AggregateTypeFarm,
		EventType:     domain.EventTypeDashboardChanged,
		Payload: map[string]any{
			"farm_id":    farmID,
			"reference":  reference,
			"cache_keys": []string{DashboardCacheKey(farmID)},
		},
		CreatedAt: now,
	})
}

// dropCaches best-effort deletes the cache keys the outbox events name, so
// readers converge before the publisher drains.
func (uc *PostingUseCase) dropCaches(ctx context.Context, partyID, itemID, farmID int64) {
	if uc.cache == nil {
		return
	}
	keys := make([]string, 0, 3)
	if partyID > 0 {
		keys = append(keys, BalanceCacheKey(partyID))
	}
	if itemID > 0 {
		keys = append(keys, ItemCacheKey(itemID))
	}
	if farmID > 0 {
		keys = append(keys, DashboardCacheKey(farmID))
	}
	if len(keys) == 0 {
		return
	}
	_ = uc.cache.Delete(ctx, keys...)
}

func (uc *PostingUseCase) audit(ctx context.Context, action domain.AuditAction, resourceType, resourceID, detail string) {
	if uc.auditRepo == nil {
		return
	}
	entry := &domain.AuditLog{
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Detail:       detail,
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    time.Now().UTC(),
	}
	_ = uc.auditRepo.Create(ctx, entry)
	if uc.metrics != nil {
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}
}

func (uc *PostingUseCase) observePosting(txn *domain.Transaction, start time.Time) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PostingsRecorded.WithLabelValues(string(txn.Kind), string(txn.Method)).Inc()
	total, _ := txn.TotalPrimary.Float64()
	uc.metrics.PostingAmount.Observe(total)
	uc.metrics.PostingDuration.Observe(time.Since(start).Seconds())
}

func (uc *PostingUseCase) observeError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.PostingErrors.WithLabelValues(errorType(err)).Inc()
}

func errorType(err error) string {
	var validationErr *domain.ValidationError
	var stockErr *domain.InsufficientStockError
	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &stockErr):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrConcurrencyConflict):
		return "conflict"
	default:
		return "persistence"
	}
}

func expenseDescription(category string) string {
	if category == "" {
		return "Expense"
	}
	return fmt.Sprintf("Expense: %s", category)
}

func paymentDescription(kind domain.PaymentKind) string {
	if kind == domain.PaymentReceived {
		return "Payment received"
	}
	return "Payment made"
}
