package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
	"github.com/agriops/farmledger/internal/usecase/mocks"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// postingEnv wires a coordinator against in-memory fakes seeded with one
// party (id 1) and one item (id 10, 5000 units at avg cost 32.5). Default
// exchange rate is 78, no unit-rate ceiling.
type postingEnv struct {
	txMgr    *mocks.MockTransactionManager
	parties  *mocks.MockPartyRepository
	items    *mocks.MockItemRepository
	entries  *mocks.MockEntryRepository
	txns     *mocks.MockTransactionRepository
	payments *mocks.MockPaymentRepository
	outbox   *mocks.MockOutboxRepository
	audit    *mocks.MockAuditRepository
	idGen    *mocks.MockIDGenerator
	ledger   *usecase.LedgerUseCase
	uc       *usecase.PostingUseCase
}

func newPostingEnv() *postingEnv {
	env := &postingEnv{
		txMgr:    mocks.NewMockTransactionManager(),
		parties:  mocks.NewMockPartyRepository(),
		items:    mocks.NewMockItemRepository(),
		entries:  mocks.NewMockEntryRepository(),
		txns:     mocks.NewMockTransactionRepository(),
		payments: mocks.NewMockPaymentRepository(),
		outbox:   mocks.NewMockOutboxRepository(),
		audit:    mocks.NewMockAuditRepository(),
		idGen:    mocks.NewMockIDGenerator(),
	}

	env.ledger = usecase.NewLedgerUseCase(env.txMgr, env.parties, env.entries, env.outbox, env.idGen, nil, nil, 0)
	inventory := usecase.NewInventoryUseCase(env.txMgr, env.items, env.outbox, env.idGen, nil, nil)
	env.uc = usecase.NewPostingUseCase(
		env.txMgr, env.parties, env.txns, env.payments, env.outbox, env.audit,
		env.idGen, nil, nil, env.ledger, inventory,
		dec("78"), decimal.Zero,
	)

	env.parties.Add(&domain.Party{ID: 1, Name: "Akbar Traders"})
	env.items.Add(&domain.InventoryItem{
		ID:       10,
		Name:     "Eggs (dozen)",
		Kind:     domain.ItemFinished,
		Quantity: dec("5000"),
		AvgCost:  dec("32.5"),
	})
	return env
}

func TestPostingUseCase_RecordSale_Credit(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	res, err := env.uc.RecordSale(ctx, usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		FarmID:   3,
		Quantity: dec("1000"),
		UnitRate: dec("50"),
		Method:   domain.MethodCredit,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Balance.Equal(dec("50000")) {
		t.Errorf("expected balance 50000, got %s", res.Balance)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(res.Entries))
	}
	if res.Payment != nil {
		t.Error("credit sale must not create a payment")
	}

	entry := res.Entries[0]
	if entry.Side() != domain.SideDebit {
		t.Errorf("expected debit entry, got %s", entry.Side())
	}
	if !entry.DebitPrimary.Equal(dec("50000")) {
		t.Errorf("expected debit 50000, got %s", entry.DebitPrimary)
	}
	if !entry.DebitSecondary.Equal(dec("641.03")) {
		t.Errorf("expected secondary 641.03, got %s", entry.DebitSecondary)
	}
	if entry.ReferenceType != domain.ReferenceSale || entry.ReferenceID != res.Transaction.ID {
		t.Errorf("entry must reference the sale, got %s/%s", entry.ReferenceType, entry.ReferenceID)
	}

	txn := res.Transaction
	if txn.Kind != domain.KindSale {
		t.Errorf("expected kind Sale, got %s", txn.Kind)
	}
	if !txn.ExchangeRate.Equal(dec("78")) {
		t.Errorf("expected default exchange rate 78, got %s", txn.ExchangeRate)
	}
	if !txn.CostBasis.Equal(dec("32500")) {
		t.Errorf("expected cost basis 32500, got %s", txn.CostBasis)
	}

	item, err := env.items.GetByID(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !item.Quantity.Equal(dec("4000")) {
		t.Errorf("expected stock 4000, got %s", item.Quantity)
	}
	if !item.AvgCost.Equal(dec("32.5")) {
		t.Errorf("outbound must not change avg cost, got %s", item.AvgCost)
	}

	if got := len(env.outbox.Events()); got != 3 {
		t.Errorf("expected 3 outbox events (party, item, farm), got %d", got)
	}
	if got := len(env.audit.Logs()); got != 1 {
		t.Errorf("expected 1 audit log, got %d", got)
	}
}

func TestPostingUseCase_RecordSale_CashSettlesImmediately(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	res, err := env.uc.RecordSale(ctx, usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("100"),
		UnitRate: dec("50"),
		Method:   domain.MethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Balance.IsZero() {
		t.Errorf("cash sale must net to zero, got %s", res.Balance)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if res.Payment == nil {
		t.Fatal("expected settlement payment")
	}

	primary, offset := res.Entries[0], res.Entries[1]
	if primary.Side() != domain.SideDebit || offset.Side() != domain.SideCredit {
		t.Errorf("expected debit then credit, got %s then %s", primary.Side(), offset.Side())
	}
	if !primary.DebitPrimary.Equal(offset.CreditPrimary) {
		t.Errorf("offset must equal primary: %s vs %s", primary.DebitPrimary, offset.CreditPrimary)
	}
	if primary.Seq >= offset.Seq {
		t.Errorf("offset must follow primary: seq %d vs %d", primary.Seq, offset.Seq)
	}
	if offset.ReferenceType != domain.ReferencePayment || offset.ReferenceID != res.Payment.ID {
		t.Errorf("offset must reference the payment, got %s/%s", offset.ReferenceType, offset.ReferenceID)
	}

	if res.Payment.Kind != domain.PaymentReceived {
		t.Errorf("cash sale settles as Received, got %s", res.Payment.Kind)
	}
	if res.Payment.ReferenceType != domain.ReferenceSale || res.Payment.ReferenceID != res.Transaction.ID {
		t.Errorf("payment must reference the sale, got %s/%s", res.Payment.ReferenceType, res.Payment.ReferenceID)
	}
	if !res.Payment.AmountPrimary.Equal(dec("5000")) {
		t.Errorf("expected settlement 5000, got %s", res.Payment.AmountPrimary)
	}
}

func TestPostingUseCase_RecordSale_ZeroRateMovesStockOnly(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	res, err := env.uc.RecordSale(ctx, usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("50"),
		UnitRate: decimal.Zero,
		Method:   domain.MethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Entries) != 0 {
		t.Errorf("zero-value sale must post no entries, got %d", len(res.Entries))
	}
	if res.Payment != nil {
		t.Error("zero-value sale must not create a payment")
	}
	if !res.Balance.IsZero() {
		t.Errorf("expected balance 0, got %s", res.Balance)
	}

	item, _ := env.items.GetByID(ctx, 10)
	if !item.Quantity.Equal(dec("4950")) {
		t.Errorf("stock must still move, got %s", item.Quantity)
	}
}

func TestPostingUseCase_RecordSale_InsufficientStock(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	var txnCreated bool
	env.txns.CreateFunc = func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
		txnCreated = true
		return nil
	}

	var committed, rolledBack bool
	env.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc:   func(ctx context.Context) error { committed = true; return nil },
			RollbackFunc: func(ctx context.Context) error { rolledBack = true; return nil },
		}, nil
	}

	_, err := env.uc.RecordSale(ctx, usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("6000"),
		UnitRate: dec("50"),
		Method:   domain.MethodCredit,
	})

	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if !stockErr.Available.Equal(dec("5000")) || !stockErr.Requested.Equal(dec("6000")) {
		t.Errorf("expected available 5000 / requested 6000, got %s / %s", stockErr.Available, stockErr.Requested)
	}

	if txnCreated {
		t.Error("stock rejection must happen before any write")
	}
	if committed {
		t.Error("nothing must commit on stock rejection")
	}
	if !rolledBack {
		t.Error("unit of work must be rolled back")
	}
	if len(env.entries.Entries()) != 0 {
		t.Error("no entries must be written")
	}

	item, _ := env.items.GetByID(ctx, 10)
	if !item.Quantity.Equal(dec("5000")) {
		t.Errorf("stock must be unchanged, got %s", item.Quantity)
	}
}

func TestPostingUseCase_RecordPurchase_CashRepricesAndNetsToZero(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	res, err := env.uc.RecordPurchase(ctx, usecase.RecordPurchaseInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("200"),
		UnitRate: dec("30"),
		Method:   domain.MethodCash,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Balance.IsZero() {
		t.Errorf("cash purchase must net to zero, got %s", res.Balance)
	}
	if len(res.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(res.Entries))
	}
	if res.Entries[0].Side() != domain.SideCredit || res.Entries[1].Side() != domain.SideDebit {
		t.Errorf("expected credit then debit, got %s then %s", res.Entries[0].Side(), res.Entries[1].Side())
	}
	if res.Payment == nil || res.Payment.Kind != domain.PaymentPaid {
		t.Fatalf("cash purchase settles as Paid, got %+v", res.Payment)
	}

	// (5000*32.5 + 200*30) / 5200
	item, _ := env.items.GetByID(ctx, 10)
	if !item.Quantity.Equal(dec("5200")) {
		t.Errorf("expected stock 5200, got %s", item.Quantity)
	}
	if !item.AvgCost.Equal(dec("32.4038")) {
		t.Errorf("expected avg cost 32.4038, got %s", item.AvgCost)
	}
}

func TestPostingUseCase_RecordPurchase_WithoutItem(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	res, err := env.uc.RecordPurchase(ctx, usecase.RecordPurchaseInput{
		PartyID:  1,
		Quantity: dec("5"),
		UnitRate: dec("2000"),
		Method:   domain.MethodCredit,
		Note:     "tractor hire",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Balance.Equal(dec("-10000")) {
		t.Errorf("expected balance -10000, got %s", res.Balance)
	}
	if len(res.Entries) != 1 || res.Entries[0].Side() != domain.SideCredit {
		t.Fatalf("expected a single credit entry")
	}

	item, _ := env.items.GetByID(ctx, 10)
	if !item.Quantity.Equal(dec("5000")) {
		t.Errorf("stock must be untouched, got %s", item.Quantity)
	}
}

func TestPostingUseCase_RecordExpense(t *testing.T) {
	t.Run("with counterparty", func(t *testing.T) {
		env := newPostingEnv()

		res, err := env.uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
			PartyID:  1,
			Amount:   dec("1500"),
			Category: "Feed",
			Method:   domain.MethodCredit,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(res.Entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(res.Entries))
		}
		if res.Entries[0].Side() != domain.SideCredit {
			t.Errorf("party expense credits the party, got %s", res.Entries[0].Side())
		}
		if !res.Balance.Equal(dec("-1500")) {
			t.Errorf("expected balance -1500, got %s", res.Balance)
		}
		if res.Transaction.Category != "Feed" {
			t.Errorf("expected category Feed, got %s", res.Transaction.Category)
		}
	})

	t.Run("without counterparty", func(t *testing.T) {
		env := newPostingEnv()

		var txnCreated bool
		env.txns.CreateFunc = func(ctx context.Context, tx usecase.Transaction, txn *domain.Transaction) error {
			txnCreated = true
			return nil
		}

		res, err := env.uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
			Amount:   dec("800"),
			Category: "Fuel",
			Method:   domain.MethodCash,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if !txnCreated {
			t.Error("expense record must still be written")
		}
		if len(res.Entries) != 0 {
			t.Errorf("expense without party posts no entries, got %d", len(res.Entries))
		}
		if len(env.entries.Entries()) != 0 {
			t.Error("no ledger entries expected")
		}
	})

	t.Run("cash expense never settles inline", func(t *testing.T) {
		env := newPostingEnv()

		res, err := env.uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
			PartyID: 1,
			Amount:  dec("900"),
			Method:  domain.MethodCash,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Payment != nil {
			t.Error("expenses must not create settlement payments")
		}
		if len(res.Entries) != 1 {
			t.Errorf("expected single credit entry, got %d", len(res.Entries))
		}
	})
}

func TestPostingUseCase_RecordPayment(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	// Outstanding balance of 50000 from a credit sale.
	if _, err := env.uc.RecordSale(ctx, usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("1000"),
		UnitRate: dec("50"),
		Method:   domain.MethodCredit,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	res, err := env.uc.RecordPayment(ctx, usecase.RecordPaymentInput{
		PartyID: 1,
		Kind:    domain.PaymentReceived,
		Amount:  dec("20000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Balance.Equal(dec("30000")) {
		t.Errorf("expected balance 30000, got %s", res.Balance)
	}
	if res.Entry.Side() != domain.SideCredit {
		t.Errorf("received payment credits the party, got %s", res.Entry.Side())
	}
	if res.Payment.Method != domain.MethodCash {
		t.Errorf("standalone payments are cash, got %s", res.Payment.Method)
	}
	if res.Entry.ReferenceType != domain.ReferencePayment || res.Entry.ReferenceID != res.Payment.ID {
		t.Errorf("entry must reference the payment")
	}

	// Money paid out moves the balance the other way.
	paid, err := env.uc.RecordPayment(ctx, usecase.RecordPaymentInput{
		PartyID: 1,
		Kind:    domain.PaymentPaid,
		Amount:  dec("5000"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !paid.Balance.Equal(dec("35000")) {
		t.Errorf("expected balance 35000, got %s", paid.Balance)
	}
	if paid.Entry.Side() != domain.SideDebit {
		t.Errorf("paid payment debits the party, got %s", paid.Entry.Side())
	}
}

func TestPostingUseCase_Validation(t *testing.T) {
	tests := []struct {
		name string
		run  func(uc *usecase.PostingUseCase) error
	}{
		{
			name: "sale rejects zero party",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					ItemID: 10, Quantity: dec("1"), UnitRate: dec("50"), Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "sale rejects unknown party",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					PartyID: 99, ItemID: 10, Quantity: dec("1"), UnitRate: dec("50"), Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "sale rejects unknown item",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					PartyID: 1, ItemID: 77, Quantity: dec("1"), UnitRate: dec("50"), Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "sale rejects zero quantity",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					PartyID: 1, ItemID: 10, Quantity: decimal.Zero, UnitRate: dec("50"), Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "sale rejects negative rate",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					PartyID: 1, ItemID: 10, Quantity: dec("1"), UnitRate: dec("-5"), Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "sale rejects unknown payment method",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					PartyID: 1, ItemID: 10, Quantity: dec("1"), UnitRate: dec("50"), Method: domain.PaymentMethod("Bank"),
				})
				return err
			},
		},
		{
			name: "sale rejects far-future timestamp",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordSale(context.Background(), usecase.RecordSaleInput{
					PartyID: 1, ItemID: 10, Quantity: dec("1"), UnitRate: dec("50"), Method: domain.MethodCash,
					OccurredAt: time.Now().Add(25 * time.Hour),
				})
				return err
			},
		},
		{
			name: "purchase rejects negative item id",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordPurchase(context.Background(), usecase.RecordPurchaseInput{
					PartyID: 1, ItemID: -1, Quantity: dec("1"), UnitRate: dec("50"), Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "expense rejects zero amount",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordExpense(context.Background(), usecase.RecordExpenseInput{
					PartyID: 1, Amount: decimal.Zero, Method: domain.MethodCash,
				})
				return err
			},
		},
		{
			name: "payment rejects unknown kind",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordPayment(context.Background(), usecase.RecordPaymentInput{
					PartyID: 1, Kind: domain.PaymentKind("Refund"), Amount: dec("100"),
				})
				return err
			},
		},
		{
			name: "payment rejects excessive amount",
			run: func(uc *usecase.PostingUseCase) error {
				_, err := uc.RecordPayment(context.Background(), usecase.RecordPaymentInput{
					PartyID: 1, Kind: domain.PaymentReceived, Amount: dec("1000000001"),
				})
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newPostingEnv()
			err := tt.run(env.uc)

			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(env.entries.Entries()) != 0 {
				t.Error("no entries must be written on rejection")
			}
		})
	}
}

func TestPostingUseCase_RollbackOnFailure(t *testing.T) {
	env := newPostingEnv()
	ctx := context.Background()

	env.entries.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
		return errors.New("connection reset")
	}

	var committed, rolledBack bool
	env.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc:   func(ctx context.Context) error { committed = true; return nil },
			RollbackFunc: func(ctx context.Context) error { rolledBack = true; return nil },
		}, nil
	}

	_, err := env.uc.RecordSale(ctx, usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("10"),
		UnitRate: dec("50"),
		Method:   domain.MethodCredit,
	})

	var failed *domain.TransactionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected TransactionFailedError, got %v", err)
	}
	if committed {
		t.Error("failed posting must not commit")
	}
	if !rolledBack {
		t.Error("failed posting must roll back")
	}
	if got := len(env.audit.Logs()); got != 0 {
		t.Errorf("failed posting must not audit success, got %d logs", got)
	}
}

func TestPostingUseCase_ConflictSurfacesUnwrapped(t *testing.T) {
	env := newPostingEnv()

	env.entries.CreateFunc = func(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
		return domain.ErrConcurrencyConflict
	}

	_, err := env.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("10"),
		UnitRate: dec("50"),
		Method:   domain.MethodCredit,
	})

	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected ErrConcurrencyConflict, got %v", err)
	}
	var failed *domain.TransactionFailedError
	if errors.As(err, &failed) {
		t.Error("conflicts must surface unwrapped so callers can retry")
	}
}

func TestPostingUseCase_CommitFailure(t *testing.T) {
	env := newPostingEnv()

	env.txMgr.BeginFunc = func(ctx context.Context) (usecase.Transaction, error) {
		return &mocks.MockTransaction{
			CommitFunc: func(ctx context.Context) error { return errors.New("serialization failure") },
		}, nil
	}

	_, err := env.uc.RecordSale(context.Background(), usecase.RecordSaleInput{
		PartyID:  1,
		ItemID:   10,
		Quantity: dec("10"),
		UnitRate: dec("50"),
		Method:   domain.MethodCredit,
	})

	var failed *domain.TransactionFailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected TransactionFailedError, got %v", err)
	}
}
