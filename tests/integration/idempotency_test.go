package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/adapter/http/dto"
	redisrepo "github.com/agriops/farmledger/internal/adapter/repository/redis"
	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/tests/testutil"
)

func TestIdempotentPosting(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	eng := newEngine(t, engineOptions{idempotencyStore: redisrepo.NewIdempotencyStore(client)})

	newSale := func(partyID, itemID int64) dto.RecordSaleRequest {
		return dto.RecordSaleRequest{
			PartyID:  partyID,
			ItemID:   itemID,
			Quantity: decimal.NewFromInt(10),
			UnitRate: decimal.NewFromInt(50),
			Method:   "Credit",
		}
	}

	t.Run("duplicate key replays the first response", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		party := eng.db.CreateTestParty(ctx, "Hamid Dairy")
		item := eng.db.CreateTestItem(ctx, "Raw Milk", domain.ItemRaw, decimal.NewFromInt(100), decimal.NewFromInt(30))
		sale := newSale(party.ID, item.ID)

		headers := map[string]string{"Idempotency-Key": "post-" + testutil.GenerateID()}

		first := eng.postJSON(t, "/api/v1/sales", sale, headers)
		if first.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, first.Code, first.Body.String())
		}

		second := eng.postJSON(t, "/api/v1/sales", sale, headers)
		if second.Header().Get("X-Idempotency-Replay") != "true" {
			t.Error("expected the replay header on the duplicate")
		}
		if second.Body.String() != first.Body.String() {
			t.Errorf("replay should return the original body\nfirst:  %s\nsecond: %s",
				first.Body.String(), second.Body.String())
		}

		// One posting, not two.
		stocked, err := eng.itemRepo.GetByID(ctx, item.ID)
		if err != nil {
			t.Fatalf("failed to load item: %v", err)
		}
		if !stocked.Quantity.Equal(decimal.NewFromInt(90)) {
			t.Errorf("expected quantity 90, got %s", stocked.Quantity)
		}

		balance, err := eng.entryRepo.SumBalance(ctx, party.ID)
		if err != nil {
			t.Fatalf("failed to sum balance: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(500)) {
			t.Errorf("expected balance 500, got %s", balance)
		}
	})

	t.Run("fresh keys post independently", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		party := eng.db.CreateTestParty(ctx, "Hamid Dairy")
		item := eng.db.CreateTestItem(ctx, "Raw Milk", domain.ItemRaw, decimal.NewFromInt(100), decimal.NewFromInt(30))
		sale := newSale(party.ID, item.ID)

		for i := 0; i < 2; i++ {
			headers := map[string]string{"Idempotency-Key": "post-" + testutil.GenerateID()}
			if w := eng.postJSON(t, "/api/v1/sales", sale, headers); w.Code != http.StatusCreated {
				t.Fatalf("posting %d failed: %d: %s", i, w.Code, w.Body.String())
			}
		}

		balance, err := eng.entryRepo.SumBalance(ctx, party.ID)
		if err != nil {
			t.Fatalf("failed to sum balance: %v", err)
		}
		if !balance.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("expected balance 1000, got %s", balance)
		}
	})

	t.Run("failed postings are retried for real", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		party := eng.db.CreateTestParty(ctx, "Bulk Buyer")
		item := eng.db.CreateTestItem(ctx, "Wheat", domain.ItemRaw, decimal.NewFromInt(5), decimal.NewFromInt(25))

		headers := map[string]string{"Idempotency-Key": "post-" + testutil.GenerateID()}

		over := newSale(party.ID, item.ID)
		if w := eng.postJSON(t, "/api/v1/sales", over, headers); w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected status %d, got %d: %s", http.StatusUnprocessableEntity, w.Code, w.Body.String())
		}

		// The key was not burned by the failure; a corrected retry lands.
		fixed := over
		fixed.Quantity = decimal.NewFromInt(5)

		w := eng.postJSON(t, "/api/v1/sales", fixed, headers)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
		}
		if w.Header().Get("X-Idempotency-Replay") == "true" {
			t.Error("a failed attempt must not be replayed")
		}
	})
}
