package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/adapter/http/dto"
	"github.com/agriops/farmledger/internal/domain"
)

func TestPartyStatement(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()
	eng := newEngine(t, engineOptions{})

	// Three postings against one party: two credit sales and a part payment.
	seedLedger := func(t *testing.T) *domain.Party {
		t.Helper()

		party := eng.db.CreateTestParty(ctx, "Hamid Dairy")
		item := eng.db.CreateTestItem(ctx, "Raw Milk", domain.ItemRaw, decimal.NewFromInt(100), decimal.NewFromInt(6))

		for _, qty := range []int64{10, 5} {
			req := dto.RecordSaleRequest{
				PartyID:  party.ID,
				ItemID:   item.ID,
				Quantity: decimal.NewFromInt(qty),
				UnitRate: decimal.NewFromInt(10),
				Method:   "Credit",
			}
			if w := eng.postJSON(t, "/api/v1/sales", req, nil); w.Code != http.StatusCreated {
				t.Fatalf("failed to post sale: %d: %s", w.Code, w.Body.String())
			}
		}

		payment := dto.RecordPaymentRequest{
			PartyID: party.ID,
			Kind:    "Received",
			Amount:  decimal.NewFromInt(30),
		}
		if w := eng.postJSON(t, "/api/v1/payments", payment, nil); w.Code != http.StatusCreated {
			t.Fatalf("failed to post payment: %d: %s", w.Code, w.Body.String())
		}

		return party
	}

	t.Run("running balances accumulate in posting order", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		party := seedLedger(t)

		w := eng.getJSON(t, fmt.Sprintf("/api/v1/parties/%d/statement", party.ID))
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.StatementResponse
		decode(t, w, &resp)

		if !resp.OpeningBalance.IsZero() {
			t.Errorf("expected opening 0, got %s", resp.OpeningBalance)
		}
		if len(resp.Lines) != 3 {
			t.Fatalf("expected 3 lines, got %d", len(resp.Lines))
		}

		want := []int64{100, 150, 120}
		for i, line := range resp.Lines {
			if !line.RunningBalance.Equal(decimal.NewFromInt(want[i])) {
				t.Errorf("line %d: expected running balance %d, got %s", i, want[i], line.RunningBalance)
			}
		}

		if !resp.ClosingBalance.Equal(decimal.NewFromInt(120)) {
			t.Errorf("expected closing 120, got %s", resp.ClosingBalance)
		}
		if resp.Lines[2].Entry.ReferenceType != string(domain.ReferencePayment) {
			t.Errorf("expected last line to be the payment, got %s", resp.Lines[2].Entry.ReferenceType)
		}

		// Entries are immutable, so a re-read with no postings in between
		// must reproduce the statement exactly.
		again := eng.getJSON(t, fmt.Sprintf("/api/v1/parties/%d/statement", party.ID))
		if again.Code != http.StatusOK {
			t.Fatalf("expected status %d on re-read, got %d: %s", http.StatusOK, again.Code, again.Body.String())
		}
		if again.Body.String() != w.Body.String() {
			t.Errorf("statement changed between reads:\nfirst:  %s\nsecond: %s", w.Body.String(), again.Body.String())
		}
	})

	t.Run("window after the last entry carries the balance as opening", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		party := seedLedger(t)

		from := time.Now().UTC().Add(time.Hour)
		to := from.Add(time.Hour)
		path := fmt.Sprintf("/api/v1/parties/%d/statement?from=%s&to=%s", party.ID,
			url.QueryEscape(from.Format(time.RFC3339)), url.QueryEscape(to.Format(time.RFC3339)))

		w := eng.getJSON(t, path)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
		}

		var resp dto.StatementResponse
		decode(t, w, &resp)

		if len(resp.Lines) != 0 {
			t.Errorf("expected no lines, got %d", len(resp.Lines))
		}
		if !resp.OpeningBalance.Equal(decimal.NewFromInt(120)) {
			t.Errorf("expected opening 120, got %s", resp.OpeningBalance)
		}
		if !resp.ClosingBalance.Equal(decimal.NewFromInt(120)) {
			t.Errorf("expected closing 120, got %s", resp.ClosingBalance)
		}
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		party := seedLedger(t)

		from := time.Now().UTC()
		to := from.Add(-time.Hour)
		path := fmt.Sprintf("/api/v1/parties/%d/statement?from=%s&to=%s", party.ID,
			url.QueryEscape(from.Format(time.RFC3339)), url.QueryEscape(to.Format(time.RFC3339)))

		w := eng.getJSON(t, path)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status %d, got %d: %s", http.StatusBadRequest, w.Code, w.Body.String())
		}
	})

	t.Run("unknown party answers 404", func(t *testing.T) {
		eng.db.TruncateAll(ctx)

		w := eng.getJSON(t, "/api/v1/parties/999999/statement")
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
		}

		w = eng.getJSON(t, "/api/v1/parties/999999/balance")
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status %d, got %d: %s", http.StatusNotFound, w.Code, w.Body.String())
		}
	})
}
