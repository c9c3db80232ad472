package dto

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

func saleInputEqual(a, b usecase.RecordSaleInput) bool {
	return a.PartyID == b.PartyID &&
		a.ItemID == b.ItemID &&
		a.FarmID == b.FarmID &&
		a.Quantity.Equal(b.Quantity) &&
		a.UnitRate.Equal(b.UnitRate) &&
		a.Method == b.Method &&
		a.ExchangeRate.Equal(b.ExchangeRate) &&
		a.Note == b.Note &&
		a.OccurredAt.Equal(b.OccurredAt)
}

func TestRecordSaleRequest_ToUseCaseInput(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		request *RecordSaleRequest
		want    usecase.RecordSaleInput
	}{
		{
			name: "credit sale with explicit time",
			request: &RecordSaleRequest{
				PartyID:      7,
				ItemID:       3,
				FarmID:       1,
				Quantity:     decimal.RequireFromString("10"),
				UnitRate:     decimal.RequireFromString("50.25"),
				Method:       "Credit",
				ExchangeRate: decimal.RequireFromString("278.50"),
				Note:         "gate sale",
				OccurredAt:   &now,
			},
			want: usecase.RecordSaleInput{
				PartyID:      7,
				ItemID:       3,
				FarmID:       1,
				Quantity:     decimal.RequireFromString("10"),
				UnitRate:     decimal.RequireFromString("50.25"),
				Method:       domain.MethodCredit,
				ExchangeRate: decimal.RequireFromString("278.50"),
				Note:         "gate sale",
				OccurredAt:   now,
			},
		},
		{
			name: "omitted time stays zero for the use case to default",
			request: &RecordSaleRequest{
				PartyID:  7,
				Quantity: decimal.RequireFromString("2"),
				UnitRate: decimal.RequireFromString("30"),
				Method:   "Cash",
			},
			want: usecase.RecordSaleInput{
				PartyID:  7,
				Quantity: decimal.RequireFromString("2"),
				UnitRate: decimal.RequireFromString("30"),
				Method:   domain.MethodCash,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.request.ToUseCaseInput()
			if !saleInputEqual(got, tt.want) {
				t.Fatalf("ToUseCaseInput() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordPaymentRequest_ToUseCaseInput(t *testing.T) {
	paidAt := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	req := &RecordPaymentRequest{
		PartyID:      12,
		Kind:         "Received",
		Amount:       decimal.RequireFromString("5000"),
		ExchangeRate: decimal.RequireFromString("280"),
		Note:         "partial settlement",
		PaidAt:       &paidAt,
	}

	got := req.ToUseCaseInput()

	if got.PartyID != 12 {
		t.Errorf("PartyID = %d, want 12", got.PartyID)
	}
	if got.Kind != domain.PaymentReceived {
		t.Errorf("Kind = %q, want %q", got.Kind, domain.PaymentReceived)
	}
	if !got.Amount.Equal(decimal.RequireFromString("5000")) {
		t.Errorf("Amount = %s, want 5000", got.Amount)
	}
	if !got.PaidAt.Equal(paidAt) {
		t.Errorf("PaidAt = %s, want %s", got.PaidAt, paidAt)
	}

	req.PaidAt = nil
	if got := req.ToUseCaseInput(); !got.PaidAt.IsZero() {
		t.Errorf("PaidAt = %s, want zero when omitted", got.PaidAt)
	}
}

func TestRecordProductionRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordProductionRequest{
		OutputItemID:   9,
		FarmID:         2,
		OutputQuantity: decimal.RequireFromString("40"),
		ExtraCost:      decimal.RequireFromString("150"),
		Components: []ProductionComponentRequest{
			{ItemID: 3, Quantity: decimal.RequireFromString("40")},
			{ItemID: 5, Quantity: decimal.RequireFromString("40")},
		},
	}

	got := req.ToUseCaseInput()

	if got.OutputItemID != 9 || got.FarmID != 2 {
		t.Errorf("output item/farm = %d/%d, want 9/2", got.OutputItemID, got.FarmID)
	}
	if !got.ExtraCost.Equal(decimal.RequireFromString("150")) {
		t.Errorf("ExtraCost = %s, want 150", got.ExtraCost)
	}
	if len(got.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(got.Components))
	}
	if got.Components[0].ItemID != 3 || got.Components[1].ItemID != 5 {
		t.Errorf("component item ids = %d, %d, want 3, 5", got.Components[0].ItemID, got.Components[1].ItemID)
	}
	if !got.Components[1].Quantity.Equal(decimal.RequireFromString("40")) {
		t.Errorf("component quantity = %s, want 40", got.Components[1].Quantity)
	}
}

func TestRecordSaleRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     *RecordSaleRequest
		expectError bool
	}{
		{
			name: "valid",
			request: &RecordSaleRequest{
				PartyID:  7,
				Quantity: decimal.RequireFromString("10"),
				UnitRate: decimal.RequireFromString("50"),
				Method:   "Cash",
			},
		},
		{
			name: "missing party",
			request: &RecordSaleRequest{
				Quantity: decimal.RequireFromString("10"),
				UnitRate: decimal.RequireFromString("50"),
				Method:   "Cash",
			},
			expectError: true,
		},
		{
			name: "missing method",
			request: &RecordSaleRequest{
				PartyID:  7,
				Quantity: decimal.RequireFromString("10"),
				UnitRate: decimal.RequireFromString("50"),
			},
			expectError: true,
		},
		{
			name: "unknown method",
			request: &RecordSaleRequest{
				PartyID:  7,
				Quantity: decimal.RequireFromString("10"),
				UnitRate: decimal.RequireFromString("50"),
				Method:   "Barter",
			},
			expectError: true,
		},
		{
			name: "note too long",
			request: &RecordSaleRequest{
				PartyID:  7,
				Quantity: decimal.RequireFromString("10"),
				UnitRate: decimal.RequireFromString("50"),
				Method:   "Cash",
				Note:     strings.Repeat("x", 501),
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectError && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecordExpenseRequest_Validate(t *testing.T) {
	// Expenses may be booked without a counterparty.
	req := &RecordExpenseRequest{
		Amount:   decimal.RequireFromString("1200"),
		Category: "Fuel",
		Method:   "Cash",
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Category = ""
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for missing category, got nil")
	}
}

func TestRecordPaymentRequest_Validate(t *testing.T) {
	req := &RecordPaymentRequest{
		PartyID: 12,
		Kind:    "Received",
		Amount:  decimal.RequireFromString("5000"),
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Kind = "Refunded"
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for unknown kind, got nil")
	}
}

func TestRecordProductionRequest_Validate(t *testing.T) {
	req := &RecordProductionRequest{
		OutputItemID:   9,
		OutputQuantity: decimal.RequireFromString("40"),
		Components: []ProductionComponentRequest{
			{ItemID: 3, Quantity: decimal.RequireFromString("40")},
		},
	}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Components = nil
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for empty components, got nil")
	}

	req.Components = []ProductionComponentRequest{{Quantity: decimal.RequireFromString("40")}}
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for component without item, got nil")
	}
}

func TestReverseEntryRequest_Validate(t *testing.T) {
	req := &ReverseEntryRequest{Reason: "duplicate posting"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req.Reason = ""
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for missing reason, got nil")
	}
}
