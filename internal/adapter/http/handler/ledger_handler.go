package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/agriops/farmledger/internal/adapter/http/dto"
	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	GetBalance(ctx context.Context, partyID int64) (decimal.Decimal, error)
	GetStatement(ctx context.Context, partyID int64, from, to time.Time) (*usecase.Statement, error)
	ReverseEntry(ctx context.Context, entryID, reason string) (*domain.LedgerEntry, decimal.Decimal, error)
	CheckConsistency(ctx context.Context) (*usecase.ConsistencyReport, error)
}

// LedgerHandler handles balance, statement and ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// GetBalance returns a party's derived balance.
func (h *LedgerHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid party ID", err.Error())
		return
	}

	balance, err := h.ledgerUC.GetBalance(r.Context(), partyID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get balance", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		PartyID: partyID,
		Balance: balance,
	})
}

// GetStatement returns a party's entries over a date range with running
// balances. from and to are RFC 3339 query parameters; omitting from starts
// at the first entry, omitting to ends at now.
func (h *LedgerHandler) GetStatement(w http.ResponseWriter, r *http.Request) {
	partyID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid party ID", err.Error())
		return
	}

	from, err := parseTimeQuery(r, "from", time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}

	to, err := parseTimeQuery(r, "to", time.Time{})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}

	statement, err := h.ledgerUC.GetStatement(r.Context(), partyID, from, to)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get statement", err.Error())

		return
	}

	lines, err := statement.Collect(r.Context())
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to read statement", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromLines(
		partyID, from, to,
		statement.OpeningBalance(), statement.ClosingBalance(), lines,
	))
}

// ReverseEntry posts a compensating entry for an existing one.
func (h *LedgerHandler) ReverseEntry(w http.ResponseWriter, r *http.Request) {
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		writeError(w, http.StatusBadRequest, "missing entry ID", "")
		return
	}

	var req dto.ReverseEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	reversal, balance, err := h.ledgerUC.ReverseEntry(r.Context(), entryID, req.Reason)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to reverse entry", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"entry":   dto.EntryFromDomain(reversal),
		"balance": balance,
	})
}

// CheckConsistency verifies ledger-wide invariants. An inconsistent ledger
// answers 409 so probes and scripts fail loudly.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledgerUC.CheckConsistency(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to check consistency", err.Error())
		return
	}

	status := http.StatusOK
	if !report.Consistent() {
		status = http.StatusConflict
	}

	writeJSON(w, status, dto.ConsistencyFromReport(report))
}
