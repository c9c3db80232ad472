package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agriops/farmledger/internal/adapter/http/dto"
	"github.com/agriops/farmledger/internal/usecase"
)

// PostingService defines the behavior needed by PostingHandler.
type PostingService interface {
	RecordSale(ctx context.Context, input usecase.RecordSaleInput) (*usecase.PostingResult, error)
	RecordPurchase(ctx context.Context, input usecase.RecordPurchaseInput) (*usecase.PostingResult, error)
	RecordExpense(ctx context.Context, input usecase.RecordExpenseInput) (*usecase.PostingResult, error)
	RecordPayment(ctx context.Context, input usecase.RecordPaymentInput) (*usecase.PaymentResult, error)
}

// PostingHandler handles posting-related HTTP requests. With a retrier
// configured, postings that lose a row lock to a concurrent writer are
// replayed instead of surfacing a conflict to the client.
type PostingHandler struct {
	postingUC PostingService
	retrier   usecase.Retrier
}

// NewPostingHandler creates a new PostingHandler. The retrier may be nil.
func NewPostingHandler(postingUC PostingService, retrier usecase.Retrier) *PostingHandler {
	return &PostingHandler{postingUC: postingUC, retrier: retrier}
}

func (h *PostingHandler) post(ctx context.Context, operation func() error) error {
	if h.retrier == nil {
		return operation()
	}
	return h.retrier.Retry(ctx, operation)
}

// RecordSale posts a sale.
func (h *PostingHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input := req.ToUseCaseInput()

	var result *usecase.PostingResult
	err := h.post(r.Context(), func() error {
		var err error
		result, err = h.postingUC.RecordSale(r.Context(), input)
		return err
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record sale", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromResult(result))
}

// RecordPurchase posts a purchase.
func (h *PostingHandler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input := req.ToUseCaseInput()

	var result *usecase.PostingResult
	err := h.post(r.Context(), func() error {
		var err error
		result, err = h.postingUC.RecordPurchase(r.Context(), input)
		return err
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record purchase", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromResult(result))
}

// RecordExpense posts an operating expense.
func (h *PostingHandler) RecordExpense(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input := req.ToUseCaseInput()

	var result *usecase.PostingResult
	err := h.post(r.Context(), func() error {
		var err error
		result, err = h.postingUC.RecordExpense(r.Context(), input)
		return err
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record expense", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PostingFromResult(result))
}

// RecordPayment posts a standalone settlement against a party.
func (h *PostingHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input := req.ToUseCaseInput()

	var result *usecase.PaymentResult
	err := h.post(r.Context(), func() error {
		var err error
		result, err = h.postingUC.RecordPayment(r.Context(), input)
		return err
	})
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record payment", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.PaymentFromResult(result))
}
