package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/agriops/farmledger/internal/adapter/http/dto"
	"github.com/agriops/farmledger/internal/domain"
	"github.com/agriops/farmledger/internal/usecase"
)

// InventoryService defines the behavior needed by InventoryHandler.
type InventoryService interface {
	GetItem(ctx context.Context, itemID int64) (*domain.InventoryItem, error)
	RecordProduction(ctx context.Context, input usecase.RecordProductionInput) (*usecase.ProductionResult, error)
}

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	inventoryUC InventoryService
	retrier     usecase.Retrier
}

// NewInventoryHandler creates a new InventoryHandler. The retrier may be nil.
func NewInventoryHandler(inventoryUC InventoryService, retrier usecase.Retrier) *InventoryHandler {
	return &InventoryHandler{inventoryUC: inventoryUC, retrier: retrier}
}

// GetItem retrieves an inventory item by ID.
func (h *InventoryHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := parseIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item ID", err.Error())
		return
	}

	item, err := h.inventoryUC.GetItem(r.Context(), itemID)
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to get item", err.Error())

		return
	}

	writeJSON(w, http.StatusOK, dto.ItemFromDomain(item))
}

// RecordProduction posts a production run.
func (h *InventoryHandler) RecordProduction(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordProductionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input := req.ToUseCaseInput()

	var result *usecase.ProductionResult
	run := func() error {
		var err error
		result, err = h.inventoryUC.RecordProduction(r.Context(), input)
		return err
	}

	var err error
	if h.retrier != nil {
		err = h.retrier.Retry(r.Context(), run)
	} else {
		err = run()
	}
	if err != nil {
		status := mapDomainError(err)
		writeError(w, status, "failed to record production", err.Error())

		return
	}

	writeJSON(w, http.StatusCreated, dto.ProductionFromResult(result))
}
