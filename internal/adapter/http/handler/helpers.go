package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/agriops/farmledger/internal/adapter/http/dto"
	"github.com/agriops/farmledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return http.StatusUnprocessableEntity
	}

	switch {
	case errors.Is(err, domain.ErrPartyNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPaymentNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConcurrencyConflict),
		errors.Is(err, domain.ErrAlreadyReversed),
		errors.Is(err, domain.ErrReversalOfReversal):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidUnitCost),
		errors.Is(err, domain.ErrEntryUnbalanced):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(r *http.Request, key string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, key), 10, 64)
}

// parseTimeQuery parses an RFC 3339 query parameter with a default value.
func parseTimeQuery(r *http.Request, key string, defaultValue time.Time) (time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue, nil
	}
	return time.Parse(time.RFC3339, val)
}
