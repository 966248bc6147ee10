package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/mfalcon/shop-api/internal/httpx"
	"github.com/mfalcon/shop-api/internal/services"
	"github.com/mfalcon/shop-api/internal/store"
)

// writeStoreError maps the store/workflow error taxonomy onto HTTP results.
// Every operation failure becomes a caller-visible response here; nothing is
// swallowed.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, store.ErrInvalidReference):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_reference", nil)
	case errors.Is(err, store.ErrConstraintViolation):
		httpx.JSONError(w, http.StatusConflict, "constraint_violation", nil)
	case errors.Is(err, store.ErrUnavailable):
		httpx.JSONError(w, http.StatusServiceUnavailable, "unavailable", nil)
	case errors.Is(err, services.ErrStatusRequired):
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"status": "required"})
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

// pathID parses the {id} route segment.
func pathID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
