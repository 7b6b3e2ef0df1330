// Package handlers contains the HTTP layer: request decoding, service
// dispatch and JSON responses.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/pawfectmatch/platform-backend/services"
	"github.com/pawfectmatch/platform-backend/utils"
)

// parsePagination reads limit/offset query parameters with defaults.
func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 1000 {
			limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// respondServiceError maps domain errors to HTTP status codes.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case services.IsValidationError(err):
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "Not found", nil)
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(w, http.StatusConflict, "Conflict", err)
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error", nil)
	}
}
