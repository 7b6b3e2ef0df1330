package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/middleware"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/pawfectmatch/platform-backend/services"
	"github.com/pawfectmatch/platform-backend/utils"
)

// AdminHandler handles the admin console API: verification review, config
// broadcast and the admin event feed.
type AdminHandler struct {
	verifications *services.VerificationService
	configs       *services.ConfigService
	adminSync     *services.AdminSyncService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(verifications *services.VerificationService, configs *services.ConfigService, adminSync *services.AdminSyncService) *AdminHandler {
	return &AdminHandler{
		verifications: verifications,
		configs:       configs,
		adminSync:     adminSync,
	}
}

// PendingVerifications handles GET /v1/admin/verifications
func (h *AdminHandler) PendingVerifications(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)

	requests, total, err := h.verifications.ListPending(r.Context(), limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

// ReviewVerification handles POST /v1/admin/verifications/{id}/review
func (h *AdminHandler) ReviewVerification(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request id", err)
		return
	}

	var req models.ReviewVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	reviewerID := middleware.UserIDFromContext(r.Context())
	request, err := h.verifications.Review(r.Context(), id, reviewerID, req.Approve, req.Reason)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, request)
}

// PublishConfig handles PUT /v1/admin/config/{configType}
func (h *AdminHandler) PublishConfig(w http.ResponseWriter, r *http.Request) {
	configType := chi.URLParam(r, "configType")

	var req models.PublishConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	updatedBy := middleware.UserIDFromContext(r.Context())
	entry, err := h.configs.Publish(r.Context(), configType, req.Value, updatedBy)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entry)
}

// GetConfig handles GET /v1/config/{configType}
func (h *AdminHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	configType := chi.URLParam(r, "configType")

	entry, err := h.configs.Get(r.Context(), configType)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entry)
}

// ListEvents handles GET /v1/admin/events
func (h *AdminHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	eventType := r.URL.Query().Get("eventType")

	events, total, err := h.adminSync.ListEvents(r.Context(), eventType, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.AdminEventListResponse{
		Events: events, Total: total, Limit: limit, Offset: offset,
	})
}
