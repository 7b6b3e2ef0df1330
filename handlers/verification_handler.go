package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/pawfectmatch/platform-backend/middleware"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/pawfectmatch/platform-backend/services"
	"github.com/pawfectmatch/platform-backend/utils"
)

// VerificationHandler handles the member-facing verification endpoints.
type VerificationHandler struct {
	service *services.VerificationService
}

// NewVerificationHandler creates a new verification handler.
func NewVerificationHandler(service *services.VerificationService) *VerificationHandler {
	return &VerificationHandler{service: service}
}

// Submit handles POST /v1/verifications
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	request, err := h.service.Submit(r.Context(), userID, req.DocumentType)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, request)
}

// Mine handles GET /v1/verifications/me
func (h *VerificationHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	requests, err := h.service.GetForUser(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, requests)
}
