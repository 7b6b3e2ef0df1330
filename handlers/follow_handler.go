package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pawfectmatch/platform-backend/middleware"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/pawfectmatch/platform-backend/services"
	"github.com/pawfectmatch/platform-backend/utils"
)

// FollowHandler handles HTTP requests for the follow graph.
type FollowHandler struct {
	service *services.FollowService
}

// NewFollowHandler creates a new follow handler.
func NewFollowHandler(service *services.FollowService) *FollowHandler {
	return &FollowHandler{service: service}
}

// Follow handles POST /v1/follows
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	var req models.CreateFollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	followerID := middleware.UserIDFromContext(r.Context())
	edge, err := h.service.Follow(r.Context(), followerID, req.FollowingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, edge)
}

// Unfollow handles DELETE /v1/follows/{followingID}
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.UserIDFromContext(r.Context())
	followingID := chi.URLParam(r, "followingID")

	if err := h.service.Unfollow(r.Context(), followerID, followingID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /v1/follows/status?followingId=...
func (h *FollowHandler) Status(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.UserIDFromContext(r.Context())
	followingID := r.URL.Query().Get("followingId")
	if followingID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "followingId is required", nil)
		return
	}

	following, err := h.service.IsFollowing(r.Context(), followerID, followingID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"following": following})
}

// Following handles GET /v1/users/{userID}/following
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, offset := parsePagination(r)

	edges, total, err := h.service.GetFollowing(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.FollowListResponse{
		Edges: edges, Total: total, Limit: limit, Offset: offset,
	})
}

// Followers handles GET /v1/users/{userID}/followers
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit, offset := parsePagination(r)

	edges, total, err := h.service.GetFollowers(r.Context(), userID, limit, offset)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.FollowListResponse{
		Edges: edges, Total: total, Limit: limit, Offset: offset,
	})
}

// Counts handles GET /v1/users/{userID}/follow-counts
func (h *FollowHandler) Counts(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	counts, err := h.service.Counts(r.Context(), userID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, counts)
}

// FilterFeed handles POST /v1/feed/filter
func (h *FollowHandler) FilterFeed(w http.ResponseWriter, r *http.Request) {
	var req models.FilterFeedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	viewerID := middleware.UserIDFromContext(r.Context())
	authors, err := h.service.FilterAuthorsByFollowed(r.Context(), viewerID, req.AuthorIDs)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, models.FilterFeedResponse{AuthorIDs: authors})
}

// Mute handles POST /v1/follows/{followingID}/mute
func (h *FollowHandler) Mute(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.UserIDFromContext(r.Context())
	followingID := chi.URLParam(r, "followingID")

	if err := h.service.Mute(r.Context(), followerID, followingID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Muted handles GET /v1/follows/muted
func (h *FollowHandler) Muted(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.UserIDFromContext(r.Context())

	ids, err := h.service.MutedIDs(r.Context(), followerID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string][]string{"mutedIds": ids})
}

// Unmute handles DELETE /v1/follows/{followingID}/mute
func (h *FollowHandler) Unmute(w http.ResponseWriter, r *http.Request) {
	followerID := middleware.UserIDFromContext(r.Context())
	followingID := chi.URLParam(r, "followingID")

	if err := h.service.Unmute(r.Context(), followerID, followingID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
