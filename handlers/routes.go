package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/pawfectmatch/platform-backend/middleware"
	"github.com/pawfectmatch/platform-backend/monitoring"
	"github.com/pawfectmatch/platform-backend/utils"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Follows       *FollowHandler
	Notifications *NotificationHandler
	Verifications *VerificationHandler
	Admin         *AdminHandler
	Auth          *middleware.JWTAuthMiddleware
	RateLimit     func(http.Handler) http.Handler
}

// NewRouter assembles the chi router with the full middleware chain.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORSMiddleware())
	r.Use(monitoring.Middleware)
	if deps.RateLimit != nil {
		r.Use(deps.RateLimit)
	}

	// Unauthenticated endpoints
	r.Get("/health", Health)
	r.Method(http.MethodGet, "/metrics", monitoring.Handler())

	// Authenticated member endpoints
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)

		r.Post("/v1/follows", deps.Follows.Follow)
		r.Delete("/v1/follows/{followingID}", deps.Follows.Unfollow)
		r.Get("/v1/follows/status", deps.Follows.Status)
		r.Get("/v1/follows/muted", deps.Follows.Muted)
		r.Post("/v1/follows/{followingID}/mute", deps.Follows.Mute)
		r.Delete("/v1/follows/{followingID}/mute", deps.Follows.Unmute)
		r.Get("/v1/users/{userID}/following", deps.Follows.Following)
		r.Get("/v1/users/{userID}/followers", deps.Follows.Followers)
		r.Get("/v1/users/{userID}/follow-counts", deps.Follows.Counts)
		r.Post("/v1/feed/filter", deps.Follows.FilterFeed)

		r.Get("/v1/notifications", deps.Notifications.List)
		r.Post("/v1/notifications/{id}/read", deps.Notifications.MarkRead)
		r.Post("/v1/notifications/read-all", deps.Notifications.MarkAllRead)

		r.Post("/v1/verifications", deps.Verifications.Submit)
		r.Get("/v1/verifications/me", deps.Verifications.Mine)

		r.Get("/v1/config/{configType}", deps.Admin.GetConfig)

		// Admin-only endpoints
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireAdmin)

			r.Get("/v1/admin/verifications", deps.Admin.PendingVerifications)
			r.Post("/v1/admin/verifications/{id}/review", deps.Admin.ReviewVerification)
			r.Put("/v1/admin/config/{configType}", deps.Admin.PublishConfig)
			r.Get("/v1/admin/events", deps.Admin.ListEvents)
		})
	})

	return r
}

// Health handles GET /health
func Health(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
