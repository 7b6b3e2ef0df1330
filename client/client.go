// Package client provides the outbound HTTP client used to call sibling
// platform services. It layers a TTL cache, exponential-backoff retry and a
// bounded telemetry buffer over net/http.
package client

import (
	"context"
	"log/slog"
	"time"
)

// ModerationClient calls the moderation platform service.
// The interface allows for easy mocking in tests and different
// implementations.
type ModerationClient interface {
	// CheckContent asks the moderation service to classify a piece of
	// user-generated content.
	CheckContent(ctx context.Context, req ContentCheckRequest) (*ContentCheckResult, error)

	// GetUserStanding fetches the moderation standing for a user. Results
	// are cached with a short TTL.
	GetUserStanding(ctx context.Context, userID string) (*UserStanding, error)

	// Stats returns aggregated telemetry for calls made through the client.
	Stats() TelemetryStats
}

// Options tune the HTTP client behavior. Zero values select the defaults.
type Options struct {
	Timeout       time.Duration
	MaxRetries    int
	BackoffBase   time.Duration
	CacheTTL      time.Duration
	TelemetrySize int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = 5 * time.Second
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = 3
	}
	if o.BackoffBase <= 0 {
		o.BackoffBase = 250 * time.Millisecond
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
	if o.TelemetrySize <= 0 {
		o.TelemetrySize = 256
	}
	return o
}

// NewModerationClient creates a new moderation client. If baseURL is empty,
// returns a no-op client that approves everything; this keeps the platform
// working when the moderation service is not configured.
func NewModerationClient(baseURL string, opts Options) ModerationClient {
	if baseURL == "" {
		slog.Info("Moderation service URL not provided, using no-op client")
		return &noOpClient{}
	}
	return newHTTPClient(baseURL, opts.withDefaults())
}
