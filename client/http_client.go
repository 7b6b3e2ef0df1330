package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// httpClient implements ModerationClient using HTTP calls to the moderation
// service with retry, caching and telemetry.
type httpClient struct {
	baseURL    string
	httpClient *http.Client
	opts       Options
	cache      *ttlCache
	telemetry  *telemetryBuffer
}

func newHTTPClient(baseURL string, opts Options) *httpClient {
	return &httpClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		opts:       opts,
		cache:      newTTLCache(opts.CacheTTL),
		telemetry:  newTelemetryBuffer(opts.TelemetrySize),
	}
}

// retryableStatus reports whether a response status is worth retrying.
func retryableStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// CheckContent classifies a piece of content. Verdicts are not cached: the
// same content id can be re-checked after edits.
func (c *httpClient) CheckContent(ctx context.Context, req ContentCheckRequest) (*ContentCheckResult, error) {
	if req.ContentID == "" || req.AuthorID == "" {
		return nil, fmt.Errorf("contentId and authorId are required")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content check request: %w", err)
	}

	data, err := c.doWithRetry(ctx, http.MethodPost, "/v1/moderation/check", body, "")
	if err != nil {
		return nil, err
	}

	var result ContentCheckResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode content check result: %w", err)
	}
	return &result, nil
}

// GetUserStanding fetches the moderation standing for a user, served from
// the TTL cache when fresh.
func (c *httpClient) GetUserStanding(ctx context.Context, userID string) (*UserStanding, error) {
	if userID == "" {
		return nil, fmt.Errorf("userId is required")
	}

	path := "/v1/moderation/users/" + userID + "/standing"
	data, err := c.doWithRetry(ctx, http.MethodGet, path, nil, "standing:"+userID)
	if err != nil {
		return nil, err
	}

	var standing UserStanding
	if err := json.Unmarshal(data, &standing); err != nil {
		return nil, fmt.Errorf("failed to decode user standing: %w", err)
	}
	return &standing, nil
}

// Stats returns aggregated telemetry for calls made through the client.
func (c *httpClient) Stats() TelemetryStats {
	return c.telemetry.stats()
}

// doWithRetry performs the request with exponential backoff on retryable
// statuses and transport errors. A non-empty cacheKey serves and populates
// the TTL cache.
func (c *httpClient) doWithRetry(ctx context.Context, method, path string, body []byte, cacheKey string) ([]byte, error) {
	start := time.Now()
	endpoint := method + " " + path

	if cacheKey != "" {
		if cached := c.cache.get(cacheKey); cached != nil {
			c.telemetry.record(CallRecord{
				Endpoint:  endpoint,
				Duration:  time.Since(start),
				Success:   true,
				CacheHit:  true,
				Timestamp: start,
			})
			return cached, nil
		}
	}

	var lastErr error
	var lastStatus int

	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			// 250ms, 500ms, 1s, ... capped by the caller's context.
			backoff := c.opts.BackoffBase << (attempt - 1)
			select {
			case <-ctx.Done():
				c.recordFailure(endpoint, start, lastStatus)
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("Retrying moderation service call",
				"endpoint", endpoint, "attempt", attempt, "backoff", backoff)
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			c.recordFailure(endpoint, start, 0)
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Transport errors are retryable.
			lastErr = err
			continue
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		lastStatus = resp.StatusCode

		if retryableStatus(resp.StatusCode) {
			lastErr = fmt.Errorf("moderation service returned %d", resp.StatusCode)
			continue
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		if resp.StatusCode >= 400 {
			c.recordFailure(endpoint, start, resp.StatusCode)
			return nil, fmt.Errorf("moderation service returned %d: %s", resp.StatusCode, string(data))
		}

		if cacheKey != "" {
			c.cache.set(cacheKey, data)
		}
		c.telemetry.record(CallRecord{
			Endpoint:  endpoint,
			Duration:  time.Since(start),
			Success:   true,
			Status:    resp.StatusCode,
			Timestamp: start,
		})
		return data, nil
	}

	c.recordFailure(endpoint, start, lastStatus)
	return nil, fmt.Errorf("moderation service call failed after %d attempts: %w", c.opts.MaxRetries+1, lastErr)
}

func (c *httpClient) recordFailure(endpoint string, start time.Time, status int) {
	c.telemetry.record(CallRecord{
		Endpoint:  endpoint,
		Duration:  time.Since(start),
		Success:   false,
		Status:    status,
		Timestamp: start,
	})
}
