package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pawfectmatch/platform-backend/utils"
)

// RateLimiter implements a simple in-memory sliding-window rate limiter.
type RateLimiter struct {
	requests map[string][]time.Time
	mutex    sync.Mutex
	maxReqs  int
	window   time.Duration
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		requests: make(map[string][]time.Time),
		maxReqs:  maxRequests,
		window:   window,
	}
}

// IsAllowed checks if a request from the given IP is allowed.
func (rl *RateLimiter) IsAllowed(clientIP string) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()

	// Drop requests that fell out of the window
	var validRequests []time.Time
	for _, reqTime := range rl.requests[clientIP] {
		if now.Sub(reqTime) < rl.window {
			validRequests = append(validRequests, reqTime)
		}
	}

	if len(validRequests) >= rl.maxReqs {
		rl.requests[clientIP] = validRequests
		return false
	}

	validRequests = append(validRequests, now)
	rl.requests[clientIP] = validRequests

	// Keep the map from growing without bound across many idle IPs
	if len(rl.requests) > 10000 {
		for ip, reqs := range rl.requests {
			if len(reqs) > 0 && now.Sub(reqs[len(reqs)-1]) > rl.window {
				delete(rl.requests, ip)
			}
		}
	}

	return true
}

// RateLimitMiddleware creates a rate limiting middleware.
func RateLimitMiddleware(maxRequests int, window time.Duration) func(http.Handler) http.Handler {
	limiter := NewRateLimiter(maxRequests, window)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := getClientIP(r)

			if !limiter.IsAllowed(clientIP) {
				slog.Warn("Rate limit exceeded", "ip", clientIP, "path", r.URL.Path)
				utils.RespondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr
	ip := r.RemoteAddr
	if colon := strings.LastIndex(ip, ":"); colon != -1 {
		ip = ip[:colon]
	}
	return ip
}
