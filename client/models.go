package client

import "time"

// ContentCheckRequest is the payload sent to the moderation service.
type ContentCheckRequest struct {
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"` // post, comment, profile, stream_title
	AuthorID    string `json:"authorId"`
	Text        string `json:"text,omitempty"`
	MediaURL    string `json:"mediaUrl,omitempty"`
}

// ContentCheckResult is the moderation verdict for one piece of content.
type ContentCheckResult struct {
	ContentID string   `json:"contentId"`
	Allowed   bool     `json:"allowed"`
	Labels    []string `json:"labels,omitempty"`
	Score     float64  `json:"score"`
}

// UserStanding is the moderation standing of a user.
type UserStanding struct {
	UserID     string     `json:"userId"`
	Standing   string     `json:"standing"` // good, warned, restricted, suspended
	Strikes    int        `json:"strikes"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
}

// CallRecord is one telemetry entry for a client call.
type CallRecord struct {
	Endpoint  string        `json:"endpoint"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	CacheHit  bool          `json:"cacheHit"`
	Status    int           `json:"status,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// TelemetryStats aggregates the telemetry buffer.
type TelemetryStats struct {
	Calls        int           `json:"calls"`
	Errors       int           `json:"errors"`
	CacheHits    int           `json:"cacheHits"`
	AvgDuration  time.Duration `json:"avgDuration"`
	ErrorRate    float64       `json:"errorRate"`
	CacheHitRate float64       `json:"cacheHitRate"`
}
