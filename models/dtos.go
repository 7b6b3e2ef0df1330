package models

import "encoding/json"

// ErrorResponse is the JSON body returned for all error responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreateFollowRequest represents the request payload for POST /v1/follows
type CreateFollowRequest struct {
	FollowingID string `json:"followingId"`
}

// FilterFeedRequest represents the request payload for POST /v1/feed/filter.
// AuthorIDs is the candidate author set; the response keeps only authors the
// viewer actively follows (muted edges excluded).
type FilterFeedRequest struct {
	AuthorIDs []string `json:"authorIds"`
}

// FilterFeedResponse carries the filtered author set back to the caller.
type FilterFeedResponse struct {
	AuthorIDs []string `json:"authorIds"`
}

// FollowListResponse is the paginated response for following/follower lists.
type FollowListResponse struct {
	Edges  []FollowEdge `json:"edges"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}

// NotificationListResponse is the paginated response for notification lists.
type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Total         int64          `json:"total"`
	Unread        int64          `json:"unread"`
	Limit         int            `json:"limit"`
	Offset        int            `json:"offset"`
}

// SubmitVerificationRequest represents the payload for POST /v1/verifications
type SubmitVerificationRequest struct {
	DocumentType string `json:"documentType"`
}

// ReviewVerificationRequest represents the payload for
// POST /v1/admin/verifications/{id}/review
type ReviewVerificationRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty"`
}

// PublishConfigRequest represents the payload for PUT /v1/admin/config/{configType}
type PublishConfigRequest struct {
	Value json.RawMessage `json:"value"`
}

// AdminEventListResponse is the paginated response for GET /v1/admin/events
type AdminEventListResponse struct {
	Events []AdminEvent `json:"events"`
	Total  int64        `json:"total"`
	Limit  int          `json:"limit"`
	Offset int          `json:"offset"`
}
