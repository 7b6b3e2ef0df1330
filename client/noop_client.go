package client

import "context"

// noOpClient is used when the moderation service is not configured. It
// approves all content and reports every user in good standing.
type noOpClient struct{}

func (n *noOpClient) CheckContent(ctx context.Context, req ContentCheckRequest) (*ContentCheckResult, error) {
	return &ContentCheckResult{ContentID: req.ContentID, Allowed: true}, nil
}

func (n *noOpClient) GetUserStanding(ctx context.Context, userID string) (*UserStanding, error) {
	return &UserStanding{UserID: userID, Standing: "good"}, nil
}

func (n *noOpClient) Stats() TelemetryStats {
	return TelemetryStats{}
}
