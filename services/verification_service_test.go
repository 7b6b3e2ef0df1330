package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/client"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVerificationFixture(t *testing.T) (*VerificationService, *NotificationService, *AdminSyncService) {
	t.Helper()
	db := SetupSQLiteTestDB(t)
	notifier := NewNotificationService(db, nil)
	adminSync := NewAdminSyncService(db, nil, broadcast.NewBroadcaster(), nil)
	return NewVerificationService(db, adminSync, notifier, nil, nil), notifier, adminSync
}

// stubModerationClient returns a fixed standing, or an error.
type stubModerationClient struct {
	standing string
	err      error
}

func (s *stubModerationClient) CheckContent(ctx context.Context, req client.ContentCheckRequest) (*client.ContentCheckResult, error) {
	return &client.ContentCheckResult{ContentID: req.ContentID, Allowed: true}, nil
}

func (s *stubModerationClient) GetUserStanding(ctx context.Context, userID string) (*client.UserStanding, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &client.UserStanding{UserID: userID, Standing: s.standing}, nil
}

func (s *stubModerationClient) Stats() client.TelemetryStats {
	return client.TelemetryStats{}
}

func TestVerificationService_Submit(t *testing.T) {
	service, _, _ := newVerificationFixture(t)
	ctx := context.Background()

	request, err := service.Submit(ctx, "user-1", "breeder_license")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusPending, request.Status)
	assert.NotEqual(t, uuid.Nil, request.ID)
	assert.False(t, request.SubmittedAt.IsZero())

	requests, err := service.GetForUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Len(t, requests, 1)
}

func TestVerificationService_SubmitValidation(t *testing.T) {
	service, _, _ := newVerificationFixture(t)
	ctx := context.Background()

	_, err := service.Submit(ctx, "", "breeder_license")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Submit(ctx, "user-1", "napkin_sketch")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestVerificationService_SubmitRejectsSuspendedUsers(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	moderation := &stubModerationClient{standing: "suspended"}
	service := NewVerificationService(db, nil, nil, moderation, nil)

	_, err := service.Submit(context.Background(), "user-1", "government_id")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVerificationService_SubmitAllowsUsersInGoodStanding(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	moderation := &stubModerationClient{standing: "good"}
	service := NewVerificationService(db, nil, nil, moderation, nil)

	request, err := service.Submit(context.Background(), "user-1", "government_id")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusPending, request.Status)
}

func TestVerificationService_SubmitDegradesOpenOnStandingError(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	moderation := &stubModerationClient{err: assert.AnError}
	service := NewVerificationService(db, nil, nil, moderation, nil)

	_, err := service.Submit(context.Background(), "user-1", "government_id")
	require.NoError(t, err, "standing check is advisory when the service is unreachable")
}

func TestVerificationService_SubmitRejectsSecondPending(t *testing.T) {
	service, _, _ := newVerificationFixture(t)
	ctx := context.Background()

	_, err := service.Submit(ctx, "user-1", "government_id")
	require.NoError(t, err)

	_, err = service.Submit(ctx, "user-1", "government_id")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVerificationService_ReviewApprove(t *testing.T) {
	service, notifier, adminSync := newVerificationFixture(t)
	ctx := context.Background()

	request, err := service.Submit(ctx, "user-1", "government_id")
	require.NoError(t, err)

	reviewed, err := service.Review(ctx, request.ID, "admin-1", true, "documents check out")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusApproved, reviewed.Status)
	assert.Equal(t, "admin-1", reviewed.ReviewerID)
	require.NotNil(t, reviewed.ReviewedAt)

	// The decision lands in the audit trail and in the subject's inbox.
	events, total, err := adminSync.ListEvents(ctx, models.AdminEventTypeVerification, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, models.AdminEventActionReview, events[0].Action)
	assert.Equal(t, request.ID.String(), events[0].TargetID)

	notifications, _, err := notifier.ListForRecipient(ctx, "user-1", false, 10, 0)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationKindVerificationReviewed, notifications[0].Kind)
}

func TestVerificationService_ReviewReject(t *testing.T) {
	service, _, _ := newVerificationFixture(t)
	ctx := context.Background()

	request, err := service.Submit(ctx, "user-1", "government_id")
	require.NoError(t, err)

	reviewed, err := service.Review(ctx, request.ID, "admin-1", false, "document expired")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStatusRejected, reviewed.Status)
	assert.Equal(t, "document expired", reviewed.Reason)

	// A rejected user may submit again.
	_, err = service.Submit(ctx, "user-1", "government_id")
	require.NoError(t, err)
}

func TestVerificationService_ReviewConflicts(t *testing.T) {
	service, _, _ := newVerificationFixture(t)
	ctx := context.Background()

	request, err := service.Submit(ctx, "user-1", "government_id")
	require.NoError(t, err)

	_, err = service.Review(ctx, request.ID, "admin-1", true, "")
	require.NoError(t, err)

	_, err = service.Review(ctx, request.ID, "admin-2", false, "")
	assert.ErrorIs(t, err, ErrConflict)

	_, err = service.Review(ctx, uuid.New(), "admin-1", true, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerificationService_ListPendingOldestFirst(t *testing.T) {
	service, _, _ := newVerificationFixture(t)
	ctx := context.Background()

	first, err := service.Submit(ctx, "user-1", "government_id")
	require.NoError(t, err)
	second, err := service.Submit(ctx, "user-2", "breeder_license")
	require.NoError(t, err)
	_, err = service.Review(ctx, second.ID, "admin-1", true, "")
	require.NoError(t, err)

	pending, total, err := service.ListPending(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}
