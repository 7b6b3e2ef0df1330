package services

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminSyncService_Publish(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	caster := broadcast.NewBroadcaster()
	service := NewAdminSyncService(db, nil, caster, nil)
	ctx := context.Background()

	var fanned atomic.Int64
	unsubscribe := caster.SubscribeEvents(func(event *models.AdminEvent) {
		fanned.Add(1)
	})
	defer unsubscribe()

	event, err := service.Publish(ctx, &models.AdminEvent{
		EventType: models.AdminEventTypeSuspension,
		Action:    models.AdminEventActionCreate,
		ActorID:   "admin-1",
		TargetID:  "user-9",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, int64(1), fanned.Load())

	events, total, err := service.ListEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, events, 1)
	assert.Equal(t, "user-9", events[0].TargetID)
}

func TestAdminSyncService_PublishValidation(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAdminSyncService(db, nil, nil, nil)
	ctx := context.Background()

	_, err := service.Publish(ctx, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Publish(ctx, &models.AdminEvent{
		EventType: models.AdminEventTypeSuspension,
		Action:    models.AdminEventActionCreate,
	})
	assert.ErrorIs(t, err, ErrInvalidInput, "actor id is required")

	_, err = service.Publish(ctx, &models.AdminEvent{
		EventType: "COFFEE_BREAK",
		Action:    models.AdminEventActionCreate,
		ActorID:   "admin-1",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = service.Publish(ctx, &models.AdminEvent{
		EventType: models.AdminEventTypeSuspension,
		Action:    "YEET",
		ActorID:   "admin-1",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAdminSyncService_PublishAction(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAdminSyncService(db, nil, nil, nil)
	ctx := context.Background()

	event, err := service.PublishAction(ctx,
		models.AdminEventTypeModeration, models.AdminEventActionDelete,
		"admin-1", "post", "post-12",
		map[string]string{"reason": "spam"})
	require.NoError(t, err)
	assert.Equal(t, "post", event.TargetType)
	assert.JSONEq(t, `{"reason":"spam"}`, string(event.Payload))
}

func TestAdminSyncService_ListEventsFiltersByType(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewAdminSyncService(db, nil, nil, nil)
	ctx := context.Background()

	_, err := service.PublishAction(ctx, models.AdminEventTypeSuspension,
		models.AdminEventActionCreate, "admin-1", "user", "user-1", nil)
	require.NoError(t, err)
	_, err = service.PublishAction(ctx, models.AdminEventTypeModeration,
		models.AdminEventActionDelete, "admin-1", "post", "post-1", nil)
	require.NoError(t, err)

	suspensions, total, err := service.ListEvents(ctx, models.AdminEventTypeSuspension, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, suspensions, 1)
	assert.Equal(t, models.AdminEventTypeSuspension, suspensions[0].EventType)

	all, total, err := service.ListEvents(ctx, "", 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)
}

func TestAdminEvent_StreamRoundTrip(t *testing.T) {
	original := &models.AdminEvent{
		EventType: models.AdminEventTypeConfig,
		Action:    models.AdminEventActionUpdate,
		ActorID:   "admin-1",
		TargetID:  models.ConfigTypeFeatureFlags,
	}
	db := SetupSQLiteTestDB(t)
	service := NewAdminSyncService(db, nil, nil, nil)
	event, err := service.Publish(context.Background(), original)
	require.NoError(t, err)

	fields := make(map[string]string)
	for key, value := range event.StreamFields() {
		fields[key] = value.(string)
	}

	decoded, err := models.AdminEventFromStream(fields)
	require.NoError(t, err)
	assert.Equal(t, event.ID, decoded.ID)
	assert.Equal(t, event.EventType, decoded.EventType)
	assert.Equal(t, event.Action, decoded.Action)
	assert.Equal(t, event.TargetID, decoded.TargetID)
	assert.Equal(t, config.InstanceName(), decoded.Origin)
	assert.True(t, event.Timestamp.Equal(decoded.Timestamp))
}
