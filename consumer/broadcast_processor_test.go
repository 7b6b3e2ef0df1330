package consumer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func streamFields(t *testing.T, event *models.AdminEvent) map[string]string {
	t.Helper()
	fields := make(map[string]string)
	for key, value := range event.StreamFields() {
		fields[key] = value.(string)
	}
	return fields
}

func TestBroadcastProcessor_FansOutAdminEvents(t *testing.T) {
	caster := broadcast.NewBroadcaster()
	processor := NewBroadcastProcessor(caster)

	var received []*models.AdminEvent
	defer caster.SubscribeEvents(func(event *models.AdminEvent) {
		received = append(received, event)
	})()

	event := &models.AdminEvent{
		ID:        uuid.New(),
		EventType: models.AdminEventTypeSuspension,
		Action:    models.AdminEventActionCreate,
		ActorID:   "admin-1",
		TargetID:  "user-9",
		Timestamp: time.Now().UTC(),
	}

	err := processor.ProcessAdminEvent(context.Background(), streamFields(t, event))
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, event.ID, received[0].ID)
	assert.Equal(t, "user-9", received[0].TargetID)
}

func TestBroadcastProcessor_ConfigEventAppliesUpdate(t *testing.T) {
	caster := broadcast.NewBroadcaster()
	processor := NewBroadcastProcessor(caster)

	var updates []broadcast.ConfigUpdate
	defer caster.SubscribeConfig("feature_flags", func(update broadcast.ConfigUpdate) {
		updates = append(updates, update)
	})()

	payload, err := json.Marshal(broadcast.ConfigUpdate{
		ConfigType: "feature_flags",
		Value:      json.RawMessage(`{"newFeed":true}`),
		Version:    7,
		UpdatedBy:  "admin-1",
	})
	require.NoError(t, err)

	event := &models.AdminEvent{
		ID:        uuid.New(),
		EventType: models.AdminEventTypeConfig,
		Action:    models.AdminEventActionUpdate,
		ActorID:   "admin-1",
		TargetID:  "feature_flags",
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}

	require.NoError(t, processor.ProcessAdminEvent(context.Background(), streamFields(t, event)))
	require.Len(t, updates, 1)
	assert.Equal(t, int64(7), updates[0].Version)
	assert.JSONEq(t, `{"newFeed":true}`, string(updates[0].Value))

	// Redelivery of the same message is dropped by the version guard.
	require.NoError(t, processor.ProcessAdminEvent(context.Background(), streamFields(t, event)))
	assert.Len(t, updates, 1)
}

func TestBroadcastProcessor_SkipsSelfOriginEvents(t *testing.T) {
	caster := broadcast.NewBroadcaster()
	processor := NewBroadcastProcessor(caster)

	var received []*models.AdminEvent
	defer caster.SubscribeEvents(func(event *models.AdminEvent) {
		received = append(received, event)
	})()

	event := &models.AdminEvent{
		ID:        uuid.New(),
		EventType: models.AdminEventTypeSuspension,
		Action:    models.AdminEventActionCreate,
		ActorID:   "admin-1",
		TargetID:  "user-9",
		Origin:    config.InstanceName(),
		Timestamp: time.Now().UTC(),
	}

	// Published by this instance, so it already fanned out locally.
	require.NoError(t, processor.ProcessAdminEvent(context.Background(), streamFields(t, event)))
	assert.Empty(t, received)

	event.Origin = "platform-backend-peer"
	require.NoError(t, processor.ProcessAdminEvent(context.Background(), streamFields(t, event)))
	require.Len(t, received, 1)
	assert.Equal(t, "platform-backend-peer", received[0].Origin)
}

func TestBroadcastProcessor_MalformedMessages(t *testing.T) {
	processor := NewBroadcastProcessor(broadcast.NewBroadcaster())
	ctx := context.Background()

	err := processor.ProcessAdminEvent(ctx, map[string]string{"eventId": "not-a-uuid"})
	assert.Error(t, err)

	fields := streamFields(t, &models.AdminEvent{
		ID:        uuid.New(),
		EventType: models.AdminEventTypeConfig,
		Action:    models.AdminEventActionUpdate,
		ActorID:   "admin-1",
		Payload:   json.RawMessage(`{broken`),
		Timestamp: time.Now().UTC(),
	})
	err = processor.ProcessAdminEvent(ctx, fields)
	assert.Error(t, err)
}
