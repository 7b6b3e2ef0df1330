package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/pawfectmatch/platform-backend/monitoring"
	"github.com/pawfectmatch/platform-backend/redis"
	"gorm.io/gorm"
)

// AdminEventStream is the Redis stream carrying admin sync events between
// backend instances.
const AdminEventStream = "admin-events"

// AdminSyncService publishes admin sync events: each event is persisted as
// an audit trail row, pushed to the Redis stream for other instances, and
// fanned out to local subscribers. Stream publishing is best-effort; the
// database write is the source of truth.
type AdminSyncService struct {
	db          *gorm.DB
	redisClient *redis.Client
	broadcaster *broadcast.Broadcaster
	enums       *config.PlatformEnums
	origin      string
}

// NewAdminSyncService creates a new admin sync service. redisClient may be
// nil when the stream transport is not configured; events then stay local.
func NewAdminSyncService(db *gorm.DB, redisClient *redis.Client, broadcaster *broadcast.Broadcaster, enums *config.PlatformEnums) *AdminSyncService {
	if enums == nil {
		enums = config.GetDefaultEnums()
	}
	return &AdminSyncService{
		db:          db,
		redisClient: redisClient,
		broadcaster: broadcaster,
		enums:       enums,
		origin:      config.InstanceName(),
	}
}

// Publish validates, persists and broadcasts an admin sync event.
func (s *AdminSyncService) Publish(ctx context.Context, event *models.AdminEvent) (*models.AdminEvent, error) {
	if event == nil {
		return nil, fmt.Errorf("%w: event is required", ErrInvalidInput)
	}
	if event.ActorID == "" {
		return nil, fmt.Errorf("%w: actor id is required", ErrInvalidInput)
	}
	if !s.enums.IsValidAdminEventType(event.EventType) {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, event.EventType)
	}
	if !s.enums.IsValidAdminEventAction(event.Action) {
		return nil, fmt.Errorf("%w: unknown event action %q", ErrInvalidInput, event.Action)
	}

	if event.Origin == "" {
		// Stamped so the stream consumer on this instance can tell its
		// own messages apart and skip the duplicate local fan-out.
		event.Origin = s.origin
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to persist admin event: %w", err)
	}

	if s.redisClient != nil {
		if _, err := s.redisClient.PublishEvent(ctx, AdminEventStream, event.StreamFields()); err != nil {
			// Local fan-out still happens; remote instances catch up from
			// the audit trail if the stream write is lost.
			slog.Error("Failed to publish admin event to stream",
				"error", err, "eventId", event.ID, "eventType", event.EventType)
		}
	}

	if s.broadcaster != nil {
		s.broadcaster.PublishEvent(event)
	}

	monitoring.CountAdminEvent(event.EventType)
	slog.Info("Admin event published",
		"eventId", event.ID, "eventType", event.EventType,
		"action", event.Action, "actorId", event.ActorID)
	return event, nil
}

// PublishAction is a convenience wrapper building the event from parts.
func (s *AdminSyncService) PublishAction(ctx context.Context, eventType, action, actorID, targetType, targetID string, payload interface{}) (*models.AdminEvent, error) {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: payload is not serializable", ErrInvalidInput)
		}
		raw = data
	}

	return s.Publish(ctx, &models.AdminEvent{
		EventType:  eventType,
		Action:     action,
		ActorID:    actorID,
		TargetType: targetType,
		TargetID:   targetID,
		Payload:    raw,
	})
}

// ListEvents returns persisted admin events, newest first, optionally
// filtered by event type.
func (s *AdminSyncService) ListEvents(ctx context.Context, eventType string, limit, offset int) ([]models.AdminEvent, int64, error) {
	limit, offset = normalizePage(limit, offset)

	query := s.db.WithContext(ctx).Model(&models.AdminEvent{})
	if eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count admin events: %w", err)
	}

	var events []models.AdminEvent
	if err := query.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&events).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list admin events: %w", err)
	}
	if events == nil {
		events = []models.AdminEvent{}
	}
	return events, total, nil
}
