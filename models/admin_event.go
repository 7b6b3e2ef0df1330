package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin event type constants. These classify the administrative action that
// produced the event; the set is extensible via YAML config (config.Enums).
const (
	AdminEventTypeSuspension   = "SUSPENSION"
	AdminEventTypeModeration   = "MODERATION"
	AdminEventTypeConfig       = "CONFIG"
	AdminEventTypeVerification = "VERIFICATION"
)

// Admin event action constants
const (
	AdminEventActionCreate = "CREATE"
	AdminEventActionUpdate = "UPDATE"
	AdminEventActionDelete = "DELETE"
	AdminEventActionReview = "REVIEW"
)

// AdminEvent describes a single administrative action (suspension, config
// change, moderation decision). Events are persisted as an audit trail and
// broadcast to connected admin clients via the Redis stream.
type AdminEvent struct {
	ID         uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	EventType  string          `gorm:"type:varchar(50);not null;index:idx_admin_events_type" json:"eventType"`
	Action     string          `gorm:"type:varchar(50);not null" json:"action"`
	ActorID    string          `gorm:"type:varchar(64);not null" json:"actorId"`
	TargetType string          `gorm:"type:varchar(50)" json:"targetType,omitempty"`
	TargetID   string          `gorm:"type:varchar(64);index:idx_admin_events_target" json:"targetId,omitempty"`
	Payload    json.RawMessage `gorm:"type:text" json:"payload,omitempty"`
	Origin     string          `gorm:"type:varchar(128)" json:"origin,omitempty"`
	Timestamp  time.Time       `gorm:"not null;index:idx_admin_events_timestamp" json:"timestamp"`

	BaseModel
}

// TableName overrides the GORM default
func (AdminEvent) TableName() string {
	return "admin_events"
}

// BeforeCreate generates the primary key and stamps the event time.
func (e *AdminEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	return e.BaseModel.BeforeCreate(tx)
}

// StreamFields flattens the event into the map form published to the Redis
// stream. All values are strings so consumers can decode without reflection.
func (e *AdminEvent) StreamFields() map[string]interface{} {
	fields := map[string]interface{}{
		"eventId":   e.ID.String(),
		"eventType": e.EventType,
		"action":    e.Action,
		"actorId":   e.ActorID,
		"timestamp": e.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if e.TargetType != "" {
		fields["targetType"] = e.TargetType
	}
	if e.TargetID != "" {
		fields["targetId"] = e.TargetID
	}
	if len(e.Payload) > 0 {
		fields["payload"] = string(e.Payload)
	}
	if e.Origin != "" {
		fields["origin"] = e.Origin
	}
	return fields
}

// AdminEventFromStream rebuilds an AdminEvent from the flattened stream map.
func AdminEventFromStream(fields map[string]string) (*AdminEvent, error) {
	id, err := uuid.Parse(fields["eventId"])
	if err != nil {
		return nil, err
	}
	event := &AdminEvent{
		ID:         id,
		EventType:  fields["eventType"],
		Action:     fields["action"],
		ActorID:    fields["actorId"],
		TargetType: fields["targetType"],
		TargetID:   fields["targetId"],
		Origin:     fields["origin"],
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["timestamp"]); err == nil {
		event.Timestamp = ts
	}
	if payload, ok := fields["payload"]; ok && payload != "" {
		event.Payload = json.RawMessage(payload)
	}
	return event, nil
}
