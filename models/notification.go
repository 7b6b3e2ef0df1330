package models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification kind constants. The full set is configurable via YAML
// (config.Enums), these are the kinds emitted by this service itself.
const (
	NotificationKindNewFollower          = "new_follower"
	NotificationKindVerificationReviewed = "verification_reviewed"
	NotificationKindAdminNotice          = "admin_notice"
	NotificationKindPostLiked            = "post_liked"
)

// Notification is a user-facing message delivered to a single recipient.
type Notification struct {
	ID          uuid.UUID       `gorm:"primaryKey;type:uuid" json:"id"`
	RecipientID string          `gorm:"type:varchar(64);not null;index:idx_notifications_recipient" json:"recipientId"`
	ActorID     string          `gorm:"type:varchar(64)" json:"actorId,omitempty"`
	Kind        string          `gorm:"type:varchar(50);not null" json:"kind"`
	Payload     json.RawMessage `gorm:"type:text" json:"payload,omitempty"`
	Read        bool            `gorm:"not null;default:false;index:idx_notifications_read" json:"read"`

	BaseModel
}

// TableName overrides the GORM default
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate generates the primary key.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return n.BaseModel.BeforeCreate(tx)
}
