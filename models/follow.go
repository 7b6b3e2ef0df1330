package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow edge status constants
const (
	FollowStatusActive = "active"
	FollowStatusMuted  = "muted"
)

// FollowEdge represents a directed follow relationship between two users.
// The (follower_id, following_id) pair is unique; duplicate follows are
// idempotent and return the existing edge.
type FollowEdge struct {
	ID          uuid.UUID `gorm:"primaryKey;type:uuid" json:"id"`
	FollowerID  string    `gorm:"type:varchar(64);not null;index:idx_follow_edges_follower;uniqueIndex:idx_follow_edges_pair" json:"followerId"`
	FollowingID string    `gorm:"type:varchar(64);not null;index:idx_follow_edges_following;uniqueIndex:idx_follow_edges_pair" json:"followingId"`
	Status      string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`

	BaseModel
}

// TableName overrides the GORM default
func (FollowEdge) TableName() string {
	return "follow_edges"
}

// BeforeCreate generates the primary key and defaults the status.
func (f *FollowEdge) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	if f.Status == "" {
		f.Status = FollowStatusActive
	}
	return f.BaseModel.BeforeCreate(tx)
}

// FollowCounts aggregates follower/following totals for a user.
type FollowCounts struct {
	UserID    string `json:"userId"`
	Followers int64  `json:"followers"`
	Following int64  `json:"following"`
}
