package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification request status constants
const (
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// VerificationRequest is an identity/breeder verification submitted by a
// user and reviewed by an admin. At most one pending request per user.
type VerificationRequest struct {
	ID           uuid.UUID  `gorm:"primaryKey;type:uuid" json:"id"`
	UserID       string     `gorm:"type:varchar(64);not null;index:idx_verification_requests_user" json:"userId"`
	DocumentType string     `gorm:"type:varchar(50);not null" json:"documentType"`
	Status       string     `gorm:"type:varchar(20);not null;default:'pending';index:idx_verification_requests_status" json:"status"`
	Reason       string     `gorm:"type:text" json:"reason,omitempty"`
	ReviewerID   string     `gorm:"type:varchar(64)" json:"reviewerId,omitempty"`
	SubmittedAt  time.Time  `gorm:"not null" json:"submittedAt"`
	ReviewedAt   *time.Time `json:"reviewedAt,omitempty"`

	BaseModel
}

// TableName overrides the GORM default
func (VerificationRequest) TableName() string {
	return "verification_requests"
}

// BeforeCreate generates the primary key and stamps submission time.
func (v *VerificationRequest) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Status == "" {
		v.Status = VerificationStatusPending
	}
	if v.SubmittedAt.IsZero() {
		v.SubmittedAt = time.Now().UTC()
	}
	return v.BaseModel.BeforeCreate(tx)
}
