package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/client"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/models"
	"gorm.io/gorm"
)

// VerificationService handles identity/breeder verification requests and
// their admin review flow. A review emits an admin sync event and notifies
// the subject. Submissions are gated on the user's moderation standing.
type VerificationService struct {
	db         *gorm.DB
	adminSync  *AdminSyncService
	notifier   *NotificationService
	moderation client.ModerationClient
	enums      *config.PlatformEnums
}

// NewVerificationService creates a new verification service. moderation may
// be nil; the standing gate is then skipped.
func NewVerificationService(db *gorm.DB, adminSync *AdminSyncService, notifier *NotificationService, moderation client.ModerationClient, enums *config.PlatformEnums) *VerificationService {
	if enums == nil {
		enums = config.GetDefaultEnums()
	}
	return &VerificationService{
		db:         db,
		adminSync:  adminSync,
		notifier:   notifier,
		moderation: moderation,
		enums:      enums,
	}
}

// Submit files a new verification request. A user can have at most one
// pending request; re-submitting while one is pending is a conflict.
func (s *VerificationService) Submit(ctx context.Context, userID, documentType string) (*models.VerificationRequest, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !s.enums.IsValidDocumentType(documentType) {
		return nil, fmt.Errorf("%w: unknown document type %q", ErrInvalidInput, documentType)
	}

	if s.moderation != nil {
		standing, err := s.moderation.GetUserStanding(ctx, userID)
		if err != nil {
			// The moderation service is advisory here; degrade open.
			slog.Warn("Failed to check user standing, allowing submission",
				"error", err, "userId", userID)
		} else if standing.Standing == "suspended" {
			return nil, fmt.Errorf("%w: suspended users cannot request verification", ErrConflict)
		}
	}

	var pending int64
	err := s.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("user_id = ? AND status = ?", userID, models.VerificationStatusPending).
		Count(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending > 0 {
		return nil, fmt.Errorf("%w: a pending verification request already exists", ErrConflict)
	}

	request := &models.VerificationRequest{
		UserID:       userID,
		DocumentType: documentType,
		Status:       models.VerificationStatusPending,
	}
	if err := s.db.WithContext(ctx).Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification request: %w", err)
	}
	return request, nil
}

// GetForUser returns the user's requests, newest first.
func (s *VerificationService) GetForUser(ctx context.Context, userID string) ([]models.VerificationRequest, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var requests []models.VerificationRequest
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("submitted_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list verification requests: %w", err)
	}
	if requests == nil {
		requests = []models.VerificationRequest{}
	}
	return requests, nil
}

// ListPending returns pending requests for the admin review queue, oldest
// first so the queue is fair.
func (s *VerificationService) ListPending(ctx context.Context, limit, offset int) ([]models.VerificationRequest, int64, error) {
	limit, offset = normalizePage(limit, offset)

	query := s.db.WithContext(ctx).Model(&models.VerificationRequest{}).
		Where("status = ?", models.VerificationStatusPending)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count pending requests: %w", err)
	}

	var requests []models.VerificationRequest
	if err := query.Order("submitted_at ASC").Limit(limit).Offset(offset).Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list pending requests: %w", err)
	}
	if requests == nil {
		requests = []models.VerificationRequest{}
	}
	return requests, total, nil
}

// Review approves or rejects a pending request. Reviewing a request that is
// not pending is a conflict. The decision produces an admin sync event and
// a notification to the subject.
func (s *VerificationService) Review(ctx context.Context, requestID uuid.UUID, reviewerID string, approve bool, reason string) (*models.VerificationRequest, error) {
	if reviewerID == "" {
		return nil, fmt.Errorf("%w: reviewer id is required", ErrInvalidInput)
	}

	var request models.VerificationRequest
	err := s.db.WithContext(ctx).First(&request, "id = ?", requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load verification request: %w", err)
	}
	if request.Status != models.VerificationStatusPending {
		return nil, fmt.Errorf("%w: request is already %s", ErrConflict, request.Status)
	}

	now := time.Now().UTC()
	request.Status = models.VerificationStatusRejected
	if approve {
		request.Status = models.VerificationStatusApproved
	}
	request.Reason = reason
	request.ReviewerID = reviewerID
	request.ReviewedAt = &now

	if err := s.db.WithContext(ctx).Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to save review decision: %w", err)
	}

	if s.adminSync != nil {
		if _, err := s.adminSync.PublishAction(ctx,
			models.AdminEventTypeVerification, models.AdminEventActionReview,
			reviewerID, "verification_request", request.ID.String(),
			map[string]interface{}{"status": request.Status, "reason": reason}); err != nil {
			slog.Error("Failed to publish verification review event",
				"error", err, "requestId", request.ID)
		}
	}

	if s.notifier != nil {
		payload, _ := json.Marshal(map[string]string{"status": request.Status, "reason": reason})
		if _, err := s.notifier.Create(ctx, request.UserID, reviewerID,
			models.NotificationKindVerificationReviewed, payload); err != nil {
			slog.Warn("Failed to notify verification subject",
				"error", err, "requestId", request.ID, "userId", request.UserID)
		}
	}

	return &request, nil
}
