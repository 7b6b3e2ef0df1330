package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/models"
	"gorm.io/gorm"
)

// NotificationService creates and queries user notifications.
type NotificationService struct {
	db    *gorm.DB
	enums *config.PlatformEnums
}

// NewNotificationService creates a new notification service.
func NewNotificationService(db *gorm.DB, enums *config.PlatformEnums) *NotificationService {
	if enums == nil {
		enums = config.GetDefaultEnums()
	}
	return &NotificationService{db: db, enums: enums}
}

// Create stores a single notification for one recipient.
func (s *NotificationService) Create(ctx context.Context, recipientID, actorID, kind string, payload json.RawMessage) (*models.Notification, error) {
	if recipientID == "" {
		return nil, fmt.Errorf("%w: recipient id is required", ErrInvalidInput)
	}
	if !s.enums.IsValidNotificationKind(kind) {
		return nil, fmt.Errorf("%w: unknown notification kind %q", ErrInvalidInput, kind)
	}

	notification := &models.Notification{
		RecipientID: recipientID,
		ActorID:     actorID,
		Kind:        kind,
		Payload:     payload,
	}
	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}
	return notification, nil
}

// FanOutToFollowers delivers a notification from actorID to every eligible
// follower: users with an active (non-muted) follow edge to the actor.
// Returns the number of notifications created.
func (s *NotificationService) FanOutToFollowers(ctx context.Context, follows *FollowService, actorID, kind string, payload json.RawMessage) (int, error) {
	recipients, err := follows.ActiveFollowerIDs(ctx, actorID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, recipientID := range recipients {
		if _, err := s.Create(ctx, recipientID, actorID, kind, payload); err != nil {
			slog.Warn("Failed to fan out notification",
				"error", err, "actor", actorID, "recipient", recipientID, "kind", kind)
			continue
		}
		created++
	}
	return created, nil
}

// ListForRecipient returns a page of notifications for one user, newest
// first, optionally restricted to unread ones.
func (s *NotificationService) ListForRecipient(ctx context.Context, recipientID string, unreadOnly bool, limit, offset int) ([]models.Notification, int64, error) {
	if recipientID == "" {
		return nil, 0, fmt.Errorf("%w: recipient id is required", ErrInvalidInput)
	}
	limit, offset = normalizePage(limit, offset)

	query := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications for a user.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead marks one notification as read. The recipient check prevents one
// user from acknowledging another user's notifications.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID string, notificationID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Update("read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkAllRead marks every unread notification for a user as read and
// returns how many were updated.
func (s *NotificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, fmt.Errorf("%w: recipient id is required", ErrInvalidInput)
	}

	result := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND read = ?", recipientID, false).
		Update("read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Get returns a single notification by id.
func (s *NotificationService) Get(ctx context.Context, id uuid.UUID) (*models.Notification, error) {
	var notification models.Notification
	err := s.db.WithContext(ctx).First(&notification, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load notification: %w", err)
	}
	return &notification, nil
}
