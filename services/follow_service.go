package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pawfectmatch/platform-backend/models"
	"gorm.io/gorm"
)

// Pagination bounds for follower/following listings.
const (
	defaultFollowPageSize = 50
	maxFollowPageSize     = 200
)

// FollowService manages the follow graph. Edges live in a relational table
// with a unique (follower_id, following_id) index, so all lookups are index
// scans rather than full-table filters.
type FollowService struct {
	db       *gorm.DB
	notifier *NotificationService
}

// NewFollowService creates a new follow service. The notifier is optional;
// when present, a successful follow emits a new_follower notification.
func NewFollowService(db *gorm.DB, notifier *NotificationService) *FollowService {
	return &FollowService{db: db, notifier: notifier}
}

// Follow creates a follow edge from followerID to followingID. Following a
// user twice is idempotent and returns the existing edge unchanged.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID string) (*models.FollowEdge, error) {
	if followerID == "" || followingID == "" {
		return nil, fmt.Errorf("%w: follower and following ids are required", ErrInvalidInput)
	}
	if followerID == followingID {
		return nil, ErrSelfFollow
	}

	var existing models.FollowEdge
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up follow edge: %w", err)
	}

	edge := &models.FollowEdge{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      models.FollowStatusActive,
	}
	if err := s.db.WithContext(ctx).Create(edge).Error; err != nil {
		// A concurrent insert can beat us to the unique index; treat it the
		// same as the idempotent duplicate case.
		var retry models.FollowEdge
		if lookupErr := s.db.WithContext(ctx).
			Where("follower_id = ? AND following_id = ?", followerID, followingID).
			First(&retry).Error; lookupErr == nil {
			return &retry, nil
		}
		return nil, fmt.Errorf("failed to create follow edge: %w", err)
	}

	if s.notifier != nil {
		if _, err := s.notifier.Create(ctx, followingID, followerID, models.NotificationKindNewFollower, nil); err != nil {
			slog.Warn("Failed to create new-follower notification",
				"error", err, "follower", followerID, "following", followingID)
		}
	}

	return edge, nil
}

// Unfollow removes the follow edge from followerID to followingID.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID string) error {
	if followerID == "" || followingID == "" {
		return fmt.Errorf("%w: follower and following ids are required", ErrInvalidInput)
	}

	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.FollowEdge{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete follow edge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// IsFollowing reports whether followerID actively follows followingID.
// Muted edges still count as following.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return count > 0, nil
}

// GetFollowing returns the edges where userID is the follower, newest first.
func (s *FollowService) GetFollowing(ctx context.Context, userID string, limit, offset int) ([]models.FollowEdge, int64, error) {
	return s.listEdges(ctx, "follower_id", userID, limit, offset)
}

// GetFollowers returns the edges where userID is being followed, newest first.
func (s *FollowService) GetFollowers(ctx context.Context, userID string, limit, offset int) ([]models.FollowEdge, int64, error) {
	return s.listEdges(ctx, "following_id", userID, limit, offset)
}

func (s *FollowService) listEdges(ctx context.Context, column, userID string, limit, offset int) ([]models.FollowEdge, int64, error) {
	if userID == "" {
		return nil, 0, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	limit, offset = normalizePage(limit, offset)

	query := s.db.WithContext(ctx).Model(&models.FollowEdge{}).Where(column+" = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count follow edges: %w", err)
	}

	var edges []models.FollowEdge
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&edges).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list follow edges: %w", err)
	}
	if edges == nil {
		edges = []models.FollowEdge{}
	}
	return edges, total, nil
}

// Counts returns follower and following totals for a user.
func (s *FollowService) Counts(ctx context.Context, userID string) (*models.FollowCounts, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	counts := &models.FollowCounts{UserID: userID}
	if err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("following_id = ?", userID).Count(&counts.Followers).Error; err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower_id = ?", userID).Count(&counts.Following).Error; err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	return counts, nil
}

// FilterAuthorsByFollowed keeps only the authors the viewer actively follows
// (muted edges excluded). This is the community-feed filter: one indexed IN
// query instead of scanning the whole edge set.
func (s *FollowService) FilterAuthorsByFollowed(ctx context.Context, viewerID string, authorIDs []string) ([]string, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("%w: viewer id is required", ErrInvalidInput)
	}
	if len(authorIDs) == 0 {
		return []string{}, nil
	}

	var followed []string
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower_id = ? AND status = ? AND following_id IN ?",
			viewerID, models.FollowStatusActive, authorIDs).
		Pluck("following_id", &followed).Error
	if err != nil {
		return nil, fmt.Errorf("failed to filter authors: %w", err)
	}

	// Preserve the caller's ordering.
	followedSet := make(map[string]struct{}, len(followed))
	for _, id := range followed {
		followedSet[id] = struct{}{}
	}
	result := make([]string, 0, len(followed))
	for _, id := range authorIDs {
		if _, ok := followedSet[id]; ok {
			result = append(result, id)
		}
	}
	return result, nil
}

// Mute flips an existing edge to muted without dropping it. Muted authors
// disappear from the feed filter and notification eligibility.
func (s *FollowService) Mute(ctx context.Context, followerID, followingID string) error {
	return s.setStatus(ctx, followerID, followingID, models.FollowStatusMuted)
}

// Unmute restores a muted edge to active.
func (s *FollowService) Unmute(ctx context.Context, followerID, followingID string) error {
	return s.setStatus(ctx, followerID, followingID, models.FollowStatusActive)
}

func (s *FollowService) setStatus(ctx context.Context, followerID, followingID, status string) error {
	if followerID == "" || followingID == "" {
		return fmt.Errorf("%w: follower and following ids are required", ErrInvalidInput)
	}

	result := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update follow edge status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// MutedIDs returns the users the follower has muted.
func (s *FollowService) MutedIDs(ctx context.Context, followerID string) ([]string, error) {
	if followerID == "" {
		return nil, fmt.Errorf("%w: follower id is required", ErrInvalidInput)
	}

	var ids []string
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("follower_id = ? AND status = ?", followerID, models.FollowStatusMuted).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list muted users: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ActiveFollowerIDs returns followers of userID whose edge is active, used
// for notification eligibility.
func (s *FollowService) ActiveFollowerIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	var ids []string
	err := s.db.WithContext(ctx).Model(&models.FollowEdge{}).
		Where("following_id = ? AND status = ?", userID, models.FollowStatusActive).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list active followers: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func normalizePage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultFollowPageSize
	}
	if limit > maxFollowPageSize {
		limit = maxFollowPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
