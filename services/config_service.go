package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/models"
	"github.com/pawfectmatch/platform-backend/monitoring"
	"gorm.io/gorm"
)

// ConfigService manages versioned configuration broadcast. Every publish
// bumps the per-type version inside the transaction that writes the value,
// so versions survive restarts and stay strictly increasing per type.
// Propagation is last-write-wins: subscribers drop stale versions.
type ConfigService struct {
	db        *gorm.DB
	adminSync *AdminSyncService
	caster    *broadcast.Broadcaster
}

// NewConfigService creates a new config service.
func NewConfigService(db *gorm.DB, adminSync *AdminSyncService, caster *broadcast.Broadcaster) *ConfigService {
	return &ConfigService{db: db, adminSync: adminSync, caster: caster}
}

// Publish writes a new value for the config type, increments its version
// and broadcasts the update. The admin event carries the full update so
// remote instances can apply it from the stream.
func (s *ConfigService) Publish(ctx context.Context, configType string, value json.RawMessage, updatedBy string) (*models.ConfigEntry, error) {
	if !models.IsKnownConfigType(configType) {
		return nil, fmt.Errorf("%w: unknown config type %q", ErrInvalidInput, configType)
	}
	if len(value) == 0 || !json.Valid(value) {
		return nil, fmt.Errorf("%w: value must be valid JSON", ErrInvalidInput)
	}

	var entry models.ConfigEntry
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The increment runs in SQL so two concurrent publishes cannot
		// both observe the same version.
		result := tx.Model(&models.ConfigEntry{}).
			Where("config_type = ?", configType).
			Updates(map[string]interface{}{
				"value":      value,
				"version":    gorm.Expr("version + 1"),
				"updated_by": updatedBy,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to update config entry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			entry = models.ConfigEntry{
				ConfigType: configType,
				Value:      value,
				Version:    1,
				UpdatedBy:  updatedBy,
			}
			return tx.Create(&entry).Error
		}
		return tx.First(&entry, "config_type = ?", configType).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish config: %w", err)
	}

	update := broadcast.ConfigUpdate{
		ConfigType: entry.ConfigType,
		Value:      entry.Value,
		Version:    entry.Version,
		UpdatedBy:  entry.UpdatedBy,
	}

	if s.adminSync != nil {
		if _, err := s.adminSync.PublishAction(ctx,
			models.AdminEventTypeConfig, models.AdminEventActionUpdate,
			updatedBy, "config", configType, update); err != nil {
			return nil, err
		}
	}

	// Apply locally right away; the stream consumer's redelivery of the same
	// version is dropped by the broadcaster's monotonic guard.
	if s.caster != nil {
		if s.caster.PublishConfig(update) {
			monitoring.CountConfigBroadcast(configType, "delivered")
		} else {
			monitoring.CountConfigBroadcast(configType, "stale")
		}
	}

	return &entry, nil
}

// Get returns the current value and version for a config type. A type that
// has never been published yields ErrNotFound.
func (s *ConfigService) Get(ctx context.Context, configType string) (*models.ConfigEntry, error) {
	if !models.IsKnownConfigType(configType) {
		return nil, fmt.Errorf("%w: unknown config type %q", ErrInvalidInput, configType)
	}

	var entry models.ConfigEntry
	err := s.db.WithContext(ctx).First(&entry, "config_type = ?", configType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load config entry: %w", err)
	}
	return &entry, nil
}

// Snapshot returns all published config entries keyed by type.
func (s *ConfigService) Snapshot(ctx context.Context) (map[string]models.ConfigEntry, error) {
	var entries []models.ConfigEntry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to load config entries: %w", err)
	}

	snapshot := make(map[string]models.ConfigEntry, len(entries))
	for _, entry := range entries {
		snapshot[entry.ConfigType] = entry
	}
	return snapshot, nil
}

// ApplyRemote feeds a config update received from the stream into the local
// fan-out. Stale versions are dropped by the broadcaster.
func (s *ConfigService) ApplyRemote(update broadcast.ConfigUpdate) bool {
	if s.caster == nil {
		return false
	}
	return s.caster.PublishConfig(update)
}
