package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Config type constants. Each type carries an independent monotonic version
// counter; propagation is last-write-wins per type.
const (
	ConfigTypeFeatureFlags     = "feature_flags"
	ConfigTypeBusinessSettings = "business_settings"
	ConfigTypeModerationRules  = "moderation_rules"
	ConfigTypeStreamSettings   = "stream_settings"
)

// ConfigEntry is the current value of one configuration type. There is a
// single row per config type; every publish bumps Version inside the same
// transaction that writes Value.
type ConfigEntry struct {
	ConfigType string          `gorm:"primaryKey;type:varchar(50)" json:"configType"`
	Value      json.RawMessage `gorm:"type:text;not null" json:"value"`
	Version    int64           `gorm:"not null;default:0" json:"version"`
	UpdatedBy  string          `gorm:"type:varchar(64)" json:"updatedBy,omitempty"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// TableName overrides the GORM default
func (ConfigEntry) TableName() string {
	return "config_entries"
}

// BeforeSave stamps the update time.
func (c *ConfigEntry) BeforeSave(tx *gorm.DB) error {
	c.UpdatedAt = time.Now().UTC()
	return nil
}

// KnownConfigTypes lists the config types accepted by the publish endpoint.
func KnownConfigTypes() []string {
	return []string{
		ConfigTypeFeatureFlags,
		ConfigTypeBusinessSettings,
		ConfigTypeModerationRules,
		ConfigTypeStreamSettings,
	}
}

// IsKnownConfigType reports whether t is one of the supported config types.
func IsKnownConfigType(t string) bool {
	for _, known := range KnownConfigTypes() {
		if t == known {
			return true
		}
	}
	return false
}
