package config

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// PlatformEnums represents the enum configuration for the platform backend.
// All enum values are configurable via YAML so deployments can extend the
// event and notification vocabularies without a rebuild.
type PlatformEnums struct {
	AdminEventTypes   []string `yaml:"adminEventTypes"`
	AdminEventActions []string `yaml:"adminEventActions"`
	NotificationKinds []string `yaml:"notificationKinds"`
	DocumentTypes     []string `yaml:"documentTypes"`

	// Maps for O(1) validation lookups (initialized from slices)
	adminEventTypesMap   map[string]struct{}
	adminEventActionsMap map[string]struct{}
	notificationKindsMap map[string]struct{}
	documentTypesMap     map[string]struct{}

	// initOnce ensures thread-safe lazy initialization of maps
	initOnce sync.Once
}

type enumFile struct {
	Enums PlatformEnums `yaml:"enums"`
}

// DefaultEnums provides default enum values if the config file is not found.
var DefaultEnums = PlatformEnums{
	AdminEventTypes: []string{
		"SUSPENSION",
		"MODERATION",
		"CONFIG",
		"VERIFICATION",
	},
	AdminEventActions: []string{
		"CREATE",
		"UPDATE",
		"DELETE",
		"REVIEW",
	},
	NotificationKinds: []string{
		"new_follower",
		"post_liked",
		"verification_reviewed",
		"admin_notice",
	},
	DocumentTypes: []string{
		"government_id",
		"breeder_license",
		"shelter_registration",
		"veterinary_license",
	},
}

// LoadEnums loads enum configuration from a YAML file. A missing file falls
// back to defaults; a malformed file is reported.
func LoadEnums(configPath string) (*PlatformEnums, error) {
	if configPath == "" {
		configPath = "config/enums.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return GetDefaultEnums(), nil
		}
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var file enumFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		slog.Warn("Failed to parse enum config file, using defaults", "path", configPath, "error", err)
		return GetDefaultEnums(), nil
	}

	enums := &file.Enums
	if len(enums.AdminEventTypes) == 0 {
		enums.AdminEventTypes = DefaultEnums.AdminEventTypes
	}
	if len(enums.AdminEventActions) == 0 {
		enums.AdminEventActions = DefaultEnums.AdminEventActions
	}
	if len(enums.NotificationKinds) == 0 {
		enums.NotificationKinds = DefaultEnums.NotificationKinds
	}
	if len(enums.DocumentTypes) == 0 {
		enums.DocumentTypes = DefaultEnums.DocumentTypes
	}

	enums.InitializeMaps()
	return enums, nil
}

// GetDefaultEnums creates a new PlatformEnums instance with default values.
// Slices are copied to avoid sharing references with the global DefaultEnums.
func GetDefaultEnums() *PlatformEnums {
	enums := &PlatformEnums{
		AdminEventTypes:   append([]string(nil), DefaultEnums.AdminEventTypes...),
		AdminEventActions: append([]string(nil), DefaultEnums.AdminEventActions...),
		NotificationKinds: append([]string(nil), DefaultEnums.NotificationKinds...),
		DocumentTypes:     append([]string(nil), DefaultEnums.DocumentTypes...),
	}
	enums.InitializeMaps()
	return enums
}

// InitializeMaps converts slices to maps for O(1) validation lookups.
func (e *PlatformEnums) InitializeMaps() {
	e.initOnce.Do(func() {
		e.adminEventTypesMap = make(map[string]struct{}, len(e.AdminEventTypes))
		for _, t := range e.AdminEventTypes {
			e.adminEventTypesMap[t] = struct{}{}
		}

		e.adminEventActionsMap = make(map[string]struct{}, len(e.AdminEventActions))
		for _, a := range e.AdminEventActions {
			e.adminEventActionsMap[a] = struct{}{}
		}

		e.notificationKindsMap = make(map[string]struct{}, len(e.NotificationKinds))
		for _, k := range e.NotificationKinds {
			e.notificationKindsMap[k] = struct{}{}
		}

		e.documentTypesMap = make(map[string]struct{}, len(e.DocumentTypes))
		for _, d := range e.DocumentTypes {
			e.documentTypesMap[d] = struct{}{}
		}
	})
}

// IsValidAdminEventType checks if the given event type is valid
func (e *PlatformEnums) IsValidAdminEventType(eventType string) bool {
	_, exists := e.adminEventTypesMap[eventType]
	return exists
}

// IsValidAdminEventAction checks if the given action is valid
func (e *PlatformEnums) IsValidAdminEventAction(action string) bool {
	_, exists := e.adminEventActionsMap[action]
	return exists
}

// IsValidNotificationKind checks if the given notification kind is valid
func (e *PlatformEnums) IsValidNotificationKind(kind string) bool {
	_, exists := e.notificationKindsMap[kind]
	return exists
}

// IsValidDocumentType checks if the given document type is valid
func (e *PlatformEnums) IsValidDocumentType(documentType string) bool {
	_, exists := e.documentTypesMap[documentType]
	return exists
}
