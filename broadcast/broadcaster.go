// Package broadcast fans admin sync events and versioned config updates out
// to locally registered subscribers. Delivery is best-effort: no ordering
// guarantee across subscribers, and config propagation is last-write-wins
// guarded by a per-type monotonic version counter.
package broadcast

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/pawfectmatch/platform-backend/models"
)

// ConfigUpdate is a versioned configuration change delivered to config
// subscribers.
type ConfigUpdate struct {
	ConfigType string          `json:"configType"`
	Value      json.RawMessage `json:"value"`
	Version    int64           `json:"version"`
	UpdatedBy  string          `json:"updatedBy,omitempty"`
}

// EventHandler receives admin sync events.
type EventHandler func(event *models.AdminEvent)

// ConfigHandler receives config updates for a subscribed config type.
type ConfigHandler func(update ConfigUpdate)

// Broadcaster is the local subscriber registry. It is safe for concurrent
// use; callbacks run on the publisher's goroutine and panics in callbacks
// are recovered and logged so one subscriber cannot poison the fan-out.
type Broadcaster struct {
	mu sync.RWMutex

	nextID        int
	eventSubs     map[int]EventHandler
	configSubs    map[string]map[int]ConfigHandler
	seenVersions  map[string]int64
	droppedStale  int64
	eventsFanned  int64
	configsFanned int64
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		eventSubs:    make(map[int]EventHandler),
		configSubs:   make(map[string]map[int]ConfigHandler),
		seenVersions: make(map[string]int64),
	}
}

// SubscribeEvents registers a handler for all admin sync events. The
// returned function removes the subscription.
func (b *Broadcaster) SubscribeEvents(handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.eventSubs[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.eventSubs, id)
	}
}

// SubscribeConfig registers a handler for updates of one config type. The
// returned function removes the subscription.
func (b *Broadcaster) SubscribeConfig(configType string, handler ConfigHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	subs, ok := b.configSubs[configType]
	if !ok {
		subs = make(map[int]ConfigHandler)
		b.configSubs[configType] = subs
	}
	subs[id] = handler

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if subs, ok := b.configSubs[configType]; ok {
			delete(subs, id)
		}
	}
}

// PublishEvent delivers an admin sync event to all event subscribers.
func (b *Broadcaster) PublishEvent(event *models.AdminEvent) {
	b.mu.RLock()
	handlers := make([]EventHandler, 0, len(b.eventSubs))
	for _, h := range b.eventSubs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		b.deliverEvent(h, event)
	}

	b.mu.Lock()
	b.eventsFanned++
	b.mu.Unlock()
}

// PublishConfig delivers a config update to subscribers of its type. Updates
// whose version is not newer than the last one seen for that type are
// dropped; this keeps propagation last-write-wins under redelivery.
func (b *Broadcaster) PublishConfig(update ConfigUpdate) bool {
	b.mu.Lock()
	if last, ok := b.seenVersions[update.ConfigType]; ok && update.Version <= last {
		b.droppedStale++
		b.mu.Unlock()
		slog.Debug("Dropping stale config update",
			"configType", update.ConfigType, "version", update.Version, "seen", last)
		return false
	}
	b.seenVersions[update.ConfigType] = update.Version
	b.configsFanned++

	handlers := make([]ConfigHandler, 0)
	for _, h := range b.configSubs[update.ConfigType] {
		handlers = append(handlers, h)
	}
	b.mu.Unlock()

	for _, h := range handlers {
		b.deliverConfig(h, update)
	}
	return true
}

// SeenVersion returns the highest version observed for a config type.
func (b *Broadcaster) SeenVersion(configType string) int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.seenVersions[configType]
}

// Stats reports fan-out counters for introspection endpoints.
func (b *Broadcaster) Stats() map[string]int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return map[string]int64{
		"eventsFanned":  b.eventsFanned,
		"configsFanned": b.configsFanned,
		"droppedStale":  b.droppedStale,
	}
}

func (b *Broadcaster) deliverEvent(h EventHandler, event *models.AdminEvent) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Admin event subscriber panicked", "panic", r, "eventId", event.ID)
		}
	}()
	h(event)
}

func (b *Broadcaster) deliverConfig(h ConfigHandler, update ConfigUpdate) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Config subscriber panicked", "panic", r, "configType", update.ConfigType)
		}
	}()
	h(update)
}
