package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pawfectmatch/platform-backend/broadcast"
	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/models"
)

// BroadcastProcessor feeds stream messages into the local broadcaster.
// CONFIG events additionally decode their payload as a versioned config
// update; stale versions are dropped by the broadcaster's guard, which makes
// redelivery of already-applied config events harmless.
type BroadcastProcessor struct {
	caster *broadcast.Broadcaster
	origin string
}

// NewBroadcastProcessor creates a processor fanning into the broadcaster.
func NewBroadcastProcessor(caster *broadcast.Broadcaster) *BroadcastProcessor {
	return &BroadcastProcessor{caster: caster, origin: config.InstanceName()}
}

// ProcessAdminEvent implements AdminEventProcessor.
func (p *BroadcastProcessor) ProcessAdminEvent(ctx context.Context, fields map[string]string) error {
	event, err := models.AdminEventFromStream(fields)
	if err != nil {
		return fmt.Errorf("malformed admin event: %w", err)
	}

	if event.Origin != "" && event.Origin == p.origin {
		// This instance already fanned the event out at publish time.
		return nil
	}

	if event.EventType == models.AdminEventTypeConfig && len(event.Payload) > 0 {
		var update broadcast.ConfigUpdate
		if err := json.Unmarshal(event.Payload, &update); err != nil {
			return fmt.Errorf("malformed config payload: %w", err)
		}
		p.caster.PublishConfig(update)
	}

	p.caster.PublishEvent(event)
	return nil
}
