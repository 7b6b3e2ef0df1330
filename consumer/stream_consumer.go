// Package consumer reads admin sync events from the Redis stream and hands
// them to a processor. It uses a consumer group so multiple backend
// instances share the stream, reclaims stuck messages, and dead-letters
// messages that keep failing.
package consumer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/pawfectmatch/platform-backend/config"
	"github.com/pawfectmatch/platform-backend/redis"
)

const (
	// StreamName must match services.AdminEventStream.
	StreamName    = "admin-events"
	GroupName     = "platform-backend"
	DLQStreamName = "admin-events_dlq"

	maxRetry       = 5
	blockTimeout   = 5 * time.Second
	pendingTimeout = 1 * time.Minute // Time before a message is considered stuck
)

// AdminEventProcessor defines the interface for processing one message.
// This allows the broadcast fan-in to be injected and mocked.
type AdminEventProcessor interface {
	ProcessAdminEvent(ctx context.Context, fields map[string]string) error
}

// StreamConsumer holds the logic for consuming from the Redis stream.
type StreamConsumer struct {
	client       *redis.Client
	processor    AdminEventProcessor
	consumerName string
}

// NewStreamConsumer creates a new consumer and ensures the stream group
// exists. The consumer name is derived from the hostname so instances do
// not steal each other's in-flight messages.
func NewStreamConsumer(client *redis.Client, processor AdminEventProcessor) (*StreamConsumer, error) {
	ctx := context.Background()

	if err := client.EnsureStreamGroupExists(ctx, StreamName, GroupName); err != nil {
		return nil, err
	}

	hostname := config.InstanceName()

	slog.Info("Consumer group ensured", "stream", StreamName, "group", GroupName, "consumer", hostname)

	return &StreamConsumer{
		client:       client,
		processor:    processor,
		consumerName: hostname,
	}, nil
}

// Start consumes events in a blocking loop. Run it in a goroutine; it
// returns when ctx is cancelled.
func (c *StreamConsumer) Start(ctx context.Context) {
	slog.Info("Starting admin event consumer", "consumer", c.consumerName)
	for {
		select {
		case <-ctx.Done():
			slog.Info("Admin event consumer shutting down")
			return
		default:
			// First reclaim any stuck messages, then read new ones.
			c.claimPendingMessages(ctx)
			c.readNewMessages(ctx)
		}
	}
}

func (c *StreamConsumer) readNewMessages(ctx context.Context) {
	messages, err := c.client.ReadFromStreamGroup(ctx, StreamName, GroupName, c.consumerName, blockTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Error reading from stream group", "error", err)
		time.Sleep(1 * time.Second) // Avoid spamming on repeated errors
		return
	}

	for _, msg := range messages {
		c.processMessage(ctx, msg)
	}
}

// claimPendingMessages checks for stuck messages and processes them.
func (c *StreamConsumer) claimPendingMessages(ctx context.Context) {
	pending, err := c.client.GetPendingMessages(ctx, StreamName, GroupName, c.consumerName)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		slog.Error("Error checking pending messages", "error", err)
		return
	}

	for _, p := range pending {
		if p.Idle <= pendingTimeout {
			continue
		}
		slog.Warn("Re-claiming idle message", "messageId", p.ID, "idle", p.Idle)

		claimed, err := c.client.ClaimMessages(ctx, StreamName, GroupName, c.consumerName, pendingTimeout, []string{p.ID})
		if err != nil {
			slog.Error("Error claiming message", "messageId", p.ID, "error", err)
			continue
		}
		for _, msg := range claimed {
			c.processMessage(ctx, msg)
		}
	}
}

// processMessage runs the processor and acknowledges on success. Messages
// that keep failing past the retry cap move to the dead-letter stream.
func (c *StreamConsumer) processMessage(ctx context.Context, msg goredis.XMessage) {
	fields := stringFields(msg.Values)

	err := c.processor.ProcessAdminEvent(ctx, fields)
	if err == nil {
		if err := c.client.AckMessage(ctx, StreamName, GroupName, msg.ID); err != nil {
			slog.Error("Failed to ack message", "messageId", msg.ID, "error", err)
		}
		return
	}

	slog.Warn("Failed to process admin event", "messageId", msg.ID, "error", err)

	// XPending carries the delivery count; re-read it for this message.
	deliveries := c.deliveryCount(ctx, msg.ID)
	if deliveries <= maxRetry {
		// Not acked, so it will be redelivered later.
		return
	}

	slog.Error("Message exceeded retry limit, moving to DLQ",
		"messageId", msg.ID, "deliveries", deliveries)

	dlqData := make(map[string]interface{}, len(msg.Values)+3)
	for k, v := range msg.Values {
		dlqData[k] = v
	}
	dlqData["_error"] = err.Error()
	dlqData["_original_id"] = msg.ID
	dlqData["_failed_at"] = time.Now().UTC().Format(time.RFC3339)

	if _, dlqErr := c.client.PublishEvent(ctx, DLQStreamName, dlqData); dlqErr != nil {
		// Failed to process AND failed to DLQ: leave unacked so the message
		// is redelivered.
		slog.Error("Could not move message to DLQ", "messageId", msg.ID, "error", dlqErr)
		return
	}

	if err := c.client.AckMessage(ctx, StreamName, GroupName, msg.ID); err != nil {
		slog.Error("Failed to ack message after DLQ", "messageId", msg.ID, "error", err)
	}
}

func (c *StreamConsumer) deliveryCount(ctx context.Context, msgID string) int64 {
	pending, err := c.client.GetPendingMessages(ctx, StreamName, GroupName, c.consumerName)
	if err != nil {
		return 1
	}
	for _, p := range pending {
		if p.ID == msgID {
			return p.RetryCount
		}
	}
	return 1
}

func stringFields(values map[string]interface{}) map[string]string {
	fields := make(map[string]string, len(values))
	for k, v := range values {
		switch s := v.(type) {
		case string:
			fields[k] = s
		default:
			fields[k] = fmt.Sprintf("%v", v)
		}
	}
	return fields
}
