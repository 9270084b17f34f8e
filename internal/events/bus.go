// Package events carries state-change notifications from the stores to
// presentation subscribers over an in-process watermill pub/sub.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
)

// Topics published by the engine.
const (
	TopicProgression  = "progression.updated"
	TopicNotification = "notification.changed"
	TopicAlert        = "alert.raised"
	TopicRace         = "race.updated"
	TopicLeaderboard  = "leaderboard.updated"
	TopicSharedNotes  = "sharednotes.updated"
	TopicNotes        = "notes.updated"
)

// AllTopics lists every topic, in a stable order.
var AllTopics = []string{
	TopicProgression,
	TopicNotification,
	TopicAlert,
	TopicRace,
	TopicLeaderboard,
	TopicSharedNotes,
	TopicNotes,
}

// Event is one delivered notification with its JSON payload.
type Event struct {
	Topic   string          `json:"type"`
	Payload json.RawMessage `json:"data"`
}

// Bus publishes JSON-encoded snapshots to in-process subscribers.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    *slog.Logger
}

// NewBus creates a Bus backed by a watermill go channel. Publish waits for
// every subscriber to ack, so a subscriber sees one topic's events in
// publish order.
func NewBus(logger *slog.Logger) *Bus {
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NewSlogLogger(logger),
	)
	return &Bus{
		pubsub: pubsub,
		log:    logger.With("component", "events"),
	}
}

// Publish encodes payload and hands it to current subscribers. Publishing is
// best-effort: failures are logged and never reach the caller.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.WarnContext(ctx, "encode event", slog.String("topic", topic), slog.String("error", err.Error()))
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		b.log.WarnContext(ctx, "publish event", slog.String("topic", topic), slog.String("error", err.Error()))
	}
}

// Subscribe merges the given topics into one channel. A message is acked
// once it is queued on the channel; order is kept within a topic. The
// channel is closed after ctx is cancelled.
func (b *Bus) Subscribe(ctx context.Context, topics ...string) (<-chan Event, error) {
	out := make(chan Event, 64)
	var wg sync.WaitGroup

	for _, topic := range topics {
		msgs, err := b.pubsub.Subscribe(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for msg := range msgs {
				select {
				case out <- Event{Topic: topic, Payload: json.RawMessage(msg.Payload)}:
				case <-ctx.Done():
				}
				msg.Ack()
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}

// Close shuts the underlying pub/sub down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Discard is a publisher that drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, string, any) {}
