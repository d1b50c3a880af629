package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/duskdeveloper/discord-level-bot/events"
	"github.com/duskdeveloper/discord-level-bot/infrastructure/observability"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const sourceService = "discord-level-bot"

// MessagePublisher defines the interface for publishing messages to a message bus
type MessagePublisher interface {
	// Publish publishes a message to the specified subject
	Publish(ctx context.Context, subject string, data []byte) error
}

// EventEnvelope wraps a domain event for the wire
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// guildEvent is implemented by every event that belongs to a guild
type guildEvent interface {
	events.Event
	EventGuildID() int64
}

// EventForwarder republishes committed leveling events to the message bus
type EventForwarder struct {
	publisher MessagePublisher
	timeout   time.Duration
}

// NewEventForwarder creates a forwarder that publishes through publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		timeout:   5 * time.Second,
	}
}

// Register subscribes the forwarder to every leveling event type on bus
func (f *EventForwarder) Register(bus *events.Bus) {
	bus.Subscribe(events.EventTypeLevelUp, f.handle)
	bus.Subscribe(events.EventTypeXPAdjusted, f.handle)
}

// SubjectFor returns the subject an event is published on: levels.<type>.<guild>
func SubjectFor(event events.Event) string {
	if ge, ok := event.(guildEvent); ok {
		return fmt.Sprintf("levels.%s.%d", event.Type(), ge.EventGuildID())
	}
	return fmt.Sprintf("levels.%s", event.Type())
}

// Encode builds the envelope for an event
func Encode(event events.Event) ([]byte, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event envelope: %w", err)
	}
	return data, nil
}

// Forward encodes and publishes one event
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}

	subject := SubjectFor(event)
	if err := f.publisher.Publish(ctx, subject, data); err != nil {
		return err
	}

	observability.GetMetrics().RecordNATSMessagePublished(string(event.Type()))
	return nil
}

func (f *EventForwarder) handle(ctx context.Context, event events.Event) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"event_type": event.Type(),
			"error":      err,
		}).Error("Failed to forward event to message bus")
	}
}
