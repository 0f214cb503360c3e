package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog/log"
)

// Board lifecycle actions published for downstream consumers. This stream
// is integration plumbing only: clients observe state through polling, not
// through these events.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionCompleted = "completed"
)

// EventPayload describes one board mutation.
type EventPayload struct {
	Action    string `json:"action"`
	Entity    string `json:"entity"` // task or group
	EntityID  string `json:"entityId"`
	Actor     string `json:"actor"`
	Timestamp int64  `json:"timestamp"`
}

// Notifier publishes board events. Delivery is fire-and-forget: callers log
// failures and carry on.
type Notifier interface {
	Notify(event EventPayload) error
	Close()
}

// EventPublisher is the Pulsar-backed Notifier.
type EventPublisher struct {
	client   pulsar.Client
	producer pulsar.Producer
}

// NewEventPublisher initializes the Pulsar client and producer.
func NewEventPublisher(pulsarURL, topic string) (*EventPublisher, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{
		URL: pulsarURL,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	producer, err := client.CreateProducer(pulsar.ProducerOptions{
		Topic: topic,
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar producer: %w", err)
	}

	return &EventPublisher{client: client, producer: producer}, nil
}

// Notify publishes one event to the board topic.
func (p *EventPublisher) Notify(event EventPayload) error {
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UTC().Unix()
	}

	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := p.producer.Send(ctx, &pulsar.ProducerMessage{Payload: message}); err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}

	log.Debug().Str("entity", event.Entity).Str("action", event.Action).Msg("board event published")
	return nil
}

// Close closes the Pulsar producer and client.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
}

// NoopNotifier is used when no Pulsar URL is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(EventPayload) error { return nil }
func (NoopNotifier) Close()                    {}
