package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/google/uuid"
)

// Action is the kind of change a UserEvent reports.
type Action string

const (
	ActionUpdated       Action = "updated"
	ActionDeleted       Action = "deleted"
	ActionStatusChanged Action = "status_changed"
)

// UserEvent describes a user change that the remote API has confirmed.
type UserEvent struct {
	ID        uuid.UUID     `json:"id"`
	Action    Action        `json:"action"`
	UserID    int           `json:"userId"`
	Status    models.Status `json:"status,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// NewUserEvent stamps a new event with a fresh id and the current time.
func NewUserEvent(action Action, userID int, status models.Status) UserEvent {
	return UserEvent{
		ID:        uuid.New(),
		Action:    action,
		UserID:    userID,
		Status:    status,
		Timestamp: time.Now().Unix(),
	}
}

// Notifier publishes user change events.
type Notifier interface {
	Notify(event UserEvent) error
	Close()
}

// Discard is a Notifier that drops every event.
type Discard struct{}

func (Discard) Notify(UserEvent) error { return nil }
func (Discard) Close() {}

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

// Notify publishes an event to Pulsar, keyed by user id.
func (p *EventPublisher) Notify(event UserEvent) error {
	message, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("could not serialize event payload: %w", err)
	}

	_, err = p.producer.Send(context.Background(), &pulsar.ProducerMessage{
		Key:     fmt.Sprintf("%d", event.UserID),
		Payload: message,
	})
	if err != nil {
		return fmt.Errorf("could not send event to Pulsar: %w", err)
	}
	return nil
}

// Close closes the Pulsar producer and client.
func (p *EventPublisher) Close() {
	p.producer.Close()
	p.client.Close()
}

// DecodeUserEvent parses a message payload produced by EventPublisher.
func DecodeUserEvent(payload []byte) (UserEvent, error) {
	var event UserEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return UserEvent{}, fmt.Errorf("could not decode user event: %w", err)
	}
	return event, nil
}
