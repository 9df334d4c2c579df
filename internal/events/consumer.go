package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
)

// Handler processes a decoded user event. Returning an error nacks the message.
type Handler func(ctx context.Context, event UserEvent) error

// Receive failures are retried after a doubling delay within these bounds.
const (
	MinReceiveBackoff = 100 * time.Millisecond
	MaxReceiveBackoff = 5 * time.Second
)

type EventConsumer struct {
	client     pulsar.Client
	consumer   pulsar.Consumer
	log        *zerolog.Logger
	minBackoff time.Duration
	maxBackoff time.Duration
}

// NewEventConsumer subscribes to the user event topic.
func NewEventConsumer(pulsarURL, topic, subscription string, log *zerolog.Logger) (*EventConsumer, error) {
	client, err := pulsar.NewClient(pulsar.ClientOptions{URL: pulsarURL})
	if err != nil {
		return nil, fmt.Errorf("could not create Pulsar client: %w", err)
	}

	consumer, err := client.Subscribe(pulsar.ConsumerOptions{
		Topic:            topic,
		SubscriptionName: subscription,
		Type:             pulsar.Shared,
		DLQ: &pulsar.DLQPolicy{
			MaxDeliveries:   3,
			DeadLetterTopic: topic + "-dlq",
		},
	})
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("could not create Pulsar consumer: %w", err)
	}

	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	return &EventConsumer{
		client:     client,
		consumer:   consumer,
		log:        log,
		minBackoff: MinReceiveBackoff,
		maxBackoff: MaxReceiveBackoff,
	}, nil
}

// Consume receives user events until ctx is done. Undecodable payloads are
// acked and dropped; handler failures are nacked for redelivery. Receive
// errors back off exponentially up to the consumer's maximum delay.
func (c *EventConsumer) Consume(ctx context.Context, handle Handler) error {
	backoff := c.minBackoff
	for {
		msg, err := c.consumer.Receive(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return nil
			}
			c.log.Error().Err(err).Dur("retry_in", backoff).Msg("Error receiving message")
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, c.maxBackoff)
			continue
		}
		backoff = c.minBackoff

		event, err := DecodeUserEvent(msg.Payload())
		if err != nil {
			c.log.Warn().Err(err).Str("key", msg.Key()).Msg("Dropping malformed user event")
			c.consumer.Ack(msg)
			continue
		}

		if err := handle(ctx, event); err != nil {
			c.log.Error().Err(err).Str("event_id", event.ID.String()).Msg("Failed to handle user event")
			c.consumer.Nack(msg)
			continue
		}
		c.consumer.Ack(msg)
	}
}

// Close cleans up the Pulsar consumer and client.
func (c *EventConsumer) Close() {
	c.consumer.Close()
	c.client.Close()
}
