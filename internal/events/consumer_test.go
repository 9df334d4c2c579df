package events

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/EO-DataHub/eodhp-user-admin/models"
	"github.com/apache/pulsar-client-go/pulsar"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMessage struct {
	pulsar.Message
	key     string
	payload []byte
}

func (m *fakeMessage) Key() string     { return m.key }
func (m *fakeMessage) Payload() []byte { return m.payload }

// fakeConsumer serves queued messages, then fails every Receive with err or,
// when err is nil, cancels and blocks until ctx is done.
type fakeConsumer struct {
	pulsar.Consumer

	mu       sync.Mutex
	queue    []pulsar.Message
	err      error
	cancel   context.CancelFunc
	receives int
	acked    []string
	nacked   []string
}

func (f *fakeConsumer) Receive(ctx context.Context) (pulsar.Message, error) {
	f.mu.Lock()
	f.receives++
	if len(f.queue) > 0 {
		msg := f.queue[0]
		f.queue = f.queue[1:]
		f.mu.Unlock()
		return msg, nil
	}
	err := f.err
	f.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if f.cancel != nil {
		f.cancel()
	}
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeConsumer) Ack(msg pulsar.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.acked = append(f.acked, msg.Key())
	return nil
}

func (f *fakeConsumer) Nack(msg pulsar.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nacked = append(f.nacked, msg.Key())
}

func (f *fakeConsumer) receiveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.receives
}

func eventMessage(t *testing.T, key string, event UserEvent) pulsar.Message {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	return &fakeMessage{key: key, payload: payload}
}

func TestConsume_BacksOffOnReceiveError(t *testing.T) {
	fake := &fakeConsumer{err: errors.New("connection closed")}
	c := &EventConsumer{consumer: fake, minBackoff: 10 * time.Millisecond, maxBackoff: 40 * time.Millisecond}
	nop := zerolog.Nop()
	c.log = &nop

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	err := c.Consume(ctx, func(context.Context, UserEvent) error { return nil })

	require.NoError(t, err)
	assert.GreaterOrEqual(t, fake.receiveCount(), 2)
	assert.LessOrEqual(t, fake.receiveCount(), 15)
}

func TestConsume_AcksHandledAndMalformed_NacksFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &fakeConsumer{
		queue: []pulsar.Message{
			eventMessage(t, "ok", NewUserEvent(ActionDeleted, 1, "")),
			&fakeMessage{key: "malformed", payload: []byte("{not json")},
			eventMessage(t, "fails", NewUserEvent(ActionStatusChanged, 2, models.StatusInactive)),
		},
		cancel: cancel,
	}
	c := &EventConsumer{consumer: fake, minBackoff: time.Millisecond, maxBackoff: time.Millisecond}
	nop := zerolog.Nop()
	c.log = &nop

	var handled []int
	err := c.Consume(ctx, func(_ context.Context, event UserEvent) error {
		handled = append(handled, event.UserID)
		if event.UserID == 2 {
			return errors.New("downstream unavailable")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, handled)
	assert.Equal(t, []string{"ok", "malformed"}, fake.acked)
	assert.Equal(t, []string{"fails"}, fake.nacked)
}
