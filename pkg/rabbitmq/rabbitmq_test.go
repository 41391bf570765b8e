package rabbitmq

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAck struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (f *fakeAck) Ack(multiple bool) error {
	f.acked = true
	return nil
}

func (f *fakeAck) Nack(multiple, requeue bool) error {
	f.nacked = true
	f.requeue = requeue
	return nil
}

func TestNewEvent_Envelope(t *testing.T) {
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	body, err := NewEvent("product.created", map[string]string{"id": "p1"}, now)
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(body, &event))
	assert.Equal(t, "product.created", event.Type)
	assert.JSONEq(t, `{"id":"p1"}`, string(event.Payload))
	assert.True(t, now.Equal(event.OccurredAt))
}

func TestProcessDelivery(t *testing.T) {
	body, err := NewEvent("user.signup_otp", map[string]string{"email": "a@b.c"}, time.Now())
	require.NoError(t, err)

	t.Run("acks handled events", func(t *testing.T) {
		ack := &fakeAck{}
		var got string
		processDelivery(1, body, ack, func(e Event) error {
			got = e.Type
			return nil
		})
		assert.Equal(t, "user.signup_otp", got)
		assert.True(t, ack.acked)
		assert.False(t, ack.nacked)
	})

	t.Run("requeues on handler error", func(t *testing.T) {
		ack := &fakeAck{}
		processDelivery(2, body, ack, func(Event) error { return errors.New("boom") })
		assert.True(t, ack.nacked)
		assert.True(t, ack.requeue)
	})

	t.Run("drops malformed bodies", func(t *testing.T) {
		ack := &fakeAck{}
		called := false
		processDelivery(3, []byte("not json"), ack, func(Event) error {
			called = true
			return nil
		})
		assert.False(t, called)
		assert.True(t, ack.nacked)
		assert.False(t, ack.requeue)
	})
}

type binding struct {
	queue    string
	exchange string
}

type fakeChannel struct {
	exchanges  map[string]string
	queues     []string
	bindings   []binding
	published  []string
	consumed   []string
	deliveries chan amqp.Delivery
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{exchanges: map[string]string{}, deliveries: make(chan amqp.Delivery)}
}

func (f *fakeChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	f.exchanges[name] = kind
	return nil
}

func (f *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	if name == "" {
		name = "amq.gen-logger"
	}
	f.queues = append(f.queues, name)
	return amqp.Queue{Name: name}, nil
}

func (f *fakeChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	f.bindings = append(f.bindings, binding{queue: name, exchange: exchange})
	return nil
}

func (f *fakeChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	f.published = append(f.published, exchange)
	return nil
}

func (f *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	f.consumed = append(f.consumed, queue)
	return f.deliveries, nil
}

func (f *fakeChannel) Close() error { return nil }

func TestClient_LoggerDoesNotShareNotificationQueue(t *testing.T) {
	ch := newFakeChannel()
	client, err := newClient(ch, Config{Exchange: "catalog.events", Queue: "catalog_events"})
	require.NoError(t, err)

	assert.Equal(t, "fanout", ch.exchanges["catalog.events"])
	assert.Contains(t, ch.bindings, binding{queue: "catalog_events", exchange: "catalog.events"})

	require.NoError(t, client.PublishEvent("user.signup_otp", map[string]string{"email": "a@b.c"}))
	assert.Equal(t, []string{"catalog.events"}, ch.published)

	require.NoError(t, client.ConsumeEvents(LogEvent))
	require.Len(t, ch.consumed, 1)
	assert.NotEqual(t, "catalog_events", ch.consumed[0])
	assert.Contains(t, ch.bindings, binding{queue: ch.consumed[0], exchange: "catalog.events"})
	close(ch.deliveries)
}

func TestLogEvent_MasksCodes(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	body, err := NewEvent("user.signup_otp", map[string]interface{}{
		"email": "a@b.c",
		"code":  "169391",
	}, time.Now())
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(body, &event))
	require.NoError(t, LogEvent(event))

	out := buf.String()
	assert.Contains(t, out, "user.signup_otp")
	assert.Contains(t, out, "a@b.c")
	assert.NotContains(t, out, "169391")
}

func TestLogEvent_NonObjectPayload(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	require.NoError(t, LogEvent(Event{Type: "odd", Payload: json.RawMessage(`"123456"`)}))
	assert.NotContains(t, buf.String(), "123456")
}
