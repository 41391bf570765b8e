package rabbitmq

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"
)

// Event is the envelope of every message on the events queue.
type Event struct {
	Type       string          `json:"type"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// channel is the part of *amqp.Channel the client uses.
type channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn     *amqp.Connection
	channel  channel
	exchange string
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details. Events are published to Exchange, a fanout
// exchange; Queue is the durable queue bound to it that notification consumers read.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

// NewClient connects to RabbitMQ, opens a channel and declares the events exchange and queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	client, err := newClient(ch, cfg)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	client.conn = conn

	log.Printf("RabbitMQ client connected, %s bound to %s.", cfg.Queue, cfg.Exchange)
	return client, nil
}

func newClient(ch channel, cfg Config) (*Client, error) {
	if err := declareTopology(ch, cfg.Exchange, cfg.Queue); err != nil {
		return nil, err
	}
	return &Client{
		channel:  ch,
		exchange: cfg.Exchange,
	}, nil
}

func declareTopology(ch channel, exchange, queue string) error {
	err := ch.ExchangeDeclare(
		exchange,
		amqp.ExchangeFanout,
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	_, err = ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare %s: %w", queue, err)
	}

	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", queue, exchange, err)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// NewEvent wraps payload in the event envelope.
func NewEvent(eventType string, payload interface{}, now time.Time) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}
	body, err := json.Marshal(Event{Type: eventType, Payload: raw, OccurredAt: now.UTC()})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}
	return body, nil
}

// PublishEvent publishes a persistent JSON event to the events exchange.
func (c *Client) PublishEvent(eventType string, payload interface{}) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	now := time.Now()
	body, err := NewEvent(eventType, payload, now)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		c.exchange,
		"",    // routing key, ignored by fanout
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         eventType,
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    now,
		})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", eventType, err)
	}

	log.Printf(" [x] Sent %s event", eventType)
	return nil
}

// ConsumeEvents gives handler its own copy of every event published to the exchange, delivered
// from a background goroutine. The copy comes through a private queue, so the notification queue
// keeps all of its messages. Messages are acked when handler returns nil and requeued otherwise;
// bodies that are not valid events are dropped.
func (c *Client) ConsumeEvents(handler func(Event) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	q, err := c.channel.QueueDeclare(
		"",    // server-named
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare consumer queue: %w", err)
	}
	if err := c.channel.QueueBind(q.Name, "", c.exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind %s to %s: %w", q.Name, c.exchange, err)
	}

	msgs, err := c.channel.Consume(
		q.Name,
		"",    // consumer tag
		false, // auto-ack
		true,  // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for events from %s on %s", c.exchange, q.Name)

	go func() {
		for msg := range msgs {
			handleDelivery(msg, handler)
		}
	}()
	return nil
}

type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func handleDelivery(msg amqp.Delivery, handler func(Event) error) {
	processDelivery(msg.DeliveryTag, msg.Body, msg, handler)
}

func processDelivery(tag uint64, body []byte, ack acknowledger, handler func(Event) error) {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("Dropping malformed message %d: %v", tag, err)
		if nackErr := ack.Nack(false, false); nackErr != nil {
			log.Printf("Error nacking message %d: %v", tag, nackErr)
		}
		return
	}

	if err := handler(event); err != nil {
		log.Printf("Error processing %s message %d: %v", event.Type, tag, err)
		if nackErr := ack.Nack(false, true); nackErr != nil {
			log.Printf("Error nacking message %d: %v", tag, nackErr)
		}
		return
	}
	if ackErr := ack.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", tag, ackErr)
	}
}

// sensitiveKeys are payload fields LogEvent never writes out.
var sensitiveKeys = map[string]struct{}{
	"code":     {},
	"password": {},
	"token":    {},
}

// LogEvent is a handler that only records the event, with one-time codes and other secrets masked.
// Email and SMS delivery are done by consumers outside this service.
func LogEvent(event Event) error {
	log.Printf("Received %s event (%s): %s", event.Type, event.OccurredAt.Format(time.RFC3339), redact(event.Payload))
	return nil
}

func redact(payload json.RawMessage) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return fmt.Sprintf("<%d bytes>", len(payload))
	}
	for key := range fields {
		if _, ok := sensitiveKeys[key]; ok {
			fields[key] = json.RawMessage(`"[redacted]"`)
		}
	}
	out, err := json.Marshal(fields)
	if err != nil {
		return fmt.Sprintf("<%d bytes>", len(payload))
	}
	return string(out)
}
