package rabbitmq

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// Defaults used when Config leaves them empty.
const (
	DefaultExchange = "vetrina.events"
	DefaultQueue    = "vetrina.notifications"
)

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	cfg     Config
	// amqp channels are not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL      string
	Exchange string
	Queue    string
}

func (c Config) withDefaults() Config {
	if c.Exchange == "" {
		c.Exchange = DefaultExchange
	}
	if c.Queue == "" {
		c.Queue = DefaultQueue
	}
	return c
}

// NewClient connects to RabbitMQ, declares the durable topic exchange events
// are published on and the notifications queue bound to every routing key.
func NewClient(cfg Config) (*Client, error) {
	cfg = cfg.withDefaults()

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "failed to open channel")
	}

	if err := declare(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	log.WithFields(log.Fields{"exchange": cfg.Exchange, "queue": cfg.Queue}).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		cfg:     cfg,
	}, nil
}

func declare(ch *amqp.Channel, cfg Config) error {
	err := ch.ExchangeDeclare(
		cfg.Exchange, // name
		"topic",      // kind
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "failed to declare exchange %s", cfg.Exchange)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "failed to declare queue %s", cfg.Queue)
	}

	if err := ch.QueueBind(cfg.Queue, "#", cfg.Exchange, false, nil); err != nil {
		return errors.Wrapf(err, "failed to bind queue %s", cfg.Queue)
	}
	return nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "failed to close channel"))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, errors.Wrap(err, "failed to close connection"))
		}
	}
	if len(errs) > 0 {
		return errors.Errorf("errors during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message with the given routing key.
func (c *Client) Publish(routingKey string, body []byte) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.channel.Publish(
		c.cfg.Exchange, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return errors.Wrapf(err, "failed to publish %s", routingKey)
	}

	log.WithField("routing_key", routingKey).Debugf("Sent event: %s", body)
	return nil
}

// Handler processes the body of one message.
type Handler func(routingKey string, body []byte) error

// ConsumeNotifications starts a goroutine delivering messages of the
// notifications queue to handler. Messages are acknowledged when handler
// succeeds and dropped otherwise; a message that failed once would fail again.
func (c *Client) ConsumeNotifications(handler Handler) error {
	if c.channel == nil {
		return errors.New("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.cfg.Queue, // queue
		"",          // consumer tag
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return errors.Wrap(err, "failed to register consumer")
	}

	log.WithField("queue", c.cfg.Queue).Info("Waiting for notification events")

	go func() {
		for msg := range msgs {
			process(msg, handler)
		}
		log.WithField("queue", c.cfg.Queue).Info("Notification consumer stopped")
	}()
	return nil
}

func process(msg amqp.Delivery, handler Handler) {
	if err := handler(msg.RoutingKey, msg.Body); err != nil {
		log.WithError(err).WithField("delivery_tag", msg.DeliveryTag).Error("Error processing message")
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.WithError(nackErr).WithField("delivery_tag", msg.DeliveryTag).Error("Error nacking message")
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		log.WithError(ackErr).WithField("delivery_tag", msg.DeliveryTag).Error("Error acking message")
	}
}
