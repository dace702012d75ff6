package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// publishTimeout bounds one publish, dial and handshake included.  It runs
// on the request path after the allocation has committed.
const publishTimeout = 2 * time.Second

// Publisher sends allocation events to RabbitMQ.  Each publish opens its
// own connection and channel.
type Publisher struct {
	url     string
	timeout time.Duration
	log     *zap.Logger
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, timeout: publishTimeout, log: log.Named("publisher")}
}

// PublishAllocation publishes ev as a persistent JSON message.  Errors
// are logged and returned; callers are free to ignore them.
func (p *Publisher) PublishAllocation(ctx context.Context, ev AllocationEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event failed", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeout),
	})
	if err != nil {
		p.log.Warn("dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch); err != nil {
		p.log.Warn("queue declare failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(ev.Type),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", AllocationQueue, false, false, pub); err != nil {
		p.log.Warn("publish failed", zap.Error(err), zap.String("type", string(ev.Type)))
		return err
	}
	return nil
}

// declare makes sure the durable allocation queue exists.
func declare(ch *amqp.Channel) error {
	_, err := ch.QueueDeclare(
		AllocationQueue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	return err
}
