// Package queue publishes user-facing notifications to RabbitMQ so other
// front-desk screens can pick them up.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"hotel-pms/models"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher dials per publish. Notifications are rare enough that a pooled
// connection is not worth its reconnect logic.
type Publisher struct {
	url       string
	queueName string
	log       *zap.Logger
	timeout   time.Duration
}

func NewPublisher(url, queueName string, log *zap.Logger) *Publisher {
	return &Publisher{url: url, queueName: queueName, log: log, timeout: 3 * time.Second}
}

// Publish sends one notification as a persistent JSON message on a durable
// queue.
func (p *Publisher) Publish(ctx context.Context, n models.Notification) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    n.At,
		Body:         body,
	})
}

// Notify implements services.Notifier. Delivery runs in the background and
// failures are only logged.
func (p *Publisher) Notify(ctx context.Context, kind models.NotificationKind, message string) {
	n := models.Notification{Kind: kind, Message: message, At: time.Now().UTC()}
	// detach from the request so a finished response does not cancel delivery
	bg := context.WithoutCancel(ctx)
	go func() {
		if err := p.Publish(bg, n); err != nil {
			p.log.Warn("notification not published",
				zap.String("queue", p.queueName),
				zap.String("kind", string(kind)),
				zap.Error(err),
			)
		}
	}()
}
