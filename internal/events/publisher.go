// Package events publishes booking lifecycle events to RabbitMQ so
// downstream consumers (notifications, reporting) can react without being in
// the booking request path.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	QueueBookingCreated   = "booking.created"
	QueueBookingCancelled = "booking.cancelled"
)

type BookingEvent struct {
	BookingID   uuid.UUID `json:"bookingId"`
	Reference   string    `json:"reference"`
	UserID      uuid.UUID `json:"userId"`
	ShowID      uuid.UUID `json:"showId"`
	Seats       []string  `json:"seats"`
	TotalAmount string    `json:"totalAmount"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type Publisher interface {
	BookingCreated(ctx context.Context, event BookingEvent) error
	BookingCancelled(ctx context.Context, event BookingEvent) error
	Close() error
}

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPPublisher dials the broker and declares the booking queues, durable
// so messages survive broker restarts.
func NewAMQPPublisher(url string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	for _, queue := range []string{QueueBookingCreated, QueueBookingCancelled} {
		_, err := channel.QueueDeclare(queue, true, false, false, false, nil)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, err
		}
	}

	return &AMQPPublisher{conn: conn, channel: channel}, nil
}

func (p *AMQPPublisher) BookingCreated(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, QueueBookingCreated, event)
}

func (p *AMQPPublisher) BookingCancelled(ctx context.Context, event BookingEvent) error {
	return p.publish(ctx, QueueBookingCancelled, event)
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event BookingEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, "", queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}

	return p.conn.Close()
}

// NoopPublisher satisfies Publisher when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) BookingCreated(context.Context, BookingEvent) error   { return nil }
func (NoopPublisher) BookingCancelled(context.Context, BookingEvent) error { return nil }
func (NoopPublisher) Close() error                                         { return nil }
