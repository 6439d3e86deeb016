package events

import (
	"context"
	"time"

	"github.com/maro14/fauxdoorz/pkg/kafka"
	kafkaconfig "github.com/maro14/fauxdoorz/pkg/kafka/config"
	kafkamiddleware "github.com/maro14/fauxdoorz/pkg/kafka/middleware"
	"github.com/maro14/fauxdoorz/pkg/middleware"
	"github.com/maro14/fauxdoorz/pkg/model"
)

const (
	Topic    = "bookings.events"
	DLQTopic = "bookings.events.dlq"

	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	schemaVersion = "1"
	source        = "fauxdoorz-api"
)

// BookingEvent is the payload carried by every booking lifecycle message.
type BookingEvent struct {
	BookingID  string    `json:"bookingId"`
	PropertyID string    `json:"propertyId"`
	UserID     string    `json:"userId"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	TotalPrice float64   `json:"totalPrice"`
	GuestCount int       `json:"guestCount"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher emits booking lifecycle events, keyed by booking ID so a
// single booking's events stay ordered.
type Publisher struct {
	producer *kafka.Producer
}

func NewPublisher(cfg *kafkaconfig.Config) (*Publisher, error) {
	producer, err := kafka.NewProducer(cfg, Topic, DLQTopic)
	if err != nil {
		return nil, err
	}

	if cfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware())
		producer.Use(kafkamiddleware.MetricsProducerMiddleware())
	}

	return &Publisher{producer: producer}, nil
}

func (p *Publisher) BookingCreated(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCreated, booking)
}

func (p *Publisher) BookingCancelled(ctx context.Context, booking *model.Booking) error {
	return p.publish(ctx, EventBookingCancelled, booking)
}

func (p *Publisher) publish(ctx context.Context, eventType string, booking *model.Booking) error {
	event := BookingEvent{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		UserID:     booking.UserID,
		StartDate:  booking.StartDate,
		EndDate:    booking.EndDate,
		TotalPrice: booking.TotalPrice,
		GuestCount: booking.GuestCount,
		Status:     booking.Status,
		OccurredAt: time.Now().UTC(),
	}

	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(eventType).
		WithCorrelationID(middleware.RequestIDFromContext(ctx)).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *Publisher) Close() error {
	return p.producer.Close()
}
