package notifier

import (
	"context"
	"fmt"

	"github.com/maro14/fauxdoorz/internal/bookings/events"
	propertiesrepository "github.com/maro14/fauxdoorz/internal/properties/repository"
	usersrepository "github.com/maro14/fauxdoorz/internal/users/repository"
	"github.com/maro14/fauxdoorz/pkg/config"
	"github.com/maro14/fauxdoorz/pkg/kafka"
	kafkaconfig "github.com/maro14/fauxdoorz/pkg/kafka/config"
	kafkamiddleware "github.com/maro14/fauxdoorz/pkg/kafka/middleware"
)

const ConsumerGroup = "fauxdoorz-notifier"

// Notifier consumes booking lifecycle events and notifies the guest and
// the host. Delivery is a structured log line for now; a mail or push
// provider plugs in behind notify.
type Notifier struct {
	users      usersrepository.UserRepository
	properties propertiesrepository.PropertyRepository
	cfg        *config.Config
}

func New(
	users usersrepository.UserRepository,
	properties propertiesrepository.PropertyRepository,
	cfg *config.Config,
) *Notifier {
	return &Notifier{
		users:      users,
		properties: properties,
		cfg:        cfg,
	}
}

// Run consumes booking events until the context is cancelled.
func (n *Notifier) Run(ctx context.Context, kcfg *kafkaconfig.Config) error {
	consumer, err := kafka.NewConsumer(kcfg, events.Topic, ConsumerGroup, events.DLQTopic, n.Handle)
	if err != nil {
		return fmt.Errorf("failed to create consumer: %w", err)
	}
	defer consumer.Close()

	if kcfg.EnableMiddleware {
		consumer.Use(kafkamiddleware.LoggingConsumerMiddleware())
		consumer.Use(kafkamiddleware.MetricsConsumerMiddleware())
	}

	n.cfg.Log.Info("Notifier started", "topic", events.Topic, "group", ConsumerGroup)
	return consumer.Start(ctx)
}

func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.BookingEvent
	if err := msg.DecodeValue(&event); err != nil {
		return kafka.NewPermanentError("invalid booking event payload", err)
	}

	switch msg.GetEventType() {
	case events.EventBookingCreated:
		return n.notify(ctx, "booking request received", event)
	case events.EventBookingCancelled:
		return n.notify(ctx, "booking cancelled", event)
	default:
		n.cfg.Log.Warn("Ignoring unknown event type", "event_type", msg.GetEventType(), "event_id", msg.GetEventID())
		return nil
	}
}

func (n *Notifier) notify(ctx context.Context, subject string, event events.BookingEvent) error {
	guest, err := n.users.FindByID(ctx, event.UserID)
	if err != nil {
		return kafka.NewTransientError("failed to load guest", err)
	}

	property, err := n.properties.FindByID(ctx, event.PropertyID)
	if err != nil {
		return kafka.NewTransientError("failed to load property", err)
	}

	host, err := n.users.FindByID(ctx, property.OwnerID)
	if err != nil {
		return kafka.NewTransientError("failed to load host", err)
	}

	n.cfg.Log.Info("Notifying guest",
		"subject", subject,
		"email", guest.Email,
		"booking", event.BookingID,
		"property", property.Title,
		"start_date", event.StartDate,
		"end_date", event.EndDate,
	)
	n.cfg.Log.Info("Notifying host",
		"subject", subject,
		"email", host.Email,
		"booking", event.BookingID,
		"property", property.Title,
		"guests", event.GuestCount,
	)

	return nil
}
