package main

import (
	"github.com/maro14/fauxdoorz/internal/auth"
	"github.com/maro14/fauxdoorz/internal/bookings/events"
	bookingshandler "github.com/maro14/fauxdoorz/internal/bookings/handler"
	bookingsrepository "github.com/maro14/fauxdoorz/internal/bookings/repository"
	bookingsservice "github.com/maro14/fauxdoorz/internal/bookings/service"
	bookingsvalidator "github.com/maro14/fauxdoorz/internal/bookings/validator"
	propertieshandler "github.com/maro14/fauxdoorz/internal/properties/handler"
	propertiesrepository "github.com/maro14/fauxdoorz/internal/properties/repository"
	propertiesservice "github.com/maro14/fauxdoorz/internal/properties/service"
	propertiesvalidator "github.com/maro14/fauxdoorz/internal/properties/validator"
	usershandler "github.com/maro14/fauxdoorz/internal/users/handler"
	usersrepository "github.com/maro14/fauxdoorz/internal/users/repository"
	usersservice "github.com/maro14/fauxdoorz/internal/users/service"
	usersvalidator "github.com/maro14/fauxdoorz/internal/users/validator"
	"github.com/maro14/fauxdoorz/pkg/app"
	"github.com/maro14/fauxdoorz/pkg/config"
	"github.com/maro14/fauxdoorz/pkg/contracts"
	kafkaconfig "github.com/maro14/fauxdoorz/pkg/kafka/config"
)

const ServiceName = "api"

func main() {
	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting fauxdoorz API")

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	handlers, publisher := initServices(cfg, tokens)
	if publisher != nil {
		defer publisher.Close()
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config, tokens *auth.TokenManager) ([]contracts.Handler, *events.Publisher) {
	userRepo := usersrepository.NewMongoUserRepository(cfg)
	propertyRepo := propertiesrepository.NewMongoPropertyRepository(cfg)
	bookingRepo := bookingsrepository.NewMongoBookingRepository(cfg)
	lockRepo := bookingsrepository.NewBookingLockRepository(cfg)

	publisher, err := events.NewPublisher(kafkaconfig.Load())
	if err != nil {
		// The API stays up without the event stream; bookings simply go
		// unannounced until Kafka is back.
		cfg.Log.Warn("Booking events disabled", "error", err)
		publisher = nil
	}

	userService := usersservice.NewUserService(
		userRepo,
		usersvalidator.NewUserValidator(cfg.Log),
		tokens,
		cfg,
	)
	propertyService := propertiesservice.NewPropertyService(
		propertyRepo,
		userRepo,
		propertiesvalidator.NewPropertyValidator(cfg.Log),
		cfg,
	)

	var eventSink bookingsservice.EventPublisher
	if publisher != nil {
		eventSink = publisher
	}
	bookingService := bookingsservice.NewBookingService(
		bookingRepo,
		lockRepo,
		propertyRepo,
		bookingsvalidator.NewBookingValidator(cfg.Log),
		eventSink,
		cfg,
	)

	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	return []contracts.Handler{
		usershandler.NewUserHandler(userService, tokens, cfg.Log),
		propertieshandler.NewPropertyHandler(propertyService, tokens, cfg.Log),
		bookingshandler.NewBookingHandler(bookingService, tokens, cfg.Log),
	}, publisher
}
