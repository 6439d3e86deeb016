package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/maro14/fauxdoorz/internal/notifier"
	propertiesrepository "github.com/maro14/fauxdoorz/internal/properties/repository"
	usersrepository "github.com/maro14/fauxdoorz/internal/users/repository"
	"github.com/maro14/fauxdoorz/pkg/config"
	kafkaconfig "github.com/maro14/fauxdoorz/pkg/kafka/config"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	kcfg := kafkaconfig.Load()
	kcfg.LogConfiguration(cfg.Log.Info)

	n := notifier.New(
		usersrepository.NewMongoUserRepository(cfg),
		propertiesrepository.NewMongoPropertyRepository(cfg),
		cfg,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	if err := n.Run(ctx, kcfg); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Fatal("Notifier stopped", "error", err)
	}
	cfg.Log.Info("Notifier stopped gracefully")
}
