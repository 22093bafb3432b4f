package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"bayview/internal/notifier"
	"bayview/pkg/config"
	"bayview/pkg/kafka"
	kafka_config "bayview/pkg/kafka/config"
	kafkamw "bayview/pkg/kafka/middleware"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	n := notifier.New(cfg.Log)

	bookingConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		"bayview-notifier",
		"dlq-"+ServiceName,
		n.HandleBookingEvent,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create booking events consumer", "error", err)
	}
	defer bookingConsumer.Close()

	prepaymentConsumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.PrepaymentEventsTopic,
		"bayview-notifier",
		"dlq-"+ServiceName,
		n.HandlePrepaymentEvent,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create prepayment events consumer", "error", err)
	}
	defer prepaymentConsumer.Close()

	if kafkaCfg.EnableMiddleware {
		bookingConsumer.Use(kafkamw.LoggingConsumerMiddleware())
		bookingConsumer.Use(kafkamw.MetricsConsumerMiddleware())
		prepaymentConsumer.Use(kafkamw.LoggingConsumerMiddleware())
		prepaymentConsumer.Use(kafkamw.MetricsConsumerMiddleware())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		cfg.Log.Info("Consuming booking events", "topic", cfg.BookingEventsTopic)
		if err := bookingConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Booking events consumer stopped", "error", err)
		}
	}()

	go func() {
		defer wg.Done()
		cfg.Log.Info("Consuming prepayment events", "topic", cfg.PrepaymentEventsTopic)
		if err := prepaymentConsumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			cfg.Log.Error("Prepayment events consumer stopped", "error", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	sig := <-shutdown

	cfg.Log.Info("Shutdown signal received", "signal", sig)
	cancel()
	wg.Wait()
	cfg.Log.Info("Notifier stopped gracefully")
}
