package main

import (
	"bayview/internal/memorial/handler"
	"bayview/internal/memorial/repository"
	"bayview/internal/memorial/service"
	"bayview/internal/memorial/validator"
	"bayview/pkg/app"
	"bayview/pkg/config"
	"bayview/pkg/contracts"
	"bayview/pkg/events"
)

const ServiceName = "memorial"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Memorial garden prepayment service")
	handlers := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) []contracts.Handler {
	publisher, err := events.NewPublisher(
		cfg.EventsEnabled,
		cfg.Log,
		ServiceName,
		cfg.BookingEventsTopic,
		cfg.PrepaymentEventsTopic,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	prepaymentValidator := validator.NewPrepaymentValidator(cfg.Log)
	prepaymentRepo := repository.NewMongoPrepaymentRepository(cfg)
	bookingRefRepo := repository.NewMongoBookingRefRepository(cfg)

	prepaymentService := service.NewPrepaymentService(
		prepaymentRepo,
		bookingRefRepo,
		prepaymentValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Memorial services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		handler.NewPrepaymentHandler(prepaymentService, cfg.Log),
	}
}
