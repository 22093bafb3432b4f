package main

import (
	"bayview/internal/chapel/handler"
	"bayview/internal/chapel/repository"
	"bayview/internal/chapel/service"
	"bayview/internal/chapel/validator"
	"bayview/pkg/app"
	"bayview/pkg/config"
	"bayview/pkg/contracts"
	"bayview/pkg/events"
)

const ServiceName = "chapel"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Chapel booking service")
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

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	blackoutRepo := repository.NewMongoBlackoutRepository(cfg)
	claimRepo := repository.NewMongoSlotClaimRepository(cfg)

	availabilityService := service.NewAvailabilityService(bookingRepo, blackoutRepo, cfg)
	bookingService := service.NewBookingService(
		bookingRepo,
		claimRepo,
		availabilityService,
		bookingValidator,
		publisher,
		cfg,
	)
	blackoutService := service.NewBlackoutService(blackoutRepo, cfg)

	cfg.Log.Info("Chapel services initialized", "database", cfg.MongoDatabaseName)
	return []contracts.Handler{
		handler.NewBookingHandler(bookingService, cfg.Log),
		handler.NewAvailabilityHandler(availabilityService, cfg.Log),
		handler.NewBlackoutHandler(blackoutService, cfg.Log),
	}
}
