package events

import (
	"context"
	"fmt"

	"bayview/pkg/kafka"
	kafka_config "bayview/pkg/kafka/config"
	kafkamw "bayview/pkg/kafka/middleware"
	"bayview/pkg/logger"
)

// Publisher emits domain audit events. Event publication is a side
// effect of an already-committed state change: failures are logged by
// callers, never rolled back into the store.
type Publisher interface {
	PublishBookingSubmitted(ctx context.Context, event BookingSubmitted) error
	PublishBookingStatusChanged(ctx context.Context, event BookingStatusChanged) error
	PublishPrepaymentRedeemed(ctx context.Context, event PrepaymentRedeemed) error
	Close() error
}

type kafkaPublisher struct {
	bookings    *kafka.Producer
	prepayments *kafka.Producer
	source      string
}

// NewKafkaPublisher wires producers for the booking and prepayment
// topics, with DLQs derived from the source service name.
func NewKafkaPublisher(cfg *kafka_config.Config, source, bookingTopic, prepaymentTopic string) (Publisher, error) {
	bookings, err := kafka.NewProducer(cfg, bookingTopic, "dlq-"+source)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking events producer: %w", err)
	}

	prepayments, err := kafka.NewProducer(cfg, prepaymentTopic, "dlq-"+source)
	if err != nil {
		_ = bookings.Close()
		return nil, fmt.Errorf("failed to create prepayment events producer: %w", err)
	}

	if cfg.EnableMiddleware {
		bookings.Use(kafkamw.LoggingProducerMiddleware())
		bookings.Use(kafkamw.MetricsProducerMiddleware())
		prepayments.Use(kafkamw.LoggingProducerMiddleware())
		prepayments.Use(kafkamw.MetricsProducerMiddleware())
	}

	return &kafkaPublisher{
		bookings:    bookings,
		prepayments: prepayments,
		source:      source,
	}, nil
}

func (p *kafkaPublisher) PublishBookingSubmitted(ctx context.Context, event BookingSubmitted) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(TypeBookingSubmitted).
		WithSource(p.source).
		Build()
	return p.bookings.Publish(ctx, msg)
}

func (p *kafkaPublisher) PublishBookingStatusChanged(ctx context.Context, event BookingStatusChanged) error {
	msg := kafka.NewMessage().
		WithKey(event.BookingID).
		WithValue(event).
		WithEventType(TypeBookingStatusChanged).
		WithSource(p.source).
		Build()
	return p.bookings.Publish(ctx, msg)
}

func (p *kafkaPublisher) PublishPrepaymentRedeemed(ctx context.Context, event PrepaymentRedeemed) error {
	// Keyed by submission id so all redemptions of one credit stay in
	// partition order.
	msg := kafka.NewMessage().
		WithKey(event.SubmissionID).
		WithValue(event).
		WithEventType(TypePrepaymentRedeemed).
		WithSource(p.source).
		Build()
	return p.prepayments.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	errBookings := p.bookings.Close()
	errPrepayments := p.prepayments.Close()
	if errBookings != nil {
		return errBookings
	}
	return errPrepayments
}

// NopPublisher discards events. Used when events are disabled and in
// tests.
type NopPublisher struct{}

func (NopPublisher) PublishBookingSubmitted(context.Context, BookingSubmitted) error {
	return nil
}

func (NopPublisher) PublishBookingStatusChanged(context.Context, BookingStatusChanged) error {
	return nil
}

func (NopPublisher) PublishPrepaymentRedeemed(context.Context, PrepaymentRedeemed) error {
	return nil
}

func (NopPublisher) Close() error { return nil }

// NewPublisher returns a Kafka publisher when enabled, otherwise the
// nop publisher, so services can always publish unconditionally.
func NewPublisher(enabled bool, log *logger.Logger, source, bookingTopic, prepaymentTopic string) (Publisher, error) {
	if !enabled {
		log.Info("Event publishing disabled, using nop publisher")
		return NopPublisher{}, nil
	}

	cfg := kafka_config.Load()
	publisher, err := NewKafkaPublisher(cfg, source, bookingTopic, prepaymentTopic)
	if err != nil {
		return nil, err
	}

	log.Info("Event publishing enabled",
		"source", source,
		"booking_topic", bookingTopic,
		"prepayment_topic", prepaymentTopic,
	)
	return publisher, nil
}
