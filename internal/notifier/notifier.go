package notifier

import (
	"context"
	"fmt"

	"bayview/pkg/events"
	"bayview/pkg/kafka"
	"bayview/pkg/logger"
)

// Notifier turns domain events into operator notifications. For now a
// notification is a structured log line the office tails; delivery
// channels beyond that live outside this system.
type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// HandleBookingEvent processes messages from the booking events topic.
func (n *Notifier) HandleBookingEvent(ctx context.Context, msg kafka.Message) error {
	switch msg.GetEventType() {
	case events.TypeBookingSubmitted:
		var event events.BookingSubmitted
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("invalid booking submitted payload", err)
		}
		n.log.Info("NOTIFY: new booking awaiting review",
			"booking_id", event.BookingID,
			"service_date", event.ServiceDate.Format("2006-01-02"),
			"service_time", event.ServiceTime,
			"service_type", event.ServiceType,
			"service_for", event.ServiceFor,
			"contact_name", event.ContactName,
		)

	case events.TypeBookingStatusChanged:
		var event events.BookingStatusChanged
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("invalid status change payload", err)
		}
		n.log.Info("NOTIFY: booking status changed",
			"booking_id", event.BookingID,
			"from", event.From,
			"to", event.To,
			"service_date", event.ServiceDate.Format("2006-01-02"),
			"service_time", event.ServiceTime,
		)

	default:
		return kafka.NewPermanentError(
			fmt.Sprintf("unknown booking event type: %s", msg.GetEventType()), nil)
	}

	return nil
}

// HandlePrepaymentEvent processes messages from the prepayment events
// topic.
func (n *Notifier) HandlePrepaymentEvent(ctx context.Context, msg kafka.Message) error {
	switch msg.GetEventType() {
	case events.TypePrepaymentRedeemed:
		var event events.PrepaymentRedeemed
		if err := msg.DecodeValue(&event); err != nil {
			return kafka.NewPermanentError("invalid redemption payload", err)
		}
		n.log.Info("NOTIFY: prepayment credit redeemed",
			"submission_id", event.SubmissionID,
			"booking_id", event.BookingID,
			"status", event.Status,
			"placements_used", event.PlacementsUsed,
			"placements_remaining", event.PlacementsRemaining,
		)

	default:
		return kafka.NewPermanentError(
			fmt.Sprintf("unknown prepayment event type: %s", msg.GetEventType()), nil)
	}

	return nil
}
