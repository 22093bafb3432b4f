package service

import (
	"context"
	"fmt"
	"time"

	"bayview/internal/chapel/repository"
	"bayview/pkg/config"
	apperrors "bayview/pkg/errors"
	"bayview/pkg/model"
)

// Reasons a slot can be unavailable, in the order they are checked.
const (
	ReasonBlackout               = "blackout"
	ReasonDoubleBooked           = "double_booked"
	ReasonInsufficientSeparation = "insufficient_separation"
)

// AvailabilityDecision is the outcome of a slot check. Unavailability
// is a normal result, not an error: the decision carries the reason,
// the bookings in the way, and alternative times worth offering.
type AvailabilityDecision struct {
	Available      bool                   `json:"available"`
	Reason         string                 `json:"reason,omitempty"`
	Conflicts      []model.BookingSummary `json:"conflicts,omitempty"`
	Blackouts      []*model.BlackoutPeriod `json:"blackouts,omitempty"`
	SuggestedTimes []string               `json:"suggested_times,omitempty"`
}

type AvailabilityService interface {
	Check(ctx context.Context, date time.Time, serviceTime, serviceType string) (*AvailabilityDecision, error)
}

type availabilityService struct {
	bookings  repository.BookingRepository
	blackouts repository.BlackoutRepository
	cfg       *config.Config
}

func NewAvailabilityService(
	bookings repository.BookingRepository,
	blackouts repository.BlackoutRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		bookings:  bookings,
		blackouts: blackouts,
		cfg:       cfg,
	}
}

// Check decides whether the requested slot may be booked. Checks run in
// order and short-circuit on the first violation: blackout, then exact
// double-booking, then the buffer rule. The buffer rule is symmetric —
// between the candidate and each existing booking, the wider of the two
// configured buffers governs, and a separation strictly smaller than it
// conflicts. A separation exactly equal to the buffer is allowed.
func (s *availabilityService) Check(ctx context.Context, date time.Time, serviceTime, serviceType string) (*AvailabilityDecision, error) {
	candidate, err := minutesOfDay(serviceTime)
	if err != nil {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid service time %q: must be HH:MM", serviceTime))
	}

	blackouts, err := s.blackouts.FindCovering(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to check blackout periods", err)
	}
	if len(blackouts) > 0 {
		// The whole day is closed; no point suggesting other times.
		return &AvailabilityDecision{
			Available: false,
			Reason:    ReasonBlackout,
			Blackouts: blackouts,
		}, nil
	}

	existing, err := s.bookings.FindActiveByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Internal("Failed to load bookings for date", err)
	}

	decision := s.decide(candidate, serviceType, existing)
	if !decision.Available {
		decision.SuggestedTimes = s.suggestTimes(serviceType, existing)
	}
	return decision, nil
}

// decide runs the exact-slot and buffer checks against an already
// loaded day of active bookings.
func (s *availabilityService) decide(candidate int, serviceType string, existing []*model.Booking) *AvailabilityDecision {
	for _, booking := range existing {
		taken, err := minutesOfDay(booking.ServiceTime)
		if err != nil {
			// Stored times are validated on the way in; an unparsable
			// one blocks the slot rather than silently vanishing.
			return &AvailabilityDecision{
				Available: false,
				Reason:    ReasonDoubleBooked,
				Conflicts: []model.BookingSummary{booking.Summary()},
			}
		}
		if taken == candidate {
			return &AvailabilityDecision{
				Available: false,
				Reason:    ReasonDoubleBooked,
				Conflicts: []model.BookingSummary{booking.Summary()},
			}
		}
	}

	var conflicts []model.BookingSummary
	for _, booking := range existing {
		taken, err := minutesOfDay(booking.ServiceTime)
		if err != nil {
			continue
		}
		separation := time.Duration(abs(candidate-taken)) * time.Minute
		if separation < s.cfg.Buffers.Between(serviceType, booking.ServiceType) {
			conflicts = append(conflicts, booking.Summary())
		}
	}
	if len(conflicts) > 0 {
		return &AvailabilityDecision{
			Available: false,
			Reason:    ReasonInsufficientSeparation,
			Conflicts: conflicts,
		}
	}

	return &AvailabilityDecision{Available: true}
}

// suggestTimes filters the configured candidate times down to those the
// same decision logic would accept.
func (s *availabilityService) suggestTimes(serviceType string, existing []*model.Booking) []string {
	var suggested []string
	for _, candidate := range s.cfg.SuggestedServiceTimes {
		minutes, err := minutesOfDay(candidate)
		if err != nil {
			continue
		}
		if s.decide(minutes, serviceType, existing).Available {
			suggested = append(suggested, candidate)
		}
	}
	return suggested
}

func minutesOfDay(serviceTime string) (int, error) {
	parsed, err := time.Parse("15:04", serviceTime)
	if err != nil {
		return 0, err
	}
	return parsed.Hour()*60 + parsed.Minute(), nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
