package service

import (
	"context"
	"errors"
	"sync"
	"time"

	chapelerrors "bayview/internal/chapel/errors"
	"bayview/internal/chapel/repository"
	"bayview/internal/chapel/validator"
	"bayview/pkg/config"
	apperrors "bayview/pkg/errors"
	"bayview/pkg/events"
	"bayview/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (*AvailabilityDecision, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error)
	SetStatus(ctx context.Context, id string, status string, changedBy string) (*model.Booking, error)
}

type bookingService struct {
	repo         repository.BookingRepository
	claims       repository.SlotClaimRepository
	availability AvailabilityService
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	claims repository.SlotClaimRepository,
	availability AvailabilityService,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:         repo,
		claims:       claims,
		availability: availability,
		validator:    validator,
		publisher:    publisher,
		cfg:          cfg,
	}
}

// Create validates and stores a new booking if its slot is free. The
// slot claim serializes concurrent requests for the same (date, time)
// pair; the availability check then runs again inside the transaction
// so the winner of the claim still sees a consistent day. On an
// unavailable slot the decision is returned alongside a nil error
// wrapped in the conflict, so handlers can surface suggestions.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (*AvailabilityDecision, error) {
	s.applyDefaults(booking)
	if err := s.validate(booking); err != nil {
		return nil, err
	}

	claimID, err := s.claims.Claim(ctx, booking.ServiceDate, booking.ServiceTime)
	if err != nil {
		if errors.Is(err, chapelerrors.ErrSlotClaimed) {
			return nil, apperrors.SlotConflict(
				"This time slot is currently being booked by another request. Please try again.",
				map[string]any{
					"service_date": booking.ServiceDate.Format("2006-01-02"),
					"service_time": booking.ServiceTime,
				},
			)
		}
		return nil, apperrors.Internal("Failed to claim booking slot", err)
	}
	defer func() {
		if releaseErr := s.claims.Release(ctx, claimID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release slot claim", "claim_id", claimID, "error", releaseErr)
		}
	}()

	var decision *AvailabilityDecision
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		decision, err = s.availability.Check(sessCtx, booking.ServiceDate, booking.ServiceTime, booking.ServiceType)
		if err != nil {
			return err
		}
		if !decision.Available {
			return s.unavailableError(decision, booking)
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"service_date", booking.ServiceDate,
			"service_time", booking.ServiceTime,
			"error", err,
		)
		return decision, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"service_date", booking.ServiceDate,
		"service_time", booking.ServiceTime,
		"service_type", booking.ServiceType,
	)

	if pubErr := s.publisher.PublishBookingSubmitted(ctx, events.BookingSubmitted{
		BookingID:   booking.ID,
		ServiceDate: booking.ServiceDate,
		ServiceTime: booking.ServiceTime,
		ServiceType: booking.ServiceType,
		ServiceFor:  booking.ServiceFor,
		ContactName: booking.ContactName,
		SubmittedAt: booking.CreatedAt,
	}); pubErr != nil {
		s.cfg.Log.Warn("Failed to publish booking submitted event", "id", booking.ID, "error", pubErr)
	}

	return decision, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, chapelerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, chapelerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, int64, error) {
	if filter.FromDate != nil && filter.ToDate != nil && filter.ToDate.Before(*filter.FromDate) {
		return nil, 0, apperrors.InvalidInput("to_date cannot be before from_date")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByFilter(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", errCount)
			errCount = apperrors.Internal("Failed to count bookings", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		bookings, errFind = s.repo.FindByFilter(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list bookings", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve bookings", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// SetStatus moves a booking through its lifecycle and records the
// transition. Setting the status it already has is a no-op, not an
// error, so retried requests stay safe.
func (s *bookingService) SetStatus(ctx context.Context, id string, status string, changedBy string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if !validStatus(status) {
		return nil, apperrors.InvalidInput("Status must be one of: pending, approved, rejected, cancelled")
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == status {
		return booking, nil
	}

	change := model.StatusChange{
		From:      booking.Status,
		To:        status,
		ChangedAt: time.Now().UTC(),
		ChangedBy: changedBy,
	}
	if err := s.repo.SetStatus(ctx, id, status, change); err != nil {
		if errors.Is(err, chapelerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to set booking status", "id", id, "status", status, "error", err)
		return nil, apperrors.Internal("Failed to update booking status", err)
	}

	s.cfg.Log.Info("Booking status changed",
		"id", id,
		"from", change.From,
		"to", change.To,
		"changed_by", changedBy,
	)

	if pubErr := s.publisher.PublishBookingStatusChanged(ctx, events.BookingStatusChanged{
		BookingID:   id,
		From:        change.From,
		To:          change.To,
		ServiceDate: booking.ServiceDate,
		ServiceTime: booking.ServiceTime,
		ChangedAt:   change.ChangedAt,
	}); pubErr != nil {
		s.cfg.Log.Warn("Failed to publish status change event", "id", id, "error", pubErr)
	}

	booking.Status = status
	booking.StatusHistory = append(booking.StatusHistory, change)
	return booking, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(booking *model.Booking) {
	if booking.Status == "" {
		booking.Status = model.BookingPending
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	// Calendar dates only; any time-of-day component would split one
	// day's bookings across distinct keys.
	booking.ServiceDate = time.Date(
		booking.ServiceDate.Year(), booking.ServiceDate.Month(), booking.ServiceDate.Day(),
		0, 0, 0, 0, time.UTC,
	)
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *bookingService) unavailableError(decision *AvailabilityDecision, booking *model.Booking) error {
	details := map[string]any{
		"service_date":    booking.ServiceDate.Format("2006-01-02"),
		"service_time":    booking.ServiceTime,
		"reason":          decision.Reason,
		"conflicts":       decision.Conflicts,
		"suggested_times": decision.SuggestedTimes,
	}
	if decision.Reason == ReasonBlackout {
		return apperrors.BlackedOut("The chapel is closed on the requested date", details)
	}
	return apperrors.SlotConflict("The requested time slot is not available", details)
}

func validStatus(status string) bool {
	switch status {
	case model.BookingPending, model.BookingApproved, model.BookingRejected, model.BookingCancelled:
		return true
	}
	return false
}
