package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	memorialerrors "bayview/internal/memorial/errors"
	"bayview/internal/memorial/repository"
	"bayview/internal/memorial/validator"
	"bayview/pkg/config"
	apperrors "bayview/pkg/errors"
	"bayview/pkg/events"
	"bayview/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// RedeemResult is the post-redemption view handed back to the office.
type RedeemResult struct {
	SubmissionID        string   `json:"submission_id"`
	Status              string   `json:"status"`
	PlacementsUsed      int      `json:"placements_used"`
	PlacementsRemaining int      `json:"placements_remaining"`
	LinkedBookingIDs    []string `json:"linked_booking_ids"`
}

type PrepaymentService interface {
	Create(ctx context.Context, credit *model.PrepaymentCredit) error
	Redeem(ctx context.Context, submissionID, bookingID, note string) (*RedeemResult, error)
	Lookup(ctx context.Context, query repository.LookupQuery) ([]model.PrepaymentSummary, error)
}

type prepaymentService struct {
	repo      repository.PrepaymentRepository
	bookings  repository.BookingRefRepository
	validator *validator.PrepaymentValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewPrepaymentService(
	repo repository.PrepaymentRepository,
	bookings repository.BookingRefRepository,
	validator *validator.PrepaymentValidator,
	publisher events.Publisher,
	cfg *config.Config,
) PrepaymentService {
	return &prepaymentService{
		repo:      repo,
		bookings:  bookings,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create records a purchased credit. Capacity is derived from the
// placement type here, once, and persisted with the document. Later
// policy changes never retroactively resize credits already sold.
func (s *prepaymentService) Create(ctx context.Context, credit *model.PrepaymentCredit) error {
	if credit.Status == "" {
		credit.Status = model.CreditActive
	}
	if credit.Capacity == 0 {
		credit.Capacity = s.cfg.Capacities.Capacity(credit.PlacementType)
	}

	if err := s.validator.Validate(credit); err != nil {
		s.cfg.Log.Warn("Prepayment validation failed", "error", err)
		return apperrors.Validation("Prepayment validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, credit); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.Conflict(fmt.Sprintf("A prepayment credit already exists for submission %s", credit.SubmissionID))
		}
		s.cfg.Log.Error("Failed to create prepayment credit", "submission_id", credit.SubmissionID, "error", err)
		return apperrors.Internal("Failed to create prepayment credit", err)
	}

	s.cfg.Log.Info("Prepayment credit created",
		"submission_id", credit.SubmissionID,
		"placement_type", credit.PlacementType,
		"capacity", credit.Capacity,
	)
	return nil
}

// Redeem consumes one placement of the credit and links it to the
// booking, atomically. Denials are classified in a fixed order: a
// missing credit wins over a terminal one, a terminal one over an
// exhausted one, and only a redeemable credit gets its booking
// reference checked. The actual decrement is a guarded update, so two
// concurrent redemptions of the last placement produce exactly one
// success; the loser is reported as exhausted.
func (s *prepaymentService) Redeem(ctx context.Context, submissionID, bookingID, note string) (*RedeemResult, error) {
	if submissionID == "" {
		return nil, apperrors.InvalidInput("Submission ID cannot be empty")
	}
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var result *RedeemResult
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		credit, err := s.repo.FindBySubmissionID(sessCtx, submissionID)
		if err != nil {
			if errors.Is(err, memorialerrors.ErrCreditNotFound) {
				return apperrors.NotFoundWithID("Prepayment credit", submissionID)
			}
			return apperrors.Internal("Failed to load prepayment credit", err)
		}

		if credit.Terminal() {
			return apperrors.CreditTerminal(
				fmt.Sprintf("Prepayment credit is %s and can no longer be redeemed", credit.Status),
				map[string]any{
					"submission_id": submissionID,
					"status":        credit.Status,
				},
			)
		}

		if credit.Remaining() <= 0 {
			return apperrors.CreditExhausted(
				"All placements on this prepayment credit have been used",
				map[string]any{
					"submission_id":      submissionID,
					"capacity":           credit.Capacity,
					"placements_used":    credit.PlacementsUsed,
					"linked_booking_ids": credit.LinkedBookingIDs(),
				},
			)
		}

		booking, err := s.bookings.FindByID(sessCtx, bookingID)
		if err != nil {
			if errors.Is(err, memorialerrors.ErrBookingNotFound) || errors.Is(err, memorialerrors.ErrInvalidID) {
				return apperrors.InvalidReference(
					"The booking referenced by this redemption does not exist",
					map[string]any{"booking_id": bookingID},
				)
			}
			return apperrors.Internal("Failed to verify booking reference", err)
		}
		if !booking.Active() {
			return apperrors.InvalidReference(
				fmt.Sprintf("The referenced booking is %s and cannot consume a placement", booking.Status),
				map[string]any{"booking_id": bookingID, "status": booking.Status},
			)
		}

		noteLine := fmt.Sprintf("\n[%s] Redeemed 1 placement against booking %s",
			time.Now().UTC().Format(time.RFC3339), bookingID)
		if note != "" {
			noteLine += " - " + note
		}

		updated, err := s.repo.RedeemOne(sessCtx, submissionID, bookingID, noteLine)
		if err != nil {
			if errors.Is(err, memorialerrors.ErrNoCapacity) {
				return apperrors.CreditExhausted(
					"All placements on this prepayment credit have been used",
					map[string]any{"submission_id": submissionID},
				)
			}
			return apperrors.Internal("Failed to redeem prepayment credit", err)
		}

		if err := s.bookings.MarkPrepaymentUsed(sessCtx, bookingID, submissionID); err != nil {
			return apperrors.Internal("Failed to link prepayment to booking", err)
		}

		result = &RedeemResult{
			SubmissionID:        updated.SubmissionID,
			Status:              updated.Status,
			PlacementsUsed:      updated.PlacementsUsed,
			PlacementsRemaining: updated.Remaining(),
			LinkedBookingIDs:    updated.LinkedBookingIDs(),
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Prepayment redemption failed",
			"submission_id", submissionID,
			"booking_id", bookingID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Prepayment redeemed",
		"submission_id", result.SubmissionID,
		"booking_id", bookingID,
		"status", result.Status,
		"placements_used", result.PlacementsUsed,
		"placements_remaining", result.PlacementsRemaining,
	)

	if pubErr := s.publisher.PublishPrepaymentRedeemed(ctx, events.PrepaymentRedeemed{
		SubmissionID:        result.SubmissionID,
		BookingID:           bookingID,
		Status:              result.Status,
		PlacementsUsed:      result.PlacementsUsed,
		PlacementsRemaining: result.PlacementsRemaining,
		RedeemedAt:          time.Now().UTC(),
	}); pubErr != nil {
		s.cfg.Log.Warn("Failed to publish redemption event", "submission_id", result.SubmissionID, "error", pubErr)
	}

	return result, nil
}

// Lookup returns read-only summaries for office inquiries. Exactly which
// credits match depends on the key the caller supplies.
func (s *prepaymentService) Lookup(ctx context.Context, query repository.LookupQuery) ([]model.PrepaymentSummary, error) {
	if query.Empty() {
		return nil, apperrors.InvalidInput("At least one of submission_id, purchaser_phone or purchaser_email is required")
	}

	credits, err := s.repo.Lookup(ctx, query)
	if err != nil {
		s.cfg.Log.Error("Prepayment lookup failed", "error", err)
		return nil, apperrors.Internal("Failed to look up prepayment credits", err)
	}

	summaries := make([]model.PrepaymentSummary, 0, len(credits))
	for _, credit := range credits {
		summaries = append(summaries, credit.Summary())
	}
	return summaries, nil
}
