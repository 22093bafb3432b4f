package service

import (
	"context"
	"testing"
	"time"

	chapelerrors "bayview/internal/chapel/errors"
	"bayview/internal/chapel/validator"
	apperrors "bayview/pkg/errors"
	"bayview/pkg/events"
	"bayview/pkg/model"
)

type mockSlotClaimRepo struct {
	claimErr error
	claimed  []string
	released []string
}

func (m *mockSlotClaimRepo) Claim(ctx context.Context, date time.Time, serviceTime string) (string, error) {
	if m.claimErr != nil {
		return "", m.claimErr
	}
	claimID := "slot_" + date.Format("2006-01-02") + "_" + serviceTime
	m.claimed = append(m.claimed, claimID)
	return claimID, nil
}

func (m *mockSlotClaimRepo) Release(ctx context.Context, claimID string) error {
	m.released = append(m.released, claimID)
	return nil
}

func futureDate() time.Time {
	d := time.Now().UTC().AddDate(0, 1, 0)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func validBooking(serviceTime string) *model.Booking {
	return &model.Booking{
		ServiceDate:  futureDate(),
		ServiceTime:  serviceTime,
		ServiceType:  model.ServiceWedding,
		ServiceFor:   "Rivera Family",
		ContactName:  "Ana Rivera",
		ContactEmail: "ana@example.com",
	}
}

func newBookingService(t *testing.T, repo *mockBookingRepo, claims *mockSlotClaimRepo) BookingService {
	t.Helper()
	cfg := testConfig(t)
	availability := NewAvailabilityService(repo, &mockBlackoutRepo{}, cfg)
	return NewBookingService(
		repo,
		claims,
		availability,
		validator.NewBookingValidator(cfg.Log),
		events.NopPublisher{},
		cfg,
	)
}

func TestBookingCreate(t *testing.T) {
	repo := &mockBookingRepo{}
	claims := &mockSlotClaimRepo{}
	svc := newBookingService(t, repo, claims)

	booking := validBooking("14:00")
	decision, err := svc.Create(context.Background(), booking)
	if err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	if decision == nil || !decision.Available {
		t.Fatalf("expected an available decision, got %+v", decision)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 created booking, got %d", len(repo.created))
	}
	if repo.created[0].Status != model.BookingPending {
		t.Errorf("new booking should default to pending, got %s", repo.created[0].Status)
	}
	if len(claims.released) != 1 {
		t.Errorf("slot claim should be released after creation, got %d releases", len(claims.released))
	}
}

func TestBookingCreate_SlotClaimed(t *testing.T) {
	repo := &mockBookingRepo{}
	claims := &mockSlotClaimRepo{claimErr: chapelerrors.ErrSlotClaimed}
	svc := newBookingService(t, repo, claims)

	_, err := svc.Create(context.Background(), validBooking("14:00"))
	if err == nil {
		t.Fatalf("Create() should fail when the slot is claimed")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeSlotConflict)
	}
	if len(repo.created) != 0 {
		t.Errorf("no booking should be created on a claim conflict")
	}
}

func TestBookingCreate_SlotTaken(t *testing.T) {
	date := futureDate()
	repo := &mockBookingRepo{bookings: []*model.Booking{
		booking(date, "14:00", model.ServiceWedding, model.BookingApproved),
	}}
	claims := &mockSlotClaimRepo{}
	svc := newBookingService(t, repo, claims)

	_, err := svc.Create(context.Background(), validBooking("15:00"))
	if err == nil {
		t.Fatalf("Create() should fail inside the wedding buffer")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeSlotConflict {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeSlotConflict)
	}
	if len(repo.created) != 0 {
		t.Errorf("no booking should be created when the slot conflicts")
	}
	if len(claims.released) != 1 {
		t.Errorf("slot claim should be released after a failed creation")
	}
}

func TestBookingCreate_ValidationFailure(t *testing.T) {
	repo := &mockBookingRepo{}
	svc := newBookingService(t, repo, &mockSlotClaimRepo{})

	invalid := validBooking("14:00")
	invalid.ContactEmail = "not-an-email"

	_, err := svc.Create(context.Background(), invalid)
	if err == nil {
		t.Fatalf("Create() should reject an invalid email")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeValidation)
	}
}

func TestBookingSetStatus(t *testing.T) {
	date := futureDate()
	existing := booking(date, "14:00", model.ServiceWedding, model.BookingPending)
	existing.ID = "000000000000000000000001"
	repo := &mockBookingRepo{bookings: []*model.Booking{existing}}
	svc := newBookingService(t, repo, &mockSlotClaimRepo{})

	updated, err := svc.SetStatus(context.Background(), existing.ID, model.BookingApproved, "office")
	if err != nil {
		t.Fatalf("SetStatus() returned error: %v", err)
	}
	if updated.Status != model.BookingApproved {
		t.Errorf("status = %s, want %s", updated.Status, model.BookingApproved)
	}
	if len(updated.StatusHistory) != 1 {
		t.Fatalf("expected 1 status history entry, got %d", len(updated.StatusHistory))
	}
	change := updated.StatusHistory[0]
	if change.From != model.BookingPending || change.To != model.BookingApproved {
		t.Errorf("history entry = %s -> %s, want pending -> approved", change.From, change.To)
	}
}

func TestBookingSetStatus_SameStatusNoOp(t *testing.T) {
	date := futureDate()
	existing := booking(date, "14:00", model.ServiceWedding, model.BookingApproved)
	existing.ID = "000000000000000000000001"
	repo := &mockBookingRepo{bookings: []*model.Booking{existing}}
	svc := newBookingService(t, repo, &mockSlotClaimRepo{})

	updated, err := svc.SetStatus(context.Background(), existing.ID, model.BookingApproved, "office")
	if err != nil {
		t.Fatalf("SetStatus() returned error: %v", err)
	}
	if len(updated.StatusHistory) != 0 {
		t.Errorf("setting the same status should not record a transition, got %d entries", len(updated.StatusHistory))
	}
}

func TestBookingSetStatus_InvalidStatus(t *testing.T) {
	svc := newBookingService(t, &mockBookingRepo{}, &mockSlotClaimRepo{})

	if _, err := svc.SetStatus(context.Background(), "000000000000000000000001", "archived", "office"); err == nil {
		t.Errorf("SetStatus() should reject an unknown status")
	}
}
