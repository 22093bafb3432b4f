package service

import (
	"context"
	"testing"
	"time"

	chapelerrors "bayview/internal/chapel/errors"
	"bayview/pkg/config"
	mongotx "bayview/pkg/db/mongo"
	"bayview/pkg/logger"
	"bayview/pkg/model"
	"bayview/pkg/policy"
)

type mockBookingRepo struct {
	bookings []*model.Booking
	created  []*model.Booking
	err      error
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	if m.err != nil {
		return m.err
	}
	booking.ID = "000000000000000000000001"
	m.created = append(m.created, booking)
	return nil
}

func (m *mockBookingRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, chapelerrors.ErrNotFound
}

func (m *mockBookingRepo) FindActiveByDate(ctx context.Context, date time.Time) ([]*model.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	var active []*model.Booking
	for _, b := range m.bookings {
		if b.ServiceDate.Equal(date) && b.Active() {
			active = append(active, b)
		}
	}
	return active, nil
}

func (m *mockBookingRepo) FindByFilter(ctx context.Context, filter model.BookingFilter, limit int, offset int64) ([]*model.Booking, error) {
	return m.bookings, m.err
}

func (m *mockBookingRepo) CountByFilter(ctx context.Context, filter model.BookingFilter) (int64, error) {
	return int64(len(m.bookings)), m.err
}

func (m *mockBookingRepo) SetStatus(ctx context.Context, id string, status string, change model.StatusChange) error {
	return m.err
}

func (m *mockBookingRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBlackoutRepo struct {
	periods []*model.BlackoutPeriod
	err     error
}

func (m *mockBlackoutRepo) FindCovering(ctx context.Context, date time.Time) ([]*model.BlackoutPeriod, error) {
	if m.err != nil {
		return nil, m.err
	}
	var covering []*model.BlackoutPeriod
	for _, p := range m.periods {
		if p.Covers(date) {
			covering = append(covering, p)
		}
	}
	return covering, nil
}

func (m *mockBlackoutRepo) FindAll(ctx context.Context) ([]*model.BlackoutPeriod, error) {
	return m.periods, m.err
}

func (m *mockBlackoutRepo) Create(ctx context.Context, period *model.BlackoutPeriod) error {
	if m.err != nil {
		return m.err
	}
	m.periods = append(m.periods, period)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	buffers, err := policy.ParseBufferPolicy("wedding=2h,memorial=2h,funeral=2h,baptism=1h,general_use=3h")
	if err != nil {
		t.Fatalf("failed to parse buffer policy: %v", err)
	}
	capacities, err := policy.ParseCapacityPolicy("self_and_other,two_others")
	if err != nil {
		t.Fatalf("failed to parse capacity policy: %v", err)
	}

	return &config.Config{
		Buffers:               buffers,
		Capacities:            capacities,
		SuggestedServiceTimes: []string{"10:00", "11:00", "14:00", "15:00", "16:00"},
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func testDate(t *testing.T, value string) time.Time {
	t.Helper()
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", value, err)
	}
	return date
}

func booking(date time.Time, serviceTime, serviceType, status string) *model.Booking {
	return &model.Booking{
		ID:          "booked-" + serviceTime,
		ServiceDate: date,
		ServiceTime: serviceTime,
		ServiceType: serviceType,
		Status:      status,
		ServiceFor:  "Test Family",
	}
}

func TestAvailability_EmptyDay(t *testing.T) {
	date := testDate(t, "2026-10-10")
	svc := NewAvailabilityService(&mockBookingRepo{}, &mockBlackoutRepo{}, testConfig(t))

	decision, err := svc.Check(context.Background(), date, "14:00", model.ServiceWedding)
	if err != nil {
		t.Fatalf("Check() returned error: %v", err)
	}
	if !decision.Available {
		t.Errorf("empty day should be available, got reason %s", decision.Reason)
	}
}

func TestAvailability_Blackout(t *testing.T) {
	date := testDate(t, "2026-10-10")
	blackouts := &mockBlackoutRepo{periods: []*model.BlackoutPeriod{
		{ID: "b1", StartDate: testDate(t, "2026-10-08"), EndDate: testDate(t, "2026-10-12"), Reason: "renovation"},
	}}
	svc := NewAvailabilityService(&mockBookingRepo{}, blackouts, testConfig(t))

	decision, err := svc.Check(context.Background(), date, "14:00", model.ServiceWedding)
	if err != nil {
		t.Fatalf("Check() returned error: %v", err)
	}
	if decision.Available {
		t.Fatalf("blacked out day should be unavailable")
	}
	if decision.Reason != ReasonBlackout {
		t.Errorf("reason = %s, want %s", decision.Reason, ReasonBlackout)
	}
	if len(decision.SuggestedTimes) != 0 {
		t.Errorf("blackout should suggest no times, got %v", decision.SuggestedTimes)
	}
	if len(decision.Blackouts) != 1 {
		t.Errorf("expected the covering blackout in the decision, got %d", len(decision.Blackouts))
	}
}

func TestAvailability_BlackoutBoundaryInclusive(t *testing.T) {
	blackouts := &mockBlackoutRepo{periods: []*model.BlackoutPeriod{
		{ID: "b1", StartDate: testDate(t, "2026-10-08"), EndDate: testDate(t, "2026-10-12"), Reason: "renovation"},
	}}
	svc := NewAvailabilityService(&mockBookingRepo{}, blackouts, testConfig(t))

	for _, boundary := range []string{"2026-10-08", "2026-10-12"} {
		decision, err := svc.Check(context.Background(), testDate(t, boundary), "14:00", model.ServiceWedding)
		if err != nil {
			t.Fatalf("Check(%s) returned error: %v", boundary, err)
		}
		if decision.Available {
			t.Errorf("boundary date %s should be inside the blackout", boundary)
		}
	}

	decision, err := svc.Check(context.Background(), testDate(t, "2026-10-13"), "14:00", model.ServiceWedding)
	if err != nil {
		t.Fatalf("Check() returned error: %v", err)
	}
	if !decision.Available {
		t.Errorf("day after the blackout should be available, got reason %s", decision.Reason)
	}
}

func TestAvailability_ExactSlotTaken(t *testing.T) {
	date := testDate(t, "2026-10-10")
	bookings := &mockBookingRepo{bookings: []*model.Booking{
		booking(date, "14:00", model.ServiceBaptism, model.BookingApproved),
	}}
	svc := NewAvailabilityService(bookings, &mockBlackoutRepo{}, testConfig(t))

	decision, err := svc.Check(context.Background(), date, "14:00", model.ServiceWedding)
	if err != nil {
		t.Fatalf("Check() returned error: %v", err)
	}
	if decision.Available {
		t.Fatalf("exact slot match should be unavailable")
	}
	if decision.Reason != ReasonDoubleBooked {
		t.Errorf("reason = %s, want %s", decision.Reason, ReasonDoubleBooked)
	}
	if len(decision.Conflicts) != 1 || decision.Conflicts[0].ServiceTime != "14:00" {
		t.Errorf("expected the 14:00 booking as the conflict, got %+v", decision.Conflicts)
	}
}

func TestAvailability_BufferRule(t *testing.T) {
	date := testDate(t, "2026-10-10")
	bookings := &mockBookingRepo{bookings: []*model.Booking{
		booking(date, "14:00", model.ServiceWedding, model.BookingApproved),
	}}
	svc := NewAvailabilityService(bookings, &mockBlackoutRepo{}, testConfig(t))

	tests := []struct {
		name          string
		serviceTime   string
		serviceType   string
		wantAvailable bool
		wantReason    string
	}{
		{"inside wedding buffer", "15:30", model.ServiceWedding, false, ReasonInsufficientSeparation},
		{"exactly at buffer edge", "16:00", model.ServiceWedding, true, ""},
		{"outside buffer", "16:30", model.ServiceWedding, true, ""},
		{"before, inside buffer", "12:30", model.ServiceWedding, false, ReasonInsufficientSeparation},
		{"baptism governed by wider wedding buffer", "15:30", model.ServiceBaptism, false, ReasonInsufficientSeparation},
		{"general_use widens the window", "16:30", model.ServiceGeneralUse, false, ReasonInsufficientSeparation},
		{"unknown type gets widest buffer", "16:30", "vigil", false, ReasonInsufficientSeparation},
		{"unknown type beyond widest buffer", "17:00", "vigil", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision, err := svc.Check(context.Background(), date, tt.serviceTime, tt.serviceType)
			if err != nil {
				t.Fatalf("Check() returned error: %v", err)
			}
			if decision.Available != tt.wantAvailable {
				t.Errorf("Available = %v, want %v", decision.Available, tt.wantAvailable)
			}
			if !tt.wantAvailable && decision.Reason != tt.wantReason {
				t.Errorf("reason = %s, want %s", decision.Reason, tt.wantReason)
			}
		})
	}
}

func TestAvailability_CancelledBookingsIgnored(t *testing.T) {
	date := testDate(t, "2026-10-10")
	bookings := &mockBookingRepo{bookings: []*model.Booking{
		booking(date, "14:00", model.ServiceWedding, model.BookingCancelled),
		booking(date, "15:00", model.ServiceWedding, model.BookingRejected),
	}}
	svc := NewAvailabilityService(bookings, &mockBlackoutRepo{}, testConfig(t))

	decision, err := svc.Check(context.Background(), date, "14:00", model.ServiceWedding)
	if err != nil {
		t.Fatalf("Check() returned error: %v", err)
	}
	if !decision.Available {
		t.Errorf("cancelled and rejected bookings should not block the slot, got reason %s", decision.Reason)
	}
}

func TestAvailability_SuggestedTimes(t *testing.T) {
	date := testDate(t, "2026-10-10")
	bookings := &mockBookingRepo{bookings: []*model.Booking{
		booking(date, "14:00", model.ServiceWedding, model.BookingApproved),
	}}
	svc := NewAvailabilityService(bookings, &mockBlackoutRepo{}, testConfig(t))

	decision, err := svc.Check(context.Background(), date, "15:00", model.ServiceWedding)
	if err != nil {
		t.Fatalf("Check() returned error: %v", err)
	}
	if decision.Available {
		t.Fatalf("15:00 should conflict with the 14:00 wedding")
	}

	// 10:00 and 11:00 clear the 2h window around 14:00; the rest do not.
	want := []string{"10:00", "11:00", "16:00"}
	if len(decision.SuggestedTimes) != len(want) {
		t.Fatalf("SuggestedTimes = %v, want %v", decision.SuggestedTimes, want)
	}
	for i, suggested := range want {
		if decision.SuggestedTimes[i] != suggested {
			t.Errorf("SuggestedTimes[%d] = %s, want %s", i, decision.SuggestedTimes[i], suggested)
		}
	}
}

func TestAvailability_InvalidServiceTime(t *testing.T) {
	svc := NewAvailabilityService(&mockBookingRepo{}, &mockBlackoutRepo{}, testConfig(t))

	if _, err := svc.Check(context.Background(), testDate(t, "2026-10-10"), "25:99", model.ServiceWedding); err == nil {
		t.Errorf("Check() should reject an unparsable service time")
	}
}
