package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	memorialerrors "bayview/internal/memorial/errors"
	"bayview/internal/memorial/repository"
	"bayview/internal/memorial/validator"
	"bayview/pkg/config"
	mongotx "bayview/pkg/db/mongo"
	apperrors "bayview/pkg/errors"
	"bayview/pkg/events"
	"bayview/pkg/logger"
	"bayview/pkg/model"
	"bayview/pkg/policy"
)

// mockPrepaymentRepo keeps the guarded-update semantics of the real
// repository: RedeemOne only succeeds while the credit is redeemable,
// under a lock, so concurrent redemptions contend the way they do
// against the store.
type mockPrepaymentRepo struct {
	mu      sync.Mutex
	credits map[string]*model.PrepaymentCredit
}

func newMockPrepaymentRepo(credits ...*model.PrepaymentCredit) *mockPrepaymentRepo {
	m := &mockPrepaymentRepo{credits: make(map[string]*model.PrepaymentCredit)}
	for _, c := range credits {
		m.credits[c.SubmissionID] = c
	}
	return m
}

func (m *mockPrepaymentRepo) Create(ctx context.Context, credit *model.PrepaymentCredit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.credits[credit.SubmissionID] = credit
	return nil
}

func (m *mockPrepaymentRepo) FindBySubmissionID(ctx context.Context, submissionID string) (*model.PrepaymentCredit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	credit, ok := m.credits[submissionID]
	if !ok {
		return nil, memorialerrors.ErrCreditNotFound
	}
	snapshot := *credit
	return &snapshot, nil
}

func (m *mockPrepaymentRepo) Lookup(ctx context.Context, query repository.LookupQuery) ([]*model.PrepaymentCredit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var matches []*model.PrepaymentCredit
	for _, credit := range m.credits {
		if query.SubmissionID != "" && credit.SubmissionID != query.SubmissionID {
			continue
		}
		if query.PurchaserPhone != "" && credit.PurchaserPhone != query.PurchaserPhone {
			continue
		}
		if query.PurchaserEmail != "" && credit.PurchaserEmail != query.PurchaserEmail {
			continue
		}
		snapshot := *credit
		matches = append(matches, &snapshot)
	}
	return matches, nil
}

func (m *mockPrepaymentRepo) RedeemOne(ctx context.Context, submissionID, bookingID, noteLine string) (*model.PrepaymentCredit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	credit, ok := m.credits[submissionID]
	if !ok || credit.Terminal() || credit.PlacementsUsed >= credit.Capacity {
		return nil, memorialerrors.ErrNoCapacity
	}

	now := time.Now().UTC()
	if credit.PlacementsUsed == 0 {
		credit.FirstUseDate = &now
	} else {
		credit.SecondUseDate = &now
	}
	if credit.LinkedBookingID1 == "" {
		credit.LinkedBookingID1 = bookingID
	} else if credit.LinkedBookingID2 == "" {
		credit.LinkedBookingID2 = bookingID
	}
	credit.PlacementsUsed++
	if credit.PlacementsUsed >= credit.Capacity {
		credit.Status = model.CreditFullyUsed
	} else {
		credit.Status = model.CreditPartiallyUsed
	}
	credit.Notes += noteLine

	snapshot := *credit
	return &snapshot, nil
}

func (m *mockPrepaymentRepo) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBookingRefRepo struct {
	mu       sync.Mutex
	bookings map[string]*model.Booking
	marked   []string
}

func newMockBookingRefRepo(bookings ...*model.Booking) *mockBookingRefRepo {
	m := &mockBookingRefRepo{bookings: make(map[string]*model.Booking)}
	for _, b := range bookings {
		m.bookings[b.ID] = b
	}
	return m
}

func (m *mockBookingRefRepo) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, memorialerrors.ErrBookingNotFound
	}
	return booking, nil
}

func (m *mockBookingRefRepo) MarkPrepaymentUsed(ctx context.Context, bookingID, submissionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[bookingID]
	if !ok {
		return memorialerrors.ErrBookingNotFound
	}
	booking.PrepaymentUsed = true
	booking.PrepaymentSubmissionID = submissionID
	m.marked = append(m.marked, bookingID)
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	capacities, err := policy.ParseCapacityPolicy("self_and_other,two_others")
	if err != nil {
		t.Fatalf("failed to parse capacity policy: %v", err)
	}

	return &config.Config{
		Capacities: capacities,
		Log: logger.New(logger.Config{
			Level:   logger.ERROR,
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

func activeBooking(id string) *model.Booking {
	return &model.Booking{
		ID:          id,
		ServiceTime: "14:00",
		ServiceType: model.ServiceMemorial,
		Status:      model.BookingApproved,
	}
}

func twoPlacementCredit(submissionID string) *model.PrepaymentCredit {
	return &model.PrepaymentCredit{
		SubmissionID:  submissionID,
		PlacementType: model.PlacementSelfAndOther,
		Capacity:      2,
		Status:        model.CreditActive,
		PurchaserName: "Miriam Osei",
	}
}

func newService(t *testing.T, repo repository.PrepaymentRepository, bookings repository.BookingRefRepository) PrepaymentService {
	t.Helper()
	cfg := testConfig(t)
	return NewPrepaymentService(repo, bookings, validator.NewPrepaymentValidator(cfg.Log), events.NopPublisher{}, cfg)
}

func TestRedeem_FullLifecycle(t *testing.T) {
	repo := newMockPrepaymentRepo(twoPlacementCredit("SUB-100"))
	bookings := newMockBookingRefRepo(activeBooking("b1"), activeBooking("b2"))
	svc := newService(t, repo, bookings)

	first, err := svc.Redeem(context.Background(), "SUB-100", "b1", "interment scheduled")
	if err != nil {
		t.Fatalf("first Redeem() returned error: %v", err)
	}
	if first.Status != model.CreditPartiallyUsed {
		t.Errorf("status after first redemption = %s, want %s", first.Status, model.CreditPartiallyUsed)
	}
	if first.PlacementsUsed != 1 || first.PlacementsRemaining != 1 {
		t.Errorf("counts after first redemption = %d used / %d remaining, want 1/1", first.PlacementsUsed, first.PlacementsRemaining)
	}
	if len(first.LinkedBookingIDs) != 1 || first.LinkedBookingIDs[0] != "b1" {
		t.Errorf("LinkedBookingIDs = %v, want [b1]", first.LinkedBookingIDs)
	}

	second, err := svc.Redeem(context.Background(), "SUB-100", "b2", "")
	if err != nil {
		t.Fatalf("second Redeem() returned error: %v", err)
	}
	if second.Status != model.CreditFullyUsed {
		t.Errorf("status after second redemption = %s, want %s", second.Status, model.CreditFullyUsed)
	}
	if len(second.LinkedBookingIDs) != 2 || second.LinkedBookingIDs[1] != "b2" {
		t.Errorf("LinkedBookingIDs = %v, want [b1 b2]", second.LinkedBookingIDs)
	}

	_, err = svc.Redeem(context.Background(), "SUB-100", "b1", "interment scheduled")
	if err == nil {
		t.Fatalf("third Redeem() should fail on an exhausted credit")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeCreditExhausted {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeCreditExhausted)
	}

	credit, err := repo.FindBySubmissionID(context.Background(), "SUB-100")
	if err != nil {
		t.Fatalf("FindBySubmissionID() returned error: %v", err)
	}
	if credit.FirstUseDate == nil || credit.SecondUseDate == nil {
		t.Errorf("both use dates should be stamped")
	}
	if strings.Count(credit.Notes, "Redeemed 1 placement") != 2 {
		t.Errorf("notes should record both redemptions, got %q", credit.Notes)
	}
	if !strings.Contains(credit.Notes, "interment scheduled") {
		t.Errorf("caller note should be appended, got %q", credit.Notes)
	}
	if len(bookings.marked) != 2 {
		t.Errorf("both bookings should be marked, got %v", bookings.marked)
	}
}

func TestRedeem_NotFound(t *testing.T) {
	svc := newService(t, newMockPrepaymentRepo(), newMockBookingRefRepo(activeBooking("b1")))

	_, err := svc.Redeem(context.Background(), "SUB-MISSING", "b1", "")
	if err == nil {
		t.Fatalf("Redeem() should fail for an unknown submission id")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeNotFound {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeNotFound)
	}
}

func TestRedeem_TerminalCredit(t *testing.T) {
	refunded := twoPlacementCredit("SUB-200")
	refunded.Status = model.CreditRefunded
	// Terminal wins over exhausted even when capacity is also gone.
	refunded.PlacementsUsed = 2
	svc := newService(t, newMockPrepaymentRepo(refunded), newMockBookingRefRepo(activeBooking("b1")))

	_, err := svc.Redeem(context.Background(), "SUB-200", "b1", "")
	if err == nil {
		t.Fatalf("Redeem() should fail for a refunded credit")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeCreditTerminal {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeCreditTerminal)
	}
}

func TestRedeem_InvalidBookingReference(t *testing.T) {
	svc := newService(t, newMockPrepaymentRepo(twoPlacementCredit("SUB-300")), newMockBookingRefRepo())

	_, err := svc.Redeem(context.Background(), "SUB-300", "missing-booking", "")
	if err == nil {
		t.Fatalf("Redeem() should fail for a missing booking")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidReference {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeInvalidReference)
	}
}

func TestRedeem_CancelledBookingReference(t *testing.T) {
	cancelled := activeBooking("b1")
	cancelled.Status = model.BookingCancelled
	svc := newService(t, newMockPrepaymentRepo(twoPlacementCredit("SUB-400")), newMockBookingRefRepo(cancelled))

	_, err := svc.Redeem(context.Background(), "SUB-400", "b1", "")
	if err == nil {
		t.Fatalf("Redeem() should fail for a cancelled booking")
	}
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeInvalidReference {
		t.Errorf("error code = %s, want %s", appErr.Code, apperrors.CodeInvalidReference)
	}
}

func TestRedeem_ConcurrentLastPlacement(t *testing.T) {
	credit := &model.PrepaymentCredit{
		SubmissionID:  "SUB-500",
		PlacementType: model.PlacementSelf,
		Capacity:      1,
		Status:        model.CreditActive,
		PurchaserName: "Miriam Osei",
	}
	repo := newMockPrepaymentRepo(credit)
	bookings := newMockBookingRefRepo(
		activeBooking("b1"), activeBooking("b2"), activeBooking("b3"),
		activeBooking("b4"), activeBooking("b5"),
	)
	svc := newService(t, repo, bookings)

	const attempts = 5
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	wg.Add(attempts)

	for i := 0; i < attempts; i++ {
		bookingID := []string{"b1", "b2", "b3", "b4", "b5"}[i]
		go func() {
			defer wg.Done()
			_, err := svc.Redeem(context.Background(), "SUB-500", bookingID, "")
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	var successes, exhausted int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		if appErr := apperrors.AsAppError(err); appErr.Code == apperrors.CodeCreditExhausted {
			exhausted++
		} else {
			t.Errorf("unexpected error code %s: %v", appErr.Code, err)
		}
	}

	if successes != 1 {
		t.Errorf("exactly one concurrent redemption should succeed, got %d", successes)
	}
	if exhausted != attempts-1 {
		t.Errorf("losers should be reported exhausted, got %d of %d", exhausted, attempts-1)
	}

	final, err := repo.FindBySubmissionID(context.Background(), "SUB-500")
	if err != nil {
		t.Fatalf("FindBySubmissionID() returned error: %v", err)
	}
	if final.PlacementsUsed != 1 {
		t.Errorf("placements_used = %d, want 1", final.PlacementsUsed)
	}
	if final.Status != model.CreditFullyUsed {
		t.Errorf("status = %s, want %s", final.Status, model.CreditFullyUsed)
	}
	if final.LinkedBookingID2 != "" {
		t.Errorf("second link slot should stay empty, got %s", final.LinkedBookingID2)
	}
}

func TestCreate_CapacityFromPolicy(t *testing.T) {
	repo := newMockPrepaymentRepo()
	svc := newService(t, repo, newMockBookingRefRepo())

	credit := &model.PrepaymentCredit{
		SubmissionID:   "SUB-600",
		PlacementType:  model.PlacementTwoOthers,
		PurchaserName:  "Miriam Osei",
		PurchaserEmail: "miriam@example.com",
	}
	if err := svc.Create(context.Background(), credit); err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	if credit.Capacity != 2 {
		t.Errorf("capacity = %d, want 2 for a two-placement type", credit.Capacity)
	}
	if credit.Status != model.CreditActive {
		t.Errorf("status = %s, want %s", credit.Status, model.CreditActive)
	}

	single := &model.PrepaymentCredit{
		SubmissionID:   "SUB-601",
		PlacementType:  model.PlacementSelf,
		PurchaserName:  "Miriam Osei",
		PurchaserEmail: "miriam@example.com",
	}
	if err := svc.Create(context.Background(), single); err != nil {
		t.Fatalf("Create() returned error: %v", err)
	}
	if single.Capacity != 1 {
		t.Errorf("capacity = %d, want 1 for a single-placement type", single.Capacity)
	}
}

func TestCreate_RequiresContactPoint(t *testing.T) {
	svc := newService(t, newMockPrepaymentRepo(), newMockBookingRefRepo())

	credit := &model.PrepaymentCredit{
		SubmissionID:  "SUB-700",
		PlacementType: model.PlacementSelf,
		PurchaserName: "Miriam Osei",
	}
	if err := svc.Create(context.Background(), credit); err == nil {
		t.Errorf("Create() should require a purchaser phone or email")
	}
}

func TestLookup(t *testing.T) {
	credit := twoPlacementCredit("SUB-800")
	credit.PurchaserEmail = "miriam@example.com"
	svc := newService(t, newMockPrepaymentRepo(credit), newMockBookingRefRepo())

	summaries, err := svc.Lookup(context.Background(), repository.LookupQuery{PurchaserEmail: "miriam@example.com"})
	if err != nil {
		t.Fatalf("Lookup() returned error: %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if summaries[0].SubmissionID != "SUB-800" {
		t.Errorf("SubmissionID = %s, want SUB-800", summaries[0].SubmissionID)
	}
	if summaries[0].PlacementsRemaining != 2 {
		t.Errorf("PlacementsRemaining = %d, want 2", summaries[0].PlacementsRemaining)
	}

	if _, err := svc.Lookup(context.Background(), repository.LookupQuery{}); err == nil {
		t.Errorf("Lookup() should reject an empty query")
	}
}
