package events

import "time"

// Event types published by the chapel and memorial services. The
// notifier consumes these and turns them into operator notifications;
// further delivery (email, Notion sync) happens outside this system.
const (
	TypeBookingSubmitted     = "booking.submitted"
	TypeBookingStatusChanged = "booking.status_changed"
	TypePrepaymentRedeemed   = "prepayment.redeemed"
)

type BookingSubmitted struct {
	BookingID   string    `json:"booking_id"`
	ServiceDate time.Time `json:"service_date"`
	ServiceTime string    `json:"service_time"`
	ServiceType string    `json:"service_type"`
	ServiceFor  string    `json:"service_for"`
	ContactName string    `json:"contact_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

type BookingStatusChanged struct {
	BookingID   string    `json:"booking_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	ServiceDate time.Time `json:"service_date"`
	ServiceTime string    `json:"service_time"`
	ChangedAt   time.Time `json:"changed_at"`
}

type PrepaymentRedeemed struct {
	SubmissionID        string    `json:"submission_id"`
	BookingID           string    `json:"booking_id"`
	Status              string    `json:"status"`
	PlacementsUsed      int       `json:"placements_used"`
	PlacementsRemaining int       `json:"placements_remaining"`
	RedeemedAt          time.Time `json:"redeemed_at"`
}
