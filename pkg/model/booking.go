package model

import (
	"time"
)

// Service types accepted for chapel bookings. The buffer applied between
// bookings on the same day depends on this value (see pkg/policy).
const (
	ServiceWedding    = "wedding"
	ServiceMemorial   = "memorial"
	ServiceFuneral    = "funeral"
	ServiceBaptism    = "baptism"
	ServiceGeneralUse = "general_use"
)

// Booking lifecycle statuses. Bookings are never deleted; rejected and
// cancelled bookings stay on record but no longer occupy their slot.
const (
	BookingPending   = "pending"
	BookingApproved  = "approved"
	BookingRejected  = "rejected"
	BookingCancelled = "cancelled"
)

type Booking struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	ServiceDate  time.Time `json:"service_date" bson:"service_date" validate:"required"`
	ServiceTime  string    `json:"service_time" bson:"service_time" validate:"required,service_time"`
	ServiceType  string    `json:"service_type" bson:"service_type" validate:"required,min=2,max=40"`
	Status       string    `json:"status" bson:"status" validate:"required,oneof=pending approved rejected cancelled"`
	ServiceFor   string    `json:"service_for" bson:"service_for" validate:"required,min=2,max=200"`
	ContactName  string    `json:"contact_name" bson:"contact_name" validate:"required,min=2,max=100"`
	ContactEmail string    `json:"contact_email" bson:"contact_email" validate:"required,email"`
	ContactPhone string    `json:"contact_phone" bson:"contact_phone" validate:"omitempty,e164"`
	Notes        string    `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`

	// Set by the memorial service when a prepayment is redeemed against
	// this booking.
	PrepaymentUsed         bool   `json:"prepayment_used" bson:"prepayment_used"`
	PrepaymentSubmissionID string `json:"prepayment_submission_id,omitempty" bson:"prepayment_submission_id,omitempty"`

	StatusHistory []StatusChange `json:"status_history,omitempty" bson:"status_history,omitempty"`
	CreatedAt     time.Time      `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time      `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// StatusChange is an append-only audit entry recorded by SetStatus.
type StatusChange struct {
	From      string    `json:"from" bson:"from"`
	To        string    `json:"to" bson:"to"`
	ChangedAt time.Time `json:"changed_at" bson:"changed_at"`
	ChangedBy string    `json:"changed_by,omitempty" bson:"changed_by,omitempty"`
}

// Active reports whether the booking still occupies its slot for
// conflict purposes.
func (b *Booking) Active() bool {
	return b.Status != BookingRejected && b.Status != BookingCancelled
}

// BookingSummary is the conflict/listing projection returned by
// availability checks.
type BookingSummary struct {
	ID          string `json:"id"`
	ServiceTime string `json:"service_time"`
	ServiceType string `json:"service_type"`
	ServiceFor  string `json:"service_for"`
	Status      string `json:"status"`
}

func (b *Booking) Summary() BookingSummary {
	return BookingSummary{
		ID:          b.ID,
		ServiceTime: b.ServiceTime,
		ServiceType: b.ServiceType,
		ServiceFor:  b.ServiceFor,
		Status:      b.Status,
	}
}

// BookingFilter narrows ListByFilter queries. Zero values mean "any".
type BookingFilter struct {
	FromDate    *time.Time
	ToDate      *time.Time
	ServiceType string
	Status      string
}
