package model

import "time"

// BlackoutPeriod closes the chapel to all bookings between StartDate and
// EndDate. Both boundaries are inclusive: a booking dated exactly on
// either edge is inside the blackout.
type BlackoutPeriod struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,uuid4"`
	StartDate time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" bson:"end_date" validate:"required,gtefield=StartDate"`
	Reason    string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Covers reports whether date falls inside the period.
func (p *BlackoutPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}
