package model

import "time"

// Placement types sold by the memorial garden office. Types covering two
// persons carry a capacity of 2; everything else covers a single
// placement. The mapping is configuration (pkg/policy), these constants
// only name the values the office uses today.
const (
	PlacementSelf         = "self"
	PlacementOther        = "other"
	PlacementSelfAndOther = "self_and_other"
	PlacementTwoOthers    = "two_others"
)

// Prepayment credit statuses. cancelled and refunded are terminal: no
// further redemption is permitted regardless of remaining capacity.
const (
	CreditActive        = "active"
	CreditPartiallyUsed = "partially_used"
	CreditFullyUsed     = "fully_used"
	CreditCancelled     = "cancelled"
	CreditRefunded      = "refunded"
)

// PrepaymentCredit is a purchased right to 1 or 2 future placements.
// Capacity is derived from PlacementType at purchase time and persisted,
// so redemption never re-derives it. Credits are created once, mutated
// only by redemption or a terminal cancellation/refund, and never
// deleted.
type PrepaymentCredit struct {
	ID             string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SubmissionID   string `json:"submission_id" bson:"submission_id" validate:"required,min=4,max=60"`
	PlacementType  string `json:"placement_type" bson:"placement_type" validate:"required,min=2,max=40"`
	Capacity       int    `json:"capacity" bson:"capacity" validate:"required,min=1,max=2"`
	PlacementsUsed int    `json:"placements_used" bson:"placements_used" validate:"min=0,max=2"`
	Status         string `json:"status" bson:"status" validate:"required,oneof=active partially_used fully_used cancelled refunded"`

	Person1Name string `json:"person1_name,omitempty" bson:"person1_name,omitempty" validate:"omitempty,max=100"`
	Person2Name string `json:"person2_name,omitempty" bson:"person2_name,omitempty" validate:"omitempty,max=100"`

	PurchaserName     string `json:"purchaser_name" bson:"purchaser_name" validate:"required,min=2,max=100"`
	PurchaserPhone    string `json:"purchaser_phone,omitempty" bson:"purchaser_phone,omitempty" validate:"omitempty,e164"`
	PurchaserEmail    string `json:"purchaser_email,omitempty" bson:"purchaser_email,omitempty" validate:"omitempty,email"`
	IsMember          bool   `json:"is_member" bson:"is_member"`
	SponsorMemberName string `json:"sponsor_member_name,omitempty" bson:"sponsor_member_name,omitempty" validate:"omitempty,max=100"`

	AmountPaid  float64    `json:"amount_paid" bson:"amount_paid" validate:"min=0"`
	PaymentDate *time.Time `json:"payment_date,omitempty" bson:"payment_date,omitempty"`

	// Redemption state. Linked booking ids fill in order: slot 1 before
	// slot 2. Notes is an append-only log of redemption events.
	LinkedBookingID1 string     `json:"linked_booking_id1,omitempty" bson:"linked_booking_id1,omitempty"`
	LinkedBookingID2 string     `json:"linked_booking_id2,omitempty" bson:"linked_booking_id2,omitempty"`
	FirstUseDate     *time.Time `json:"first_use_date,omitempty" bson:"first_use_date,omitempty"`
	SecondUseDate    *time.Time `json:"second_use_date,omitempty" bson:"second_use_date,omitempty"`
	Notes            string     `json:"notes,omitempty" bson:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// Terminal reports whether the credit can never be redeemed again.
func (c *PrepaymentCredit) Terminal() bool {
	return c.Status == CreditCancelled || c.Status == CreditRefunded
}

// Remaining returns the unredeemed placement count.
func (c *PrepaymentCredit) Remaining() int {
	return c.Capacity - c.PlacementsUsed
}

// LinkedBookingIDs returns the populated link slots in redemption order.
func (c *PrepaymentCredit) LinkedBookingIDs() []string {
	ids := make([]string, 0, 2)
	if c.LinkedBookingID1 != "" {
		ids = append(ids, c.LinkedBookingID1)
	}
	if c.LinkedBookingID2 != "" {
		ids = append(ids, c.LinkedBookingID2)
	}
	return ids
}

// PrepaymentSummary is the read-only projection returned by lookups.
type PrepaymentSummary struct {
	SubmissionID        string     `json:"submission_id"`
	Status              string     `json:"status"`
	PlacementType       string     `json:"placement_type"`
	PlacementsUsed      int        `json:"placements_used"`
	PlacementsRemaining int        `json:"placements_remaining"`
	PersonsCovered      []string   `json:"persons_covered,omitempty"`
	PurchaserName       string     `json:"purchaser_name"`
	AmountPaid          float64    `json:"amount_paid"`
	PaymentDate         *time.Time `json:"payment_date,omitempty"`
	LinkedBookingIDs    []string   `json:"linked_booking_ids,omitempty"`
	Notes               string     `json:"notes,omitempty"`
}

func (c *PrepaymentCredit) Summary() PrepaymentSummary {
	persons := make([]string, 0, 2)
	if c.Person1Name != "" {
		persons = append(persons, c.Person1Name)
	}
	if c.Person2Name != "" {
		persons = append(persons, c.Person2Name)
	}
	return PrepaymentSummary{
		SubmissionID:        c.SubmissionID,
		Status:              c.Status,
		PlacementType:       c.PlacementType,
		PlacementsUsed:      c.PlacementsUsed,
		PlacementsRemaining: c.Remaining(),
		PersonsCovered:      persons,
		PurchaserName:       c.PurchaserName,
		AmountPaid:          c.AmountPaid,
		PaymentDate:         c.PaymentDate,
		LinkedBookingIDs:    c.LinkedBookingIDs(),
		Notes:               c.Notes,
	}
}
