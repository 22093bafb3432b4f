package model

import "testing"

func TestPrepaymentCredit_Terminal(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{CreditActive, false},
		{CreditPartiallyUsed, false},
		{CreditFullyUsed, false},
		{CreditCancelled, true},
		{CreditRefunded, true},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			credit := &PrepaymentCredit{Status: tt.status}
			if got := credit.Terminal(); got != tt.want {
				t.Errorf("Terminal() with status %s = %v, want %v", tt.status, got, tt.want)
			}
		})
	}
}

func TestPrepaymentCredit_LinkedBookingIDs(t *testing.T) {
	credit := &PrepaymentCredit{}
	if got := credit.LinkedBookingIDs(); len(got) != 0 {
		t.Errorf("LinkedBookingIDs() on fresh credit = %v, want empty", got)
	}

	credit.LinkedBookingID1 = "b1"
	if got := credit.LinkedBookingIDs(); len(got) != 1 || got[0] != "b1" {
		t.Errorf("LinkedBookingIDs() = %v, want [b1]", got)
	}

	credit.LinkedBookingID2 = "b2"
	got := credit.LinkedBookingIDs()
	if len(got) != 2 || got[0] != "b1" || got[1] != "b2" {
		t.Errorf("LinkedBookingIDs() = %v, want [b1 b2]", got)
	}
}

func TestPrepaymentCredit_Summary(t *testing.T) {
	credit := &PrepaymentCredit{
		SubmissionID:   "SUB-1",
		Status:         CreditPartiallyUsed,
		PlacementType:  PlacementSelfAndOther,
		Capacity:       2,
		PlacementsUsed: 1,
		Person1Name:    "Miriam Osei",
		PurchaserName:  "Miriam Osei",
		AmountPaid:     450,
	}

	summary := credit.Summary()
	if summary.PlacementsRemaining != 1 {
		t.Errorf("PlacementsRemaining = %d, want 1", summary.PlacementsRemaining)
	}
	if len(summary.PersonsCovered) != 1 || summary.PersonsCovered[0] != "Miriam Osei" {
		t.Errorf("PersonsCovered = %v, want [Miriam Osei]", summary.PersonsCovered)
	}
}
