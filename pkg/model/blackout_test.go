package model

import (
	"testing"
	"time"
)

func TestBlackoutPeriod_Covers(t *testing.T) {
	day := func(value string) time.Time {
		date, err := time.Parse("2006-01-02", value)
		if err != nil {
			t.Fatalf("failed to parse date %q: %v", value, err)
		}
		return date
	}

	period := &BlackoutPeriod{
		StartDate: day("2026-10-08"),
		EndDate:   day("2026-10-12"),
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2026-10-07", false},
		{"2026-10-08", true},
		{"2026-10-10", true},
		{"2026-10-12", true},
		{"2026-10-13", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			if got := period.Covers(day(tt.date)); got != tt.want {
				t.Errorf("Covers(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}
