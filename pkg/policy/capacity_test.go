package policy

import "testing"

func TestCapacityPolicy(t *testing.T) {
	policy, err := ParseCapacityPolicy("self_and_other,two_others")
	if err != nil {
		t.Fatalf("ParseCapacityPolicy() returned error: %v", err)
	}

	tests := []struct {
		placementType string
		want          int
	}{
		{"self", 1},
		{"other", 1},
		{"self_and_other", 2},
		{"two_others", 2},
		{"unknown_type", 1},
	}

	for _, tt := range tests {
		t.Run(tt.placementType, func(t *testing.T) {
			if got := policy.Capacity(tt.placementType); got != tt.want {
				t.Errorf("Capacity(%s) = %d, want %d", tt.placementType, got, tt.want)
			}
		})
	}
}

func TestParseCapacityPolicy_Duplicate(t *testing.T) {
	if _, err := ParseCapacityPolicy("two_others,two_others"); err == nil {
		t.Errorf("ParseCapacityPolicy() should reject duplicate entries")
	}
}

func TestParseCapacityPolicy_Empty(t *testing.T) {
	policy, err := ParseCapacityPolicy("")
	if err != nil {
		t.Fatalf("ParseCapacityPolicy(\"\") returned error: %v", err)
	}
	if got := policy.Capacity("self_and_other"); got != 1 {
		t.Errorf("empty policy should default every type to 1, got %d", got)
	}
}
