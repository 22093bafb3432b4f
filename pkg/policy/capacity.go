package policy

import (
	"fmt"
	"strings"
)

// CapacityPolicy maps a placement type to the number of placements the
// credit covers. Types in the configured two-placement list yield 2,
// everything else yields 1. Like the buffer table, this is operational
// policy loaded from configuration.
type CapacityPolicy struct {
	twoPlacement map[string]bool
}

// ParseCapacityPolicy parses a comma-separated list of placement types
// that cover two persons, e.g. "self_and_other,two_others".
func ParseCapacityPolicy(twoPlacementTypes string) (*CapacityPolicy, error) {
	types := make(map[string]bool)
	for _, entry := range strings.Split(twoPlacementTypes, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if types[entry] {
			return nil, fmt.Errorf("duplicate two-placement type %q", entry)
		}
		types[entry] = true
	}
	return &CapacityPolicy{twoPlacement: types}, nil
}

// Capacity returns the placement capacity for the given placement type.
func (p *CapacityPolicy) Capacity(placementType string) int {
	if p.twoPlacement[placementType] {
		return 2
	}
	return 1
}
