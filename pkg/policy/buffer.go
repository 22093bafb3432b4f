package policy

import (
	"fmt"
	"strings"
	"time"
)

// BufferPolicy maps a service type to the minimum separation required
// from other bookings on the same day. The table is operational policy
// loaded from configuration, never hard-coded in the checker.
//
// The policy is symmetric: between two bookings the wider of the two
// configured buffers governs. A service type absent from the table uses
// the widest configured buffer, failing safe toward rejection.
type BufferPolicy struct {
	buffers map[string]time.Duration
	widest  time.Duration
}

// ParseBufferPolicy parses a "type=duration,type=duration" table, e.g.
// "wedding=2h,baptism=1h,general_use=3h".
func ParseBufferPolicy(table string) (*BufferPolicy, error) {
	entries := strings.Split(table, ",")
	buffers := make(map[string]time.Duration, len(entries))
	var widest time.Duration

	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		serviceType, value, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("invalid buffer policy entry %q: expected type=duration", entry)
		}
		serviceType = strings.TrimSpace(serviceType)
		buffer, err := time.ParseDuration(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("invalid buffer for %q: %w", serviceType, err)
		}
		if buffer <= 0 {
			return nil, fmt.Errorf("buffer for %q must be positive, got %s", serviceType, buffer)
		}
		if _, exists := buffers[serviceType]; exists {
			return nil, fmt.Errorf("duplicate buffer policy entry for %q", serviceType)
		}
		buffers[serviceType] = buffer
		if buffer > widest {
			widest = buffer
		}
	}

	if len(buffers) == 0 {
		return nil, fmt.Errorf("buffer policy table is empty")
	}

	return &BufferPolicy{buffers: buffers, widest: widest}, nil
}

// Buffer returns the separation required around a booking of the given
// service type. Unknown types get the widest configured buffer.
func (p *BufferPolicy) Buffer(serviceType string) time.Duration {
	if buffer, ok := p.buffers[serviceType]; ok {
		return buffer
	}
	return p.widest
}

// Between returns the buffer governing two bookings of the given types:
// whichever of the two is larger.
func (p *BufferPolicy) Between(typeA, typeB string) time.Duration {
	a := p.Buffer(typeA)
	b := p.Buffer(typeB)
	if a > b {
		return a
	}
	return b
}

// Widest returns the largest configured buffer.
func (p *BufferPolicy) Widest() time.Duration {
	return p.widest
}

// Known reports whether the service type has an explicit table entry.
func (p *BufferPolicy) Known(serviceType string) bool {
	_, ok := p.buffers[serviceType]
	return ok
}
