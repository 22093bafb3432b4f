package validator

import (
	"testing"
	"time"

	"bayview/pkg/logger"
	"bayview/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   logger.ERROR,
		Format:  logger.JSON,
		Service: "test",
	})
}

func futureServiceDate() time.Time {
	d := time.Now().UTC().AddDate(0, 1, 0)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func validBooking() *model.Booking {
	return &model.Booking{
		ServiceDate:  futureServiceDate(),
		ServiceTime:  "14:00",
		ServiceType:  model.ServiceWedding,
		Status:       model.BookingPending,
		ServiceFor:   "Rivera Family",
		ContactName:  "Ana Rivera",
		ContactEmail: "ana@example.com",
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := NewBookingValidator(testLogger())

	if err := v.Validate(validBooking()); err != nil {
		t.Errorf("Validate() rejected a valid booking: %v", err)
	}
}

func TestValidate_ServiceTime(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		serviceTime string
		valid       bool
	}{
		{"00:00", true},
		{"09:30", true},
		{"23:59", true},
		{"24:00", false},
		{"9:30", false},
		{"14:60", false},
		{"2pm", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.serviceTime, func(t *testing.T) {
			booking := validBooking()
			booking.ServiceTime = tt.serviceTime
			err := v.Validate(booking)
			if tt.valid && err != nil {
				t.Errorf("Validate() rejected service time %q: %v", tt.serviceTime, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("Validate() accepted service time %q", tt.serviceTime)
			}
		})
	}
}

func TestValidate_PastDate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	booking := validBooking()
	booking.ServiceDate = time.Date(2020, time.January, 15, 0, 0, 0, 0, time.UTC)
	if err := v.Validate(booking); err == nil {
		t.Errorf("Validate() should reject a past service date")
	}
}

func TestValidate_DateWithTimeComponent(t *testing.T) {
	v := NewBookingValidator(testLogger())

	booking := validBooking()
	booking.ServiceDate = booking.ServiceDate.Add(9 * time.Hour)
	if err := v.Validate(booking); err == nil {
		t.Errorf("Validate() should reject a service date with a time-of-day component")
	}
}

func TestValidate_ContactFields(t *testing.T) {
	v := NewBookingValidator(testLogger())

	badEmail := validBooking()
	badEmail.ContactEmail = "not-an-email"
	if err := v.Validate(badEmail); err == nil {
		t.Errorf("Validate() should reject an invalid email")
	}

	badPhone := validBooking()
	badPhone.ContactPhone = "555-1234"
	if err := v.Validate(badPhone); err == nil {
		t.Errorf("Validate() should reject a phone outside E.164 format")
	}

	goodPhone := validBooking()
	goodPhone.ContactPhone = "+12315551234"
	if err := v.Validate(goodPhone); err != nil {
		t.Errorf("Validate() rejected a valid E.164 phone: %v", err)
	}
}
