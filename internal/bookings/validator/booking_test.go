package validator

import (
	"errors"
	"strings"
	"testing"

	"bookline/pkg/logger"
	"bookline/pkg/model"
)

func validBooking() *model.Booking {
	return &model.Booking{
		CarID:        1,
		StartDate:    model.NewDate(2026, 1, 25),
		EndDate:      model.NewDate(2026, 1, 27),
		CustomerName: "Alice",
	}
}

func TestValidate_ValidBooking(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	if err := v.Validate(validBooking()); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestValidate_SingleDayBooking(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	booking := validBooking()
	booking.EndDate = booking.StartDate

	if err := v.Validate(booking); err != nil {
		t.Errorf("end equal to start must be valid, got %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*model.Booking)
		wantField string
	}{
		{"missing car id", func(b *model.Booking) { b.CarID = 0 }, "CarID"},
		{"missing start date", func(b *model.Booking) { b.StartDate = model.Date{} }, "StartDate"},
		{"missing end date", func(b *model.Booking) { b.EndDate = model.Date{} }, "EndDate"},
		{"missing customer name", func(b *model.Booking) { b.CustomerName = "" }, "CustomerName"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewBookingValidator(logger.Discard())

			booking := validBooking()
			tt.mutate(booking)

			err := v.Validate(booking)
			if err == nil {
				t.Fatal("expected a validation error")
			}

			var validationErrs ValidationErrors
			if !errors.As(err, &validationErrs) {
				t.Fatalf("expected ValidationErrors, got %T", err)
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("expected error to mention %s, got %q", tt.wantField, err.Error())
			}
		})
	}
}

func TestValidate_EndBeforeStart(t *testing.T) {
	v := NewBookingValidator(logger.Discard())

	booking := validBooking()
	booking.StartDate = model.NewDate(2026, 1, 27)
	booking.EndDate = model.NewDate(2026, 1, 25)

	err := v.Validate(booking)
	if err == nil {
		t.Fatal("expected a validation error")
	}
	if !strings.Contains(err.Error(), "end_date cannot be before start_date") {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
