package validator

import (
	"testing"
	"time"

	"github.com/maro14/fauxdoorz/pkg/logger"
	"github.com/maro14/fauxdoorz/pkg/model"
)

func testValidator(t *testing.T, now time.Time) *BookingValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	v := NewBookingValidator(log)
	v.now = func() time.Time { return now }
	return v
}

func validBooking(start, end time.Time) *model.Booking {
	return &model.Booking{
		PropertyID: "507f1f77bcf86cd799439011",
		UserID:     "507f1f77bcf86cd799439012",
		StartDate:  start,
		EndDate:    end,
		TotalPrice: 350,
		GuestCount: 2,
		Status:     "pending",
	}
}

func TestValidate(t *testing.T) {
	now := time.Date(2026, time.June, 1, 14, 30, 0, 0, time.UTC)
	v := testValidator(t, now)
	day := func(n int) time.Time { return time.Date(2026, time.June, n, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr bool
	}{
		{"valid booking", func(b *model.Booking) {}, false},
		{"end equals start", func(b *model.Booking) { b.EndDate = b.StartDate }, true},
		{"end before start", func(b *model.Booking) { b.StartDate, b.EndDate = b.EndDate, b.StartDate }, true},
		{"missing property", func(b *model.Booking) { b.PropertyID = "" }, true},
		{"malformed property id", func(b *model.Booking) { b.PropertyID = "not-an-object-id" }, true},
		{"zero total price", func(b *model.Booking) { b.TotalPrice = 0 }, true},
		{"zero guests", func(b *model.Booking) { b.GuestCount = 0 }, true},
		{"unknown status", func(b *model.Booking) { b.Status = "tentative" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := validBooking(day(10), day(13))
			tt.mutate(booking)
			err := v.Validate(booking)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNewStay(t *testing.T) {
	now := time.Date(2026, time.June, 10, 14, 30, 0, 0, time.UTC)
	v := testValidator(t, now)
	day := func(n int) time.Time { return time.Date(2026, time.June, n, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		start, end time.Time
		wantErr    bool
	}{
		{"future stay", day(15), day(18), false},
		{"starts today", day(10), day(12), false},
		{"starts yesterday", day(9), day(12), true},
		{"well in the past", day(1), day(4), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateNewStay(validBooking(tt.start, tt.end))
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNewStay() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	now := time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)
	v := testValidator(t, now)
	day := func(n int) time.Time { return time.Date(2026, time.June, n, 0, 0, 0, 0, time.UTC) }

	start := day(10)
	end := day(13)
	badEnd := day(10)
	negativePrice := -10.0
	status := "confirmed"

	tests := []struct {
		name    string
		update  *model.BookingUpdate
		wantErr bool
	}{
		{"empty update", &model.BookingUpdate{}, false},
		{"status only", &model.BookingUpdate{Status: status}, false},
		{"both dates valid", &model.BookingUpdate{StartDate: &start, EndDate: &end}, false},
		{"end not after start", &model.BookingUpdate{StartDate: &start, EndDate: &badEnd}, true},
		{"negative price", &model.BookingUpdate{TotalPrice: &negativePrice}, true},
		{"unknown status", &model.BookingUpdate{Status: "tentative"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
