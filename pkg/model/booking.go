package model

import (
	"time"
)

// Booking reserves a property for the half-open interval
// [StartDate, EndDate). Two bookings with status pending or confirmed may
// never overlap for the same property.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PropertyID      string    `json:"property" bson:"property_id" validate:"required,mongodb"`
	UserID          string    `json:"user" bson:"user_id" validate:"required,mongodb"`
	StartDate       time.Time `json:"startDate" bson:"start_date" validate:"required"`
	EndDate         time.Time `json:"endDate" bson:"end_date" validate:"required,gtfield=StartDate"`
	TotalPrice      float64   `json:"totalPrice" bson:"total_price" validate:"required,gt=0"`
	GuestCount      int       `json:"guestCount" bson:"guest_count" validate:"required,min=1,max=200"`
	SpecialRequests string    `json:"specialRequests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	StartDate       *time.Time `json:"startDate,omitempty" validate:"omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty" validate:"omitempty"`
	TotalPrice      *float64   `json:"totalPrice,omitempty" validate:"omitempty,gt=0"`
	GuestCount      *int       `json:"guestCount,omitempty" validate:"omitempty,min=1,max=200"`
	SpecialRequests *string    `json:"specialRequests,omitempty" validate:"omitempty,max=500"`
	Status          string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}
