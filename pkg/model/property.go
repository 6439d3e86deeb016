package model

import (
	"time"
)

type Property struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title         string    `json:"title" bson:"title" validate:"required,min=2,max=100"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=2000"`
	Location      string    `json:"location" bson:"location" validate:"required,min=2,max=100"`
	PricePerNight float64   `json:"pricePerNight" bson:"price_per_night" validate:"required,gt=0"`
	Images        []string  `json:"images" bson:"images" validate:"required,min=1,max=20,dive,url"`
	Amenities     []string  `json:"amenities" bson:"amenities" validate:"omitempty,dive,oneof=wifi parking pool gym ac kitchen tv washer"`
	Bedrooms      int       `json:"bedrooms" bson:"bedrooms" validate:"required,min=1,max=50"`
	Bathrooms     int       `json:"bathrooms" bson:"bathrooms" validate:"required,min=1,max=50"`
	MaxGuests     int       `json:"maxGuests" bson:"max_guests" validate:"required,min=1,max=200"`
	OwnerID       string    `json:"owner" bson:"owner_id" validate:"required,mongodb"`
	Status        string    `json:"status" bson:"status" validate:"required,oneof=available booked maintenance"`
	Rating        float64   `json:"rating" bson:"rating" validate:"omitempty,min=0,max=5"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

type PropertyUpdate struct {
	Title         string    `json:"title,omitempty" validate:"omitempty,min=2,max=100"`
	Description   *string   `json:"description,omitempty" validate:"omitempty,max=2000"`
	Location      string    `json:"location,omitempty" validate:"omitempty,min=2,max=100"`
	PricePerNight *float64  `json:"pricePerNight,omitempty" validate:"omitempty,gt=0"`
	Images        *[]string `json:"images,omitempty" validate:"omitempty,min=1,max=20,dive,url"`
	Amenities     *[]string `json:"amenities,omitempty" validate:"omitempty,dive,oneof=wifi parking pool gym ac kitchen tv washer"`
	Bedrooms      *int      `json:"bedrooms,omitempty" validate:"omitempty,min=1,max=50"`
	Bathrooms     *int      `json:"bathrooms,omitempty" validate:"omitempty,min=1,max=50"`
	MaxGuests     *int      `json:"maxGuests,omitempty" validate:"omitempty,min=1,max=200"`
	Status        string    `json:"status,omitempty" validate:"omitempty,oneof=available booked maintenance"`
}

// PropertySearch holds the public listing filters. Zero values mean
// "no filter".
type PropertySearch struct {
	Location string
	MinPrice float64
	MaxPrice float64
	Guests   int
	Status   string
}
