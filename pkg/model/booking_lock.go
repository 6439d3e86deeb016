package model

import "time"

// BookingLock is an advisory lock serializing booking creation per property.
// The _id encodes the property, so a second concurrent attempt fails the
// unique insert. ExpiresAt is TTL-indexed so abandoned locks disappear on
// their own.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
