package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fauxdoorz"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTokenTTL   = 24 * time.Hour
	DefaultBcryptCost = 10

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingLockTTL = 10 * time.Second

	DefaultPaginationLimit = 100
)

// Booking statuses. Pending is assigned at creation; the rest arrive through
// explicit status updates.
const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingCancelled = "cancelled"
	BookingCompleted = "completed"
)

// Property statuses.
const (
	PropertyAvailable   = "available"
	PropertyBooked      = "booked"
	PropertyMaintenance = "maintenance"
)

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
