package model

import (
	"time"
)

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Email        string    `json:"email" bson:"email" validate:"required,email,max=254"`
	PasswordHash string    `json:"-" bson:"password"`
	Name         string    `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=user admin"`
	Properties   []string  `json:"properties" bson:"properties" validate:"omitempty,dive,mongodb"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at" validate:"omitempty"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at" validate:"omitempty"`
}

type UserUpdate struct {
	Name  string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Email string `json:"email,omitempty" validate:"omitempty,email,max=254"`
}

// SignupRequest carries the plaintext password; it never reaches storage
// unhashed.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
