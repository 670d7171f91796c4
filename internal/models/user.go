package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"` // optional but strongly recommended
	Phone    string `json:"phone"`
	Password string `json:"-"` // bcrypt hash, never serialized

	// Signature is the liability waiver signature collected at registration.
	Signature string `json:"-"`

	// IsAdmin grants approve/reject authority and exempts the user from
	// ownership checks. Set directly in the database, never via the API.
	IsAdmin bool `json:"is_admin"`
}
