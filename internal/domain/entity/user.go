package entity

import (
	"time"
)

// MinPasswordLength is the minimum accepted length for a raw password
// before it is hashed. Federated accounts are exempt.
const MinPasswordLength = 6

// Roles. Everyone registers as RoleUser; admins are promoted out of band.
const (
	RoleUser  = 0
	RoleAdmin = 1
)

// User is the aggregate root for the account domain.
// PasswordHash holds a bcrypt hash and must never leave the service
// in any response payload. It is empty for federated (Google) accounts.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         int
	IsVerified   bool

	// Federated identity fields; set only for Google accounts.
	GoogleID    string
	DisplayName string
	AvatarURL   string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsFederated reports whether the account authenticates through an
// external identity provider instead of a local password.
func (u *User) IsFederated() bool {
	return u.GoogleID != ""
}

// PublicProfile is the externally visible projection of a User.
type PublicProfile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       int       `json:"role"`
	IsVerified bool      `json:"is_verified"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// Public returns the projection of u that is safe to serialize.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		IsVerified: u.IsVerified,
		AvatarURL:  u.AvatarURL,
		CreatedAt:  u.CreatedAt,
	}
}
