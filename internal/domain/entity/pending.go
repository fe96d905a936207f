package entity

import "time"

// VerificationKind tags a pending entry with the flow that created it,
// so a password-reset code can never be confused with (or clobber) a
// registration code for the same email.
type VerificationKind string

const (
	KindRegister VerificationKind = "register"
	KindReset    VerificationKind = "reset"
)

// PendingVerification is an ephemeral record keyed by (kind, email).
// For registrations it carries the candidate name and password hash;
// for resets only the code matters. Entries expire with a TTL and are
// consumed (read once, then deleted) on successful confirmation.
type PendingVerification struct {
	Kind         VerificationKind `json:"kind"`
	Email        string           `json:"email"`
	Name         string           `json:"name,omitempty"`
	PasswordHash string           `json:"password_hash,omitempty"`
	Code         string           `json:"code"` // zero-padded 6-digit string
	ExpiresAt    time.Time        `json:"expires_at"`
}
