package repository

import (
	"context"
	"time"

	"github.com/hamrorooms/rooms-api/internal/domain/entity"
)

// PendingStore holds unconfirmed registrations and password-reset codes
// keyed by (kind, email). Put overwrites any prior entry for the same
// key; the store enforces the TTL. Consume atomically validates the
// code and deletes the entry, so at most one concurrent confirmation
// can win. A Consume against a missing, expired, or non-matching entry
// returns ok=false with no side effects.
type PendingStore interface {
	Put(ctx context.Context, p entity.PendingVerification, ttl time.Duration) error
	Get(ctx context.Context, kind entity.VerificationKind, email string) (*entity.PendingVerification, error)
	Consume(ctx context.Context, kind entity.VerificationKind, email, code string) (*entity.PendingVerification, bool, error)
}
