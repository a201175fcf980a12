package store

import (
	"context"
	"time"
)

// Badge maps a stable reader token to an identity.  Readers only ever report
// the token; the raw card protocol never reaches this layer.
type Badge struct {
	Token     string
	Identity  string
	Active    bool
	ExpiresAt *time.Time
}

// BadgeStore resolves tokens and records usage.
type BadgeStore interface {
	// Resolve returns the badge for token, ErrNotFound when no such badge
	// exists.  Callers decide what inactive or expired means for them.
	Resolve(ctx context.Context, token string) (Badge, error)

	// MarkUsed records when the badge was last presented.
	MarkUsed(ctx context.Context, token string, t time.Time) error
}
