package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// BadgeRegistry resolves reader tokens to identities and keeps last-used
// bookkeeping.  It deliberately knows nothing about access policy.
type BadgeRegistry struct {
	store store.BadgeStore
	now   func() time.Time
}

func NewBadgeRegistry(st store.BadgeStore, now func() time.Time) *BadgeRegistry {
	if now == nil {
		now = time.Now
	}
	return &BadgeRegistry{store: st, now: now}
}

// Identity returns the identity behind token.  Unknown, inactive and
// expired badges all resolve to ("", false): the evaluator treats them
// identically and the audit reason stays the same either way.
func (r *BadgeRegistry) Identity(ctx context.Context, token string) (string, bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false, nil
	}

	badge, err := r.store.Resolve(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	if !badge.Active {
		return "", false, nil
	}
	if badge.ExpiresAt != nil && !badge.ExpiresAt.After(r.now()) {
		return "", false, nil
	}
	return badge.Identity, true, nil
}

// NoteUsed records that the badge was just presented.  Failures here must
// not block a scan, so the caller may ignore the returned error.
func (r *BadgeRegistry) NoteUsed(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	return r.store.MarkUsed(ctx, token, r.now().UTC())
}
