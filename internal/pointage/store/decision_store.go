package store

import (
	"context"
	"time"
)

// DecisionRecord captures one access decision for the audit trail.  It is a
// separate stream from attendance punches: a deny never produces a synthetic
// punch, so the accountant never has to filter decision noise out of the
// timeline.
type DecisionRecord struct {
	Identity    string    `json:"identity"`
	BadgeToken  string    `json:"badge_token"` // presented credential, kept even when it resolves to nobody
	AccessPoint string    `json:"access_point"`
	Granted     bool      `json:"granted"`
	Reason      string    `json:"reason"`
	RuleName    string    `json:"rule_name,omitempty"` // matched rule on grant, empty otherwise
	DecidedAt   time.Time `json:"decided_at"`
}

// DecisionStore persists access decisions append-only.
type DecisionStore interface {
	Record(ctx context.Context, rec DecisionRecord) error

	// ListRecent returns up to limit decisions, newest first.
	ListRecent(ctx context.Context, limit int) ([]DecisionRecord, error)

	// PruneOlderThan deletes decisions decided before cutoff and returns
	// the number of rows removed.
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
