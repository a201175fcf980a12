package store

import (
	"context"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// Event is one immutable attendance punch.  Day is the site-local calendar
// day of Timestamp and is the partition key for all per-day reads.
type Event struct {
	ID          string
	Identity    string
	Day         string // "2006-01-02", site-local
	Timestamp   time.Time
	Action      types.EventAction
	AccessPoint string // optional
	Note        string
}

// Correction is an audited amendment to a punch.  History is never edited
// in place; the correction is kept alongside the original event.
type Correction struct {
	ID             string
	EventID        string
	PreviousAction types.EventAction
	NewAction      types.EventAction
	Reason         string
	CorrectedBy    string
	CorrectedAt    time.Time
}

// EventStore is the append-only punch log.
//
// Append must reject an ARRIVAL for an (identity, day) that already has an
// unclosed ARRIVAL with ErrConflict; the check and the insert must be atomic
// so concurrent scans cannot race past it.
type EventStore interface {
	Append(ctx context.Context, ev Event) error

	// ListDay returns all events for (identity, day) sorted ascending by
	// timestamp.  An empty slice and nil error means no punches that day.
	ListDay(ctx context.Context, identity, day string) ([]Event, error)

	// Correct appends an audited correction record for an existing event.
	// The original event row is left untouched.
	Correct(ctx context.Context, c Correction) error
}
