package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// RuleType discriminates how an access rule's conditions are interpreted.
type RuleType string

const (
	RuleTimeBased RuleType = "TIME_BASED"
	RuleUserBased RuleType = "USER_BASED"
	RuleTemporary RuleType = "TEMPORARY"
	RuleSpecial   RuleType = "SPECIAL"
)

// WindowRule is a department's nominal work window.  GraceMinutes is used
// only to classify late arrivals; the access gate never consults it.
type WindowRule struct {
	Department   string
	Start        types.TimeOfDay
	End          types.TimeOfDay
	GraceMinutes int
	MinimumHours float64
	Active       bool
	CreatedAt    time.Time
}

// AccessRule is one prioritized, scoped access predicate.  Conditions is a
// raw JSON payload whose shape depends on Type; decoding happens at
// evaluation time and a malformed payload makes the rule a non-match, never
// a fatal error.
type AccessRule struct {
	Name        string
	Type        RuleType
	AccessPoint string
	Priority    int
	Conditions  json.RawMessage
	Active      bool
	ValidFrom   *time.Time
	ValidUntil  *time.Time
	Departments map[string]struct{} // empty = unrestricted
	AllowedIDs  map[string]struct{} // USER_BASED only
	CreatedAt   time.Time
}

// RuleStore is the read-only configuration snapshot the evaluator consults.
type RuleStore interface {
	// ActiveWindowRule returns the department's active window rule.  When
	// several are active the oldest by creation time wins, so evaluation
	// stays deterministic.  ErrNotFound when the department has none.
	ActiveWindowRule(ctx context.Context, department string) (WindowRule, error)

	// ActiveAccessRules returns the active rules scoped to accessPoint,
	// sorted by priority descending, ties broken by creation order.
	ActiveAccessRules(ctx context.Context, accessPoint string) ([]AccessRule, error)
}
