package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// ErrValidation is the root of all request-shape errors; the specific
// variants below wrap it so callers can branch on either level.
var (
	ErrValidation         = errors.New("invalid request")
	ErrInvalidAccessPoint = fmt.Errorf("%w: access_point is required", ErrValidation)
	ErrInvalidBadgeToken  = fmt.Errorf("%w: badge_token is required", ErrValidation)
)

// AccessService decides grant/deny for a credential scan.  Each call is a
// stateless decision: all state lives in the stores it reads and the two
// append-only streams it writes (punches and decision audit).
type AccessService struct {
	badges    *BadgeRegistry
	staff     store.StaffStore
	rules     store.RuleStore
	events    store.EventStore
	decisions store.DecisionStore
	logger    *log.Logger
	loc       *time.Location
	now       func() time.Time
}

type AccessDeps struct {
	Badges    *BadgeRegistry
	Staff     store.StaffStore
	Rules     store.RuleStore
	Events    store.EventStore
	Decisions store.DecisionStore
	Logger    *log.Logger
	Location  *time.Location
	Now       func() time.Time
}

func NewAccessService(d AccessDeps) *AccessService {
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &AccessService{
		badges:    d.Badges,
		staff:     d.Staff,
		rules:     d.Rules,
		events:    d.Events,
		decisions: d.Decisions,
		logger:    d.Logger,
		loc:       d.Location,
		now:       d.Now,
	}
}

// Evaluate runs the access gate for one scan.  Every decided outcome is
// recorded in the decision stream; a grant additionally appends exactly one
// ARRIVAL punch.  Failures before the append step write nothing at all.
func (s *AccessService) Evaluate(ctx context.Context, req types.ScanRequest) (types.ScanResponse, error) {
	accessPoint := strings.TrimSpace(req.AccessPoint)
	token := strings.TrimSpace(req.BadgeToken)

	if accessPoint == "" {
		return types.ScanResponse{}, ErrInvalidAccessPoint
	}
	if token == "" {
		return types.ScanResponse{}, ErrInvalidBadgeToken
	}

	now := s.now().UTC()

	identity, ok, err := s.badges.Identity(ctx, token)
	if err != nil {
		return types.ScanResponse{}, err
	}
	_ = s.badges.NoteUsed(ctx, token)

	if !ok {
		return s.deny(ctx, identity, token, accessPoint, types.ReasonUnknownBadge, now), nil
	}

	member, err := s.staff.Member(ctx, identity)
	if err != nil {
		return types.ScanResponse{}, err
	}
	if member.Department == "" {
		return s.deny(ctx, identity, token, accessPoint, types.ReasonNoDepartment, now), nil
	}

	window, err := s.rules.ActiveWindowRule(ctx, member.Department)
	if errors.Is(err, store.ErrNotFound) {
		return s.deny(ctx, identity, token, accessPoint, types.ReasonNoWindowRule, now), nil
	}
	if err != nil {
		return types.ScanResponse{}, err
	}

	// Hard gate on the department window, bounds inclusive.  The grace
	// period never loosens this check; it only classifies lateness.
	if !types.TimeOfDayAt(now, s.loc).Between(window.Start, window.End) {
		return s.deny(ctx, identity, token, accessPoint, types.ReasonOutsideWorkWindow, now), nil
	}

	rules, err := s.rules.ActiveAccessRules(ctx, accessPoint)
	if err != nil {
		return types.ScanResponse{}, err
	}

	var matched *store.AccessRule
	for i := range rules {
		if ruleMatches(rules[i], member, now, s.loc) {
			matched = &rules[i]
			break
		}
	}
	if matched == nil {
		return s.deny(ctx, identity, token, accessPoint, types.ReasonNoMatchingRule, now), nil
	}

	err = s.events.Append(ctx, store.Event{
		ID:          uuid.NewString(),
		Identity:    identity,
		Day:         types.DayOf(now, s.loc),
		Timestamp:   now,
		Action:      types.ActionArrival,
		AccessPoint: accessPoint,
		Note:        "access granted",
	})
	if errors.Is(err, store.ErrConflict) {
		// Someone already on site scanned again; the earlier open ARRIVAL
		// stands and this scan is an auditable deny.
		return s.deny(ctx, identity, token, accessPoint, types.ReasonAlreadyOnSite, now), nil
	}
	if err != nil {
		return types.ScanResponse{}, err
	}

	s.record(ctx, store.DecisionRecord{
		Identity:    identity,
		BadgeToken:  token,
		AccessPoint: accessPoint,
		Granted:     true,
		Reason:      types.ReasonRuleMatched,
		RuleName:    matched.Name,
		DecidedAt:   now,
	})

	return types.ScanResponse{
		OK:          true,
		Granted:     true,
		Reason:      types.ReasonRuleMatched,
		AccessPoint: accessPoint,
		ServerTime:  now.Format(time.RFC3339Nano),
	}, nil
}

// deny records the refusal and shapes the reader response.  The presented
// token is kept on the audit row so an unknown_badge deny still identifies
// the credential that was refused.
func (s *AccessService) deny(ctx context.Context, identity, token, accessPoint, reason string, now time.Time) types.ScanResponse {
	s.record(ctx, store.DecisionRecord{
		Identity:    identity,
		BadgeToken:  token,
		AccessPoint: accessPoint,
		Granted:     false,
		Reason:      reason,
		DecidedAt:   now,
	})
	return types.ScanResponse{
		OK:          true,
		Granted:     false,
		Reason:      reason,
		AccessPoint: accessPoint,
		ServerTime:  now.Format(time.RFC3339Nano),
	}
}

// record persists the decision to the audit stream.  A failed audit write
// is logged but does not prevent the reader from receiving its decision.
func (s *AccessService) record(ctx context.Context, rec store.DecisionRecord) {
	if err := s.decisions.Record(ctx, rec); err != nil && s.logger != nil {
		s.logger.Printf("decision audit write failed: %v", err)
	}
}
