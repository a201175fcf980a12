package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

var (
	ErrInvalidMonth = errors.New("month must be between 1 and 12")
)

// Accountant reconstructs daily presence summaries from the punch log.
// It is a pure read side: no call here ever writes an event.
type Accountant struct {
	events store.EventStore
	leaves store.LeaveStore
	staff  store.StaffStore
	rules  store.RuleStore
	loc    *time.Location
	now    func() time.Time
}

// NewAccountant wires the accountant.  A nil now defaults to time.Now so
// tests can pin the clock.
func NewAccountant(
	events store.EventStore,
	leaves store.LeaveStore,
	staff store.StaffStore,
	rules store.RuleStore,
	loc *time.Location,
	now func() time.Time,
) *Accountant {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Accountant{
		events: events,
		leaves: leaves,
		staff:  staff,
		rules:  rules,
		loc:    loc,
		now:    now,
	}
}

// Summarize reconstructs one identity's day.  Approved leave short-circuits
// punch inspection entirely.  A malformed or incomplete punch history is
// never an error: the summary degrades to INCOMPLETE instead.
func (a *Accountant) Summarize(ctx context.Context, identity string, date time.Time) (types.DailySummary, error) {
	member, err := a.staff.Member(ctx, identity)
	if err != nil {
		return types.DailySummary{}, fmt.Errorf("summarize %s: %w", identity, err)
	}

	day := types.DayOf(date, a.loc)
	summary := types.DailySummary{Date: day}

	onLeave, err := a.leaves.IsOnApprovedLeave(ctx, identity, day)
	if err != nil {
		return types.DailySummary{}, fmt.Errorf("summarize %s leave lookup: %w", identity, err)
	}
	if onLeave {
		summary.Status = types.StatusOnLeave
		return summary, nil
	}

	events, err := a.events.ListDay(ctx, identity, day)
	if err != nil {
		return types.DailySummary{}, fmt.Errorf("summarize %s events: %w", identity, err)
	}
	if len(events) == 0 {
		summary.Status = types.StatusUnexcusedAbsence
		return summary, nil
	}

	var (
		arrival    *time.Time
		departure  *time.Time
		pauseTotal time.Duration
		pauseOpen  *time.Time
	)
	for _, ev := range events {
		ts := ev.Timestamp
		switch ev.Action {
		case types.ActionArrival:
			if arrival == nil {
				arrival = &ts
			}
		case types.ActionDeparture:
			departure = &ts
		case types.ActionPauseStart:
			// A repeated PAUSE_START restarts the open pause; the END
			// pairs with the latest start, same as the anomaly sweep.
			pauseOpen = &ts
		case types.ActionPauseEnd:
			if pauseOpen != nil {
				pauseTotal += ts.Sub(*pauseOpen)
				pauseOpen = nil
			}
		}
	}

	// A trailing open pause only counts when we are summarizing today;
	// for past days it cannot be closed against "now" anymore.
	if pauseOpen != nil && day == types.DayOf(a.now(), a.loc) {
		pauseTotal += a.now().Sub(*pauseOpen)
	}

	if arrival == nil || departure == nil {
		summary.Status = types.StatusIncomplete
		return summary, nil
	}

	worked := departure.Sub(*arrival) - pauseTotal
	if worked < 0 {
		worked = 0
	}
	summary.Status = types.StatusPresent
	summary.WorkedHours = roundHours(worked)
	summary.Late = a.isLate(ctx, member.Department, *arrival)
	return summary, nil
}

// MonthlySummary runs Summarize over every day of the given calendar month.
func (a *Accountant) MonthlySummary(ctx context.Context, identity string, year, month int) (types.MonthlySummary, error) {
	if month < 1 || month > 12 {
		return types.MonthlySummary{}, ErrInvalidMonth
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, a.loc)
	out := types.MonthlySummary{
		Identity: identity,
		Month:    first.Format("2006-01"),
	}

	for d := first; d.Month() == first.Month(); d = d.AddDate(0, 0, 1) {
		daily, err := a.Summarize(ctx, identity, d)
		if err != nil {
			return types.MonthlySummary{}, err
		}
		out.Days = append(out.Days, daily)
	}
	return out, nil
}

// isLate classifies the arrival against the department window rule plus its
// grace period.  Classification only: no department or no rule means no
// late flag, never an error.
func (a *Accountant) isLate(ctx context.Context, department string, arrival time.Time) bool {
	if department == "" {
		return false
	}
	rule, err := a.rules.ActiveWindowRule(ctx, department)
	if err != nil {
		return false
	}
	tod := types.TimeOfDayAt(arrival, a.loc)
	return tod > rule.Start+types.TimeOfDay(rule.GraceMinutes)
}

func roundHours(d time.Duration) float64 {
	return math.Round(d.Hours()*100) / 100
}
