package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/service"
	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/store/memory"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

var accountantNow = time.Date(2026, 3, 4, 20, 0, 0, 0, time.UTC)

type accountantFixture struct {
	events *memory.EventStore
	staff  *memory.StaffStore
	rules  *memory.RuleStore
	acct   *service.Accountant
}

func newAccountantFixture(t *testing.T) *accountantFixture {
	t.Helper()

	events := memory.NewEventStore()
	staff := memory.NewStaffStore()
	rules := memory.NewRuleStore()

	staff.PutMember(store.Member{Identity: "BG20260001", Department: "ENG", Active: true})
	rules.PutWindowRule(store.WindowRule{
		Department:   "ENG",
		Start:        8 * 60,
		End:          18 * 60,
		GraceMinutes: 10,
		Active:       true,
		CreatedAt:    accountantNow.AddDate(-1, 0, 0),
	})

	acct := service.NewAccountant(events, staff, staff, rules, time.UTC,
		func() time.Time { return accountantNow })
	return &accountantFixture{events: events, staff: staff, rules: rules, acct: acct}
}

func (f *accountantFixture) punch(t *testing.T, identity string, action types.EventAction, ts time.Time) {
	t.Helper()
	err := f.events.Append(t.Context(), store.Event{
		ID:        identity + "-" + string(action) + "-" + ts.Format("150405"),
		Identity:  identity,
		Day:       types.DayOf(ts, time.UTC),
		Timestamp: ts,
		Action:    action,
	})
	if err != nil {
		t.Fatalf("append %s at %s: %v", action, ts, err)
	}
}

func at(h, m int) time.Time {
	return time.Date(2026, 3, 4, h, m, 0, 0, time.UTC)
}

func TestSummarize_FullDayWithPause(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionArrival, at(8, 5))
	f.punch(t, "BG20260001", types.ActionPauseStart, at(12, 0))
	f.punch(t, "BG20260001", types.ActionPauseEnd, at(12, 30))
	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 10))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}

	if ds.Status != types.StatusPresent {
		t.Errorf("expected PRESENT, got %s", ds.Status)
	}
	// 08:05 -> 17:10 is 9h05m; minus the 30m pause is 8h35m = 8.58h.
	if ds.WorkedHours != 8.58 {
		t.Errorf("expected 8.58 worked hours, got %v", ds.WorkedHours)
	}
	if ds.Late {
		t.Error("08:05 arrival with a 10m grace on 08:00 must not be late")
	}
}

func TestSummarize_LateArrival(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionArrival, at(8, 25))
	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !ds.Late {
		t.Error("08:25 arrival is past 08:00 plus 10m grace, expected late=true")
	}
}

func TestSummarize_MultiplePausesAccumulate(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionArrival, at(9, 0))
	f.punch(t, "BG20260001", types.ActionPauseStart, at(10, 0))
	f.punch(t, "BG20260001", types.ActionPauseEnd, at(10, 15))
	f.punch(t, "BG20260001", types.ActionPauseStart, at(13, 0))
	f.punch(t, "BG20260001", types.ActionPauseEnd, at(13, 45))
	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	// 8h minus 1h of pauses.
	if ds.WorkedHours != 7 {
		t.Errorf("expected 7 worked hours, got %v", ds.WorkedHours)
	}
}

func TestSummarize_RepeatedPauseStartRestartsPause(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionArrival, at(8, 0))
	f.punch(t, "BG20260001", types.ActionPauseStart, at(12, 0))
	f.punch(t, "BG20260001", types.ActionPauseStart, at(12, 30))
	f.punch(t, "BG20260001", types.ActionPauseEnd, at(13, 0))
	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	// The END pairs with the 12:30 restart, not the 12:00 start:
	// 9h minus a 30m pause.
	if ds.WorkedHours != 8.5 {
		t.Errorf("expected 8.5 worked hours, got %v", ds.WorkedHours)
	}
}

func TestSummarize_MissingDeparture_Incomplete(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionArrival, at(8, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if ds.Status != types.StatusIncomplete {
		t.Errorf("expected INCOMPLETE, got %s", ds.Status)
	}
	if ds.WorkedHours != 0 {
		t.Errorf("incomplete day must report 0 hours, got %v", ds.WorkedHours)
	}
}

func TestSummarize_MissingArrival_Incomplete(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if ds.Status != types.StatusIncomplete {
		t.Errorf("expected INCOMPLETE, got %s", ds.Status)
	}
}

func TestSummarize_NoEvents_UnexcusedAbsence(t *testing.T) {
	f := newAccountantFixture(t)

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if ds.Status != types.StatusUnexcusedAbsence {
		t.Errorf("expected UNEXCUSED_ABSENCE, got %s", ds.Status)
	}
}

func TestSummarize_ApprovedLeaveShortCircuits(t *testing.T) {
	f := newAccountantFixture(t)
	f.staff.PutApprovedLeave("BG20260001", "2026-03-01", "2026-03-10")

	// Punches on a leave day are ignored entirely.
	f.punch(t, "BG20260001", types.ActionArrival, at(8, 0))
	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if ds.Status != types.StatusOnLeave {
		t.Errorf("expected ON_LEAVE, got %s", ds.Status)
	}
	if ds.WorkedHours != 0 {
		t.Errorf("leave day must report 0 hours, got %v", ds.WorkedHours)
	}
}

func TestSummarize_UnknownIdentity(t *testing.T) {
	f := newAccountantFixture(t)

	_, err := f.acct.Summarize(t.Context(), "nobody", at(12, 0))
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSummarize_DepartureBeforeArrival_ClampsToZero(t *testing.T) {
	f := newAccountantFixture(t)

	// Misordered punches from a clock-skewed reader.
	f.punch(t, "BG20260001", types.ActionDeparture, at(8, 0))
	f.punch(t, "BG20260001", types.ActionArrival, at(9, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", at(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if ds.Status != types.StatusPresent {
		t.Errorf("expected PRESENT, got %s", ds.Status)
	}
	if ds.WorkedHours != 0 {
		t.Errorf("expected clamp to 0 hours, got %v", ds.WorkedHours)
	}
}

func TestSummarize_OpenPauseOnPastDayIgnored(t *testing.T) {
	f := newAccountantFixture(t)

	// accountantNow is 2026-03-04; these punches land the day before.
	prev := func(h, m int) time.Time { return time.Date(2026, 3, 3, h, m, 0, 0, time.UTC) }
	f.punch(t, "BG20260001", types.ActionArrival, prev(8, 0))
	f.punch(t, "BG20260001", types.ActionPauseStart, prev(12, 0))
	f.punch(t, "BG20260001", types.ActionDeparture, prev(17, 0))

	ds, err := f.acct.Summarize(t.Context(), "BG20260001", prev(12, 0))
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	// The unclosed pause cannot be measured against now for a past day.
	if ds.WorkedHours != 9 {
		t.Errorf("expected 9 worked hours, got %v", ds.WorkedHours)
	}
}

func TestMonthlySummary_CoversEveryDay(t *testing.T) {
	f := newAccountantFixture(t)

	f.punch(t, "BG20260001", types.ActionArrival, at(9, 0))
	f.punch(t, "BG20260001", types.ActionDeparture, at(17, 0))

	ms, err := f.acct.MonthlySummary(t.Context(), "BG20260001", 2026, 3)
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}

	if ms.Month != "2026-03" {
		t.Errorf("expected month 2026-03, got %q", ms.Month)
	}
	if len(ms.Days) != 31 {
		t.Fatalf("expected 31 days, got %d", len(ms.Days))
	}

	present := 0
	for _, d := range ms.Days {
		if d.Status == types.StatusPresent {
			present++
			if d.Date != "2026-03-04" {
				t.Errorf("present day should be 2026-03-04, got %s", d.Date)
			}
		}
	}
	if present != 1 {
		t.Errorf("expected exactly 1 present day, got %d", present)
	}
}

func TestMonthlySummary_InvalidMonth(t *testing.T) {
	f := newAccountantFixture(t)

	for _, month := range []int{0, 13, -1} {
		if _, err := f.acct.MonthlySummary(t.Context(), "BG20260001", 2026, month); !errors.Is(err, service.ErrInvalidMonth) {
			t.Errorf("month %d: expected ErrInvalidMonth, got %v", month, err)
		}
	}
}
