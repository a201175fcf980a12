package types

import (
	"testing"
	"time"
)

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in   string
		want TimeOfDay
	}{
		{"00:00", 0},
		{"08:05", 485},
		{"17:10", 1030},
		{"23:59", 1439},
	}
	for _, c := range cases {
		got, err := ParseTimeOfDay(c.in)
		if err != nil {
			t.Errorf("%s: %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("%s: got %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseTimeOfDay_Rejects(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "-1:00", "noon", "12"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestTimeOfDayString_RoundTrips(t *testing.T) {
	for _, s := range []string{"00:00", "08:05", "23:59"} {
		tod, err := ParseTimeOfDay(s)
		if err != nil {
			t.Fatalf("parse %s: %v", s, err)
		}
		if tod.String() != s {
			t.Errorf("String() = %q, want %q", tod.String(), s)
		}
	}
}

func TestBetween_BoundsInclusive(t *testing.T) {
	start, end := TimeOfDay(480), TimeOfDay(1080) // 08:00..18:00

	if !start.Between(start, end) {
		t.Error("start bound must be inside")
	}
	if !end.Between(start, end) {
		t.Error("end bound must be inside")
	}
	if TimeOfDay(479).Between(start, end) {
		t.Error("07:59 must be outside")
	}
	if TimeOfDay(1081).Between(start, end) {
		t.Error("18:01 must be outside")
	}
}

func TestDayOf_UsesSiteLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)

	// 23:30 UTC is already the next day at UTC+9.
	instant := time.Date(2026, 3, 4, 23, 30, 0, 0, time.UTC)
	if got := DayOf(instant, time.UTC); got != "2026-03-04" {
		t.Errorf("UTC day = %s", got)
	}
	if got := DayOf(instant, loc); got != "2026-03-05" {
		t.Errorf("site-local day = %s", got)
	}
}

func TestTimeOfDayAt_UsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	instant := time.Date(2026, 3, 4, 8, 30, 0, 0, time.UTC)

	if got := TimeOfDayAt(instant, loc); got != 9*60+30 {
		t.Errorf("got %s, want 09:30", got)
	}
}

func TestEventActionValid(t *testing.T) {
	for _, a := range []EventAction{ActionArrival, ActionDeparture, ActionPauseStart,
		ActionPauseEnd, ActionTempExit, ActionTempReturn} {
		if !a.Valid() {
			t.Errorf("%s should be valid", a)
		}
	}
	if EventAction("LUNCH").Valid() {
		t.Error("unknown action should be invalid")
	}
}
