package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

func TestDecodeTimeWindow(t *testing.T) {
	w, err := decodeTimeWindow(json.RawMessage(`{"start_time":"08:30","end_time":"17:45"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if w.Start != 8*60+30 || w.End != 17*60+45 {
		t.Fatalf("decoded window = %v..%v", w.Start, w.End)
	}
}

func TestDecodeTimeWindow_Malformed(t *testing.T) {
	cases := []string{
		`not json`,
		`{}`,
		`{"start_time":"08:00"}`,
		`{"start_time":"8 am","end_time":"17:00"}`,
		`{"start_time":"25:00","end_time":"17:00"}`,
		`{"start_time":"08:00","end_time":"12:75"}`,
	}
	for _, raw := range cases {
		if _, err := decodeTimeWindow(json.RawMessage(raw)); err == nil {
			t.Errorf("expected error for %s", raw)
		}
	}
}

func TestRuleMatches_SpecialNeverMatches(t *testing.T) {
	rule := store.AccessRule{
		Type:       store.RuleSpecial,
		Active:     true,
		Conditions: json.RawMessage(`{}`),
	}
	member := store.Member{Identity: "BG1", Department: "ENG"}
	if ruleMatches(rule, member, time.Now(), time.UTC) {
		t.Error("SPECIAL rules must not match until they carry a predicate")
	}
}

func TestRuleMatches_TemporaryNeedsValidityWindow(t *testing.T) {
	member := store.Member{Identity: "BG1", Department: "ENG"}
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	// No validity bounds at all: no predicate, no match.
	open := store.AccessRule{Type: store.RuleTemporary, Active: true, Conditions: json.RawMessage(`{}`)}
	if ruleMatches(open, member, now, time.UTC) {
		t.Error("temporary rule without a validity window must not match")
	}

	from := now.Add(-time.Hour)
	until := now.Add(time.Hour)
	bounded := open
	bounded.ValidFrom = &from
	bounded.ValidUntil = &until
	if !ruleMatches(bounded, member, now, time.UTC) {
		t.Error("temporary rule inside its validity window must match")
	}
}

func TestRuleMatches_UserBasedAllowList(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	rule := store.AccessRule{
		Type:       store.RuleUserBased,
		Active:     true,
		Conditions: json.RawMessage(`{}`),
		AllowedIDs: map[string]struct{}{"BG1": {}},
	}

	if !ruleMatches(rule, store.Member{Identity: "BG1", Department: "ENG"}, now, time.UTC) {
		t.Error("listed identity must match")
	}
	if ruleMatches(rule, store.Member{Identity: "BG2", Department: "ENG"}, now, time.UTC) {
		t.Error("unlisted identity must not match")
	}
}

func TestRuleMatches_ValidityBoundsAreHardFilters(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	rule := store.AccessRule{
		Type:       store.RuleUserBased,
		Active:     true,
		Conditions: json.RawMessage(`{}`),
		AllowedIDs: map[string]struct{}{"BG1": {}},
	}
	member := store.Member{Identity: "BG1", Department: "ENG"}

	notYet := rule
	notYet.ValidFrom = &future
	if ruleMatches(notYet, member, now, time.UTC) {
		t.Error("rule not yet valid must not match")
	}

	lapsed := rule
	lapsed.ValidUntil = &past
	if ruleMatches(lapsed, member, now, time.UTC) {
		t.Error("lapsed rule must not match")
	}
}
