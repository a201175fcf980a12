package service

import (
	"encoding/json"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// timeWindowConditions is the typed payload of a TIME_BASED rule.
type timeWindowConditions struct {
	Start types.TimeOfDay
	End   types.TimeOfDay
}

// decodeTimeWindow parses the secondary start/end window carried by a
// TIME_BASED rule's conditions.  Any malformed payload is an error; the
// evaluator maps that to a non-match rather than a failure.
func decodeTimeWindow(raw json.RawMessage) (timeWindowConditions, error) {
	var payload struct {
		Start string `json:"start_time"`
		End   string `json:"end_time"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return timeWindowConditions{}, err
	}
	start, err := types.ParseTimeOfDay(payload.Start)
	if err != nil {
		return timeWindowConditions{}, err
	}
	end, err := types.ParseTimeOfDay(payload.End)
	if err != nil {
		return timeWindowConditions{}, err
	}
	return timeWindowConditions{Start: start, End: end}, nil
}

// ruleMatches evaluates one access rule against a member at an instant.
// Validity window and department scope are hard filters for every type;
// after those, the rule type decides the predicate.  TEMPORARY rules match
// anywhere inside their validity window; SPECIAL is an extension point and
// never matches until a predicate exists for it.
func ruleMatches(rule store.AccessRule, member store.Member, now time.Time, loc *time.Location) bool {
	if rule.ValidFrom != nil && now.Before(*rule.ValidFrom) {
		return false
	}
	if rule.ValidUntil != nil && now.After(*rule.ValidUntil) {
		return false
	}
	if len(rule.Departments) > 0 {
		if _, ok := rule.Departments[member.Department]; !ok {
			return false
		}
	}

	switch rule.Type {
	case store.RuleTimeBased:
		window, err := decodeTimeWindow(rule.Conditions)
		if err != nil {
			return false
		}
		return types.TimeOfDayAt(now, loc).Between(window.Start, window.End)
	case store.RuleUserBased:
		_, ok := rule.AllowedIDs[member.Identity]
		return ok
	case store.RuleTemporary:
		// The validity window already passed above; that window is the
		// whole predicate for a temporary rule.
		return rule.ValidFrom != nil || rule.ValidUntil != nil
	case store.RuleSpecial:
		return false
	default:
		return false
	}
}
