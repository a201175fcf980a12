package types

// EventAction identifies a single punch action on an identity's timeline.
type EventAction string

const (
	ActionArrival    EventAction = "ARRIVAL"
	ActionDeparture  EventAction = "DEPARTURE"
	ActionPauseStart EventAction = "PAUSE_START"
	ActionPauseEnd   EventAction = "PAUSE_END"
	ActionTempExit   EventAction = "TEMP_EXIT"
	ActionTempReturn EventAction = "TEMP_RETURN"
)

// Valid reports whether a is one of the known punch actions.
func (a EventAction) Valid() bool {
	switch a {
	case ActionArrival, ActionDeparture, ActionPauseStart, ActionPauseEnd,
		ActionTempExit, ActionTempReturn:
		return true
	}
	return false
}

// DayStatus classifies one identity's day after reconstruction.
type DayStatus string

const (
	StatusPresent          DayStatus = "PRESENT"
	StatusIncomplete       DayStatus = "INCOMPLETE"
	StatusOnLeave          DayStatus = "ON_LEAVE"
	StatusUnexcusedAbsence DayStatus = "UNEXCUSED_ABSENCE"
)

// DailySummary is the reconstructed presence of one identity on one day.
// WorkedHours is decimal hours rounded to two places; it is zero unless
// Status is PRESENT.  Late is a classification flag only (arrival after the
// department window start plus grace period) and never affects access.
type DailySummary struct {
	Date        string    `json:"date"`
	Status      DayStatus `json:"status"`
	WorkedHours float64   `json:"worked_hours"`
	Late        bool      `json:"late,omitempty"`
}

// MonthlySummary aggregates the daily summaries of one calendar month.
type MonthlySummary struct {
	Identity string         `json:"identity"`
	Month    string         `json:"month"` // "2006-01"
	Days     []DailySummary `json:"days"`
}
