package types

// ScanRequest is a credential scan reported by a reader at an access point.
type ScanRequest struct {
	AccessPoint string `json:"access_point"`
	BadgeToken  string `json:"badge_token"`
	RequestedAt string `json:"requested_at,omitempty"` // optional reader timestamp
}

// ScanResponse is the decision returned to the reader.
type ScanResponse struct {
	OK          bool   `json:"ok"`
	Granted     bool   `json:"granted"`
	Reason      string `json:"reason,omitempty"`
	AccessPoint string `json:"access_point"`
	ServerTime  string `json:"server_time"`
}

// Deny reasons.  A deny is a defined, auditable outcome, not an error.
const (
	ReasonUnknownBadge      = "unknown_badge"
	ReasonNoDepartment      = "no_department"
	ReasonNoWindowRule      = "no_window_rule"
	ReasonOutsideWorkWindow = "outside_work_window"
	ReasonNoMatchingRule    = "no_matching_rule"
	ReasonAlreadyOnSite     = "already_on_site"
)

// ReasonRuleMatched is the grant reason; the name of the matched rule is
// carried separately on the decision record.
const ReasonRuleMatched = "rule_matched"
