package store

import "context"

// Notification kinds emitted by the anomaly sweeps.
const (
	NotifyEarlyDeparture = "early_departure"
	NotifyMissedScan     = "missed_scan"
	NotifyExtendedBreak  = "extended_break"
)

// Notification is a delivery request.  Transport and de-duplication are the
// sink's responsibility, not the detector's.
type Notification struct {
	Recipient string
	Kind      string
	Message   string
}

// NotificationStore is the fire-and-forget sink for alerts.
type NotificationStore interface {
	Notify(ctx context.Context, n Notification) error
}
