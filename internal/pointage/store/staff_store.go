package store

import "context"

// Member is the slice of a staff record the core needs: who they are and
// which department's window rule applies to them.
type Member struct {
	Identity   string
	Department string // empty when unassigned
	Active     bool
}

// StaffStore resolves identities and enumerates them for sweeps.
type StaffStore interface {
	// Member returns the staff record for identity, ErrNotFound otherwise.
	Member(ctx context.Context, identity string) (Member, error)

	// ListIdentities pages through active identities in stable order.
	// afterID is an exclusive cursor ("" starts from the beginning) so a
	// sweep can resume where it left off instead of rescanning everyone.
	ListIdentities(ctx context.Context, afterID string, limit int) ([]string, error)
}

// LeaveStore answers whether an identity is on approved absence for a day.
type LeaveStore interface {
	IsOnApprovedLeave(ctx context.Context, identity, day string) (bool, error)
}
