package store

import (
	"context"
	"time"
)

// Reader is one registered hardware reader.  Addr is the probe target; an
// empty Addr means the reader is not probeable and is skipped.
type Reader struct {
	ID          string
	AccessPoint string
	Addr        string
	Online      bool
	LastSeen    *time.Time
}

// ReaderStore tracks registered readers and their connectivity state.
type ReaderStore interface {
	ListReaders(ctx context.Context) ([]Reader, error)
	MarkReader(ctx context.Context, id string, online bool, t time.Time) error
}
