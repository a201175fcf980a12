package service

import (
	"context"
	"log"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// DecisionPruner periodically deletes decision audit rows older than a
// configurable retention period.  It runs as a background goroutine and is
// safe to stop via its context or the Stop method.
//
// A retention of 0 disables pruning entirely.
type DecisionPruner struct {
	store     store.DecisionStore
	retention time.Duration
	interval  time.Duration
	logger    *log.Logger
	cancel    context.CancelFunc
	done      chan struct{}
}

// PrunerConfig holds the parameters for NewDecisionPruner.
type PrunerConfig struct {
	// RetentionDays is how many days of decision history to keep.
	// 0 means keep everything (pruner will not start).
	RetentionDays int

	// IntervalHours is how often the pruner runs.  Defaults to 6.
	IntervalHours int
}

// NewDecisionPruner creates a pruner but does not start it.
// Call Start to begin the background loop.
func NewDecisionPruner(s store.DecisionStore, cfg PrunerConfig, logger *log.Logger) *DecisionPruner {
	interval := time.Duration(cfg.IntervalHours) * time.Hour
	if interval <= 0 {
		interval = 6 * time.Hour
	}

	return &DecisionPruner{
		store:     s,
		retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
		interval:  interval,
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Start begins the background pruning loop.  It runs an immediate prune on
// startup, then repeats on the configured interval.  The loop exits when
// ctx is cancelled or Stop is called.
func (p *DecisionPruner) Start(ctx context.Context) {
	if p.retention <= 0 {
		p.logger.Printf("decision pruner disabled (retention=0)")
		close(p.done)
		return
	}

	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Printf("decision pruner started (retention=%dd, interval=%dh)",
		int(p.retention.Hours()/24), int(p.interval.Hours()))
}

// Stop signals the pruner to exit and waits for it to finish.
func (p *DecisionPruner) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *DecisionPruner) loop(ctx context.Context) {
	defer close(p.done)

	p.prune(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.prune(ctx)
		}
	}
}

func (p *DecisionPruner) prune(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-p.retention)
	deleted, err := p.store.PruneOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Printf("decision prune error: %v", err)
		return
	}
	if deleted > 0 {
		p.logger.Printf("decision prune: deleted %d rows older than %s",
			deleted, cutoff.Format(time.RFC3339))
	}
}
