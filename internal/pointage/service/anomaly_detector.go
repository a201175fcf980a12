package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ybenkirane/pointage/internal/pointage/store"
	"github.com/ybenkirane/pointage/internal/pointage/types"
)

// AnomalyDetector periodically sweeps today's punch timelines for early
// departures, missing counterpart punches and over-long pauses, emitting
// notification requests.  It runs as a background goroutine and is safe to
// stop via its context or the Stop method.
//
// Sweeps are read-only over the punch log and idempotent: rerunning over an
// unchanged event set emits the same requests.  De-duplication is the
// notification sink's job.
type AnomalyDetector struct {
	staff         store.StaffStore
	events        store.EventStore
	leaves        store.LeaveStore
	notifications store.NotificationStore

	closing  types.TimeOfDay
	maxBreak time.Duration
	interval time.Duration
	pageSize int

	loc    *time.Location
	now    func() time.Time
	logger *log.Logger
	cancel context.CancelFunc
	done   chan struct{}
}

// DetectorConfig holds the parameters for NewAnomalyDetector.
type DetectorConfig struct {
	// ClosingTime is the expected end of day; a DEPARTURE before it
	// counts as an early departure.
	ClosingTime types.TimeOfDay

	// MaxBreak is the longest acceptable pause.  Defaults to 1h.
	MaxBreak time.Duration

	// Interval is how often the sweep runs.  Defaults to 15m.
	Interval time.Duration

	// PageSize bounds each identity page so a sweep over a large staff
	// roster stays interruptible.  Defaults to 100.
	PageSize int

	Location *time.Location
	Now      func() time.Time
}

func NewAnomalyDetector(
	staff store.StaffStore,
	events store.EventStore,
	leaves store.LeaveStore,
	notifications store.NotificationStore,
	cfg DetectorConfig,
	logger *log.Logger,
) *AnomalyDetector {
	if cfg.MaxBreak <= 0 {
		cfg.MaxBreak = time.Hour
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 100
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &AnomalyDetector{
		staff:         staff,
		events:        events,
		leaves:        leaves,
		notifications: notifications,
		closing:       cfg.ClosingTime,
		maxBreak:      cfg.MaxBreak,
		interval:      cfg.Interval,
		pageSize:      cfg.PageSize,
		loc:           cfg.Location,
		now:           cfg.Now,
		logger:        logger,
		done:          make(chan struct{}),
	}
}

// Start begins the background sweep loop.  It runs an immediate sweep on
// startup, then repeats on the configured interval.  The loop exits when
// ctx is cancelled or Stop is called.
func (d *AnomalyDetector) Start(ctx context.Context) {
	ctx, d.cancel = context.WithCancel(ctx)

	go d.loop(ctx)

	d.logger.Printf("anomaly detector started (closing=%s, max_break=%s, interval=%s)",
		d.closing, d.maxBreak, d.interval)
}

// Stop signals the detector to exit and waits for it to finish.
func (d *AnomalyDetector) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	<-d.done
}

func (d *AnomalyDetector) loop(ctx context.Context) {
	defer close(d.done)

	if err := d.Sweep(ctx); err != nil {
		d.logger.Printf("anomaly sweep error: %v", err)
	}

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := d.Sweep(ctx); err != nil {
				d.logger.Printf("anomaly sweep error: %v", err)
			}
		}
	}
}

// Sweep runs the three checks over every active identity for today.  One
// identity's failure never aborts the sweep for the others, and the cursor
// pagination keeps the iteration interruptible between identities.
func (d *AnomalyDetector) Sweep(ctx context.Context) error {
	cursor := ""
	for {
		ids, err := d.staff.ListIdentities(ctx, cursor, d.pageSize)
		if err != nil {
			return fmt.Errorf("list identities after %q: %w", cursor, err)
		}
		if len(ids) == 0 {
			return nil
		}

		for _, identity := range ids {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := d.sweepIdentity(ctx, identity); err != nil {
				d.logger.Printf("anomaly sweep %s: %v", identity, err)
			}
		}
		cursor = ids[len(ids)-1]
	}
}

func (d *AnomalyDetector) sweepIdentity(ctx context.Context, identity string) error {
	now := d.now()
	day := types.DayOf(now, d.loc)

	onLeave, err := d.leaves.IsOnApprovedLeave(ctx, identity, day)
	if err != nil {
		return err
	}
	if onLeave {
		return nil
	}

	events, err := d.events.ListDay(ctx, identity, day)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return d.checkEarlyDeparture(gctx, identity, events) })
	g.Go(func() error { return d.checkMissedScan(gctx, identity, events) })
	g.Go(func() error { return d.checkExtendedBreaks(gctx, identity, events, now) })
	return g.Wait()
}

func (d *AnomalyDetector) checkEarlyDeparture(ctx context.Context, identity string, events []store.Event) error {
	departure := lastOf(events, types.ActionDeparture)
	if departure == nil {
		return nil
	}
	tod := types.TimeOfDayAt(departure.Timestamp, d.loc)
	if tod >= d.closing {
		return nil
	}
	delta := time.Duration(d.closing-tod) * time.Minute
	return d.notifications.Notify(ctx, store.Notification{
		Recipient: identity,
		Kind:      store.NotifyEarlyDeparture,
		Message:   fmt.Sprintf("departure at %s, %s before closing time %s", tod, delta, d.closing),
	})
}

func (d *AnomalyDetector) checkMissedScan(ctx context.Context, identity string, events []store.Event) error {
	if lastOf(events, types.ActionDeparture) == nil {
		return nil
	}
	if firstOf(events, types.ActionArrival) != nil {
		return nil
	}
	return d.notifications.Notify(ctx, store.Notification{
		Recipient: identity,
		Kind:      store.NotifyMissedScan,
		Message:   "departure recorded with no matching arrival today",
	})
}

func (d *AnomalyDetector) checkExtendedBreaks(ctx context.Context, identity string, events []store.Event, now time.Time) error {
	var open *time.Time
	flag := func(dur time.Duration) error {
		return d.notifications.Notify(ctx, store.Notification{
			Recipient: identity,
			Kind:      store.NotifyExtendedBreak,
			Message:   fmt.Sprintf("pause of %s exceeds the %s maximum", dur.Round(time.Minute), d.maxBreak),
		})
	}

	for _, ev := range events {
		switch ev.Action {
		case types.ActionPauseStart:
			ts := ev.Timestamp
			open = &ts
		case types.ActionPauseEnd:
			if open == nil {
				continue
			}
			if dur := ev.Timestamp.Sub(*open); dur > d.maxBreak {
				if err := flag(dur); err != nil {
					return err
				}
			}
			open = nil
		}
	}
	// A still-open pause is measured against now.
	if open != nil {
		if dur := now.Sub(*open); dur > d.maxBreak {
			return flag(dur)
		}
	}
	return nil
}

func firstOf(events []store.Event, action types.EventAction) *store.Event {
	for i := range events {
		if events[i].Action == action {
			return &events[i]
		}
	}
	return nil
}

func lastOf(events []store.Event, action types.EventAction) *store.Event {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Action == action {
			return &events[i]
		}
	}
	return nil
}
