package service

import (
	"context"
	"log"
	"time"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// Prober checks whether a reader answers at its address.  A failure is a
// hardware problem, never a policy outcome.
type Prober interface {
	Probe(ctx context.Context, addr string) error
}

// ReaderProber periodically probes every registered reader and records its
// connectivity state.  Like the anomaly detector it runs as a background
// goroutine with Start/Stop semantics.
type ReaderProber struct {
	readers store.ReaderStore
	prober  Prober

	timeout  time.Duration
	interval time.Duration

	logger *log.Logger
	now    func() time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

// ProberConfig holds the parameters for NewReaderProber.
type ProberConfig struct {
	// Timeout bounds one probe.  Defaults to 2s.
	Timeout time.Duration

	// Interval is how often the probe pass runs.  Defaults to 1m.
	Interval time.Duration

	Now func() time.Time
}

func NewReaderProber(readers store.ReaderStore, prober Prober, cfg ProberConfig, logger *log.Logger) *ReaderProber {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Second
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReaderProber{
		readers:  readers,
		prober:   prober,
		timeout:  cfg.Timeout,
		interval: cfg.Interval,
		logger:   logger,
		now:      cfg.Now,
		done:     make(chan struct{}),
	}
}

// Start begins the background probe loop.  The loop exits when ctx is
// cancelled or Stop is called.
func (p *ReaderProber) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	go p.loop(ctx)

	p.logger.Printf("reader prober started (timeout=%s, interval=%s)", p.timeout, p.interval)
}

// Stop signals the prober to exit and waits for it to finish.
func (p *ReaderProber) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	<-p.done
}

func (p *ReaderProber) loop(ctx context.Context) {
	defer close(p.done)

	p.ProbeAll(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.ProbeAll(ctx)
		}
	}
}

// ProbeAll probes every registered reader once.  One reader's failure never
// stops the pass for the others.
func (p *ReaderProber) ProbeAll(ctx context.Context) {
	readers, err := p.readers.ListReaders(ctx)
	if err != nil {
		p.logger.Printf("reader probe: list readers: %v", err)
		return
	}

	for _, r := range readers {
		if ctx.Err() != nil {
			return
		}
		if r.Addr == "" {
			continue
		}

		probeCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := p.prober.Probe(probeCtx, r.Addr)
		cancel()

		online := err == nil
		if !online {
			p.logger.Printf("reader %s unreachable at %s: %v", r.ID, r.Addr, err)
		}
		if err := p.readers.MarkReader(ctx, r.ID, online, p.now().UTC()); err != nil {
			p.logger.Printf("reader probe: mark %s: %v", r.ID, err)
		}
	}
}
