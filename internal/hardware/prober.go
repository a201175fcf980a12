// Package hardware holds the boundary to physical reader devices.  The core
// never speaks the card protocol itself; readers report token scans over
// the HTTP API and this package only answers "is the device reachable".
package hardware

import (
	"context"
	"fmt"
	"net"

	"github.com/ybenkirane/pointage/internal/pointage/store"
)

// DialProber probes a reader by opening a TCP connection to its address.
// The caller bounds the attempt with a context deadline.
type DialProber struct {
	dialer net.Dialer
}

func NewDialProber() *DialProber {
	return &DialProber{}
}

// Probe dials addr and reports reachability.  Any failure is wrapped in
// store.ErrHardware so callers can keep hardware faults distinct from
// policy outcomes.
func (p *DialProber) Probe(ctx context.Context, addr string) error {
	conn, err := p.dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", store.ErrHardware, addr, err)
	}
	_ = conn.Close()
	return nil
}
