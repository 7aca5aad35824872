package allocator

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrPortExhausted means the probe scan ran out of attempts without finding
// a locally unbound port.
var ErrPortExhausted = errors.New("port allocation exhausted")

// ProbeFunc reports whether a port is currently accepting connections on
// loopback. Injected so tests can fake local network state.
type ProbeFunc func(port int) bool

// LoopbackProbe returns a ProbeFunc backed by a real connect attempt. A
// connect rather than a bind check is deliberate: the port may be held by a
// container published from another session on the same machine.
func LoopbackProbe(timeout time.Duration) ProbeFunc {
	return func(port int) bool {
		conn, err := net.DialTimeout("tcp", fmt.Sprintf("127.0.0.1:%d", port), timeout)
		if err != nil {
			return false
		}
		conn.Close()
		return true
	}
}

// Ports allocates collision-free host ports for a session.
type Ports struct {
	Probe       ProbeFunc
	Step        int
	MaxAttempts int
}

// NewPorts returns a Ports allocator with the given probe and defaults for
// the scan parameters.
func NewPorts(probe ProbeFunc) *Ports {
	return &Ports{Probe: probe, Step: 10, MaxAttempts: 100}
}

// Allocate derives base + (n-1)*100 for session n and advances by Step while
// the candidate is already accepting connections. The scan is bounded: after
// MaxAttempts occupied candidates it fails with ErrPortExhausted instead of
// walking the port space forever.
//
// Probing is inherently racy against concurrent allocators; the narrow
// TOCTOU window is accepted for this single-operator tool.
func (p *Ports) Allocate(base, sessionNum int) (int, error) {
	step := p.Step
	if step <= 0 {
		step = 10
	}
	attempts := p.MaxAttempts
	if attempts <= 0 {
		attempts = 100
	}

	port := base + (sessionNum-1)*100
	for i := 0; i < attempts; i++ {
		if port > 65535 {
			break
		}
		if !p.Probe(port) {
			return port, nil
		}
		port += step
	}
	return 0, fmt.Errorf("%w: no free port from base %d after %d attempts", ErrPortExhausted, base, attempts)
}
