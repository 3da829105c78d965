// Package probe implements TCP health checks against backend endpoints.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/common/metrics"
	"github.com/pulsedns/pulse-dns/internal/dns/services/updater"
)

// DialFunc defines a function type for establishing a network connection.
// It takes a context for cancellation, the network type, and the address to
// connect to, returning a net.Conn and an error if any occurs.
type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// TCPProber reports an endpoint healthy when a TCP connection to it can be
// opened within the timeout. The connection is closed immediately; no data
// is exchanged.
type TCPProber struct {
	timeout time.Duration
	dial    DialFunc
}

// Options defines configuration parameters for the TCP prober.
type Options struct {
	// Timeout bounds each probe attempt. Defaults to 2 seconds.
	Timeout time.Duration
	// Dial can be injected for testing purposes.
	Dial DialFunc
}

// NewTCPProber creates a TCP prober with the specified options.
func NewTCPProber(opts Options) *TCPProber {
	if opts.Timeout <= 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.Dial == nil {
		dialer := &net.Dialer{}
		opts.Dial = dialer.DialContext
	}
	return &TCPProber{
		timeout: opts.Timeout,
		dial:    opts.Dial,
	}
}

// Check opens a TCP connection to address:port and closes it. Any failure,
// including context cancellation, counts as unhealthy.
func (p *TCPProber) Check(ctx context.Context, address string, port int) bool {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	target := net.JoinHostPort(address, strconv.Itoa(port))
	start := time.Now()
	conn, err := p.dial(ctx, "tcp", target)
	metrics.ProbeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ProbesTotal.WithLabelValues("unhealthy").Inc()
		log.Debug(map[string]any{
			"endpoint": target,
			"error":    err.Error(),
		}, "health probe failed")
		return false
	}
	_ = conn.Close()
	metrics.ProbesTotal.WithLabelValues("healthy").Inc()
	return true
}

var _ updater.Prober = (*TCPProber)(nil)
