package probe

import (
	"context"
	"errors"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listen opens a real TCP listener on a loopback ephemeral port.
func listen(t *testing.T) (string, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })

	host, portStr, err := net.SplitHostPort(ln.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func TestTCPProber_Check(t *testing.T) {
	t.Run("listening endpoint is healthy", func(t *testing.T) {
		host, port := listen(t)
		p := NewTCPProber(Options{Timeout: time.Second})
		assert.True(t, p.Check(context.Background(), host, port))
	})

	t.Run("refused connection is unhealthy", func(t *testing.T) {
		host, port := listen(t)
		// Close the listener so the port refuses connections.
		p := NewTCPProber(Options{Timeout: time.Second})
		require.True(t, p.Check(context.Background(), host, port))

		// Find a port that is actually closed now.
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		closedAddr := ln.Addr().String()
		require.NoError(t, ln.Close())
		chost, cportStr, _ := net.SplitHostPort(closedAddr)
		cport, _ := strconv.Atoi(cportStr)

		assert.False(t, p.Check(context.Background(), chost, cport))
	})

	t.Run("cancelled context is unhealthy", func(t *testing.T) {
		host, port := listen(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		p := NewTCPProber(Options{Timeout: time.Second})
		assert.False(t, p.Check(ctx, host, port))
	})

	t.Run("dial timeout is unhealthy", func(t *testing.T) {
		p := NewTCPProber(Options{
			Timeout: 50 * time.Millisecond,
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				<-ctx.Done()
				return nil, ctx.Err()
			},
		})
		start := time.Now()
		assert.False(t, p.Check(context.Background(), "192.0.2.1", 80))
		assert.Less(t, time.Since(start), time.Second, "probe must respect its timeout")
	})

	t.Run("dial error is unhealthy", func(t *testing.T) {
		p := NewTCPProber(Options{
			Timeout: time.Second,
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				return nil, errors.New("network unreachable")
			},
		})
		assert.False(t, p.Check(context.Background(), "192.0.2.1", 80))
	})
}

func TestNewTCPProber_Defaults(t *testing.T) {
	p := NewTCPProber(Options{})
	assert.Equal(t, 2*time.Second, p.timeout)
	assert.NotNil(t, p.dial)
}
