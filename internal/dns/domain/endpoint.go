package domain

import (
	"fmt"
	"net/netip"
)

// Endpoint represents one backend address and the TCP port its health is
// probed on. Endpoints are immutable values: a health transition produces a
// new value rather than mutating in place, so no reader ever needs a lock.
type Endpoint struct {
	Address string // normalized IP literal, IPv4 or IPv6
	Port    int    // health check port, 1-65535
	Healthy bool
}

// NewEndpoint validates and normalizes an endpoint. The address must be a
// valid IPv4 or IPv6 literal; the port must be in 1-65535.
func NewEndpoint(address string, port int, healthy bool) (Endpoint, error) {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid IP address %q: %w", address, err)
	}
	if port < 1 || port > 65535 {
		return Endpoint{}, fmt.Errorf("invalid port %d: must be between 1 and 65535", port)
	}
	return Endpoint{
		Address: addr.Unmap().String(),
		Port:    port,
		Healthy: healthy,
	}, nil
}

// WithHealth returns the endpoint itself when the health status is
// unchanged, and a new value otherwise.
func (e Endpoint) WithHealth(healthy bool) Endpoint {
	if healthy == e.Healthy {
		return e
	}
	e.Healthy = healthy
	return e
}

// Key identifies the endpoint by address and port, independent of health.
// Used for deduplication within an endpoint set.
func (e Endpoint) Key() string {
	return fmt.Sprintf("%s:%d", e.Address, e.Port)
}

func (e Endpoint) String() string {
	return fmt.Sprintf("Endpoint(%s:%d healthy=%t)", e.Address, e.Port, e.Healthy)
}
