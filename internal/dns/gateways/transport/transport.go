// Package transport provides network transport implementations for the DNS
// server. It converts between wire format and domain objects, so the
// service layer works purely with domain types.
package transport

import (
	"fmt"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/wire"
	"github.com/pulsedns/pulse-dns/internal/dns/services/responder"
)

// TransportType represents the different types of DNS transport protocols supported.
type TransportType string

const (
	// TransportUDP represents standard DNS over UDP (RFC 1035)
	TransportUDP TransportType = "udp"

	// TransportDoT represents DNS over TLS (RFC 7858) - future implementation
	TransportDoT TransportType = "dot"
)

// NewTransport creates a new transport instance based on the specified
// type. This factory function allows for easy extension to additional
// transport protocols while maintaining a consistent interface.
func NewTransport(transportType TransportType, addr string, codec wire.DNSCodec, logger log.Logger) (responder.ServerTransport, error) {
	switch transportType {
	case TransportUDP:
		return NewUDPTransport(addr, codec, logger), nil

	case TransportDoT:
		return nil, fmt.Errorf("DNS over TLS transport not yet implemented")

	default:
		return nil, fmt.Errorf("unsupported transport type: %s", transportType)
	}
}
