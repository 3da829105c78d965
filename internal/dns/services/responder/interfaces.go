package responder

import (
	"context"
	"net"

	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// DNSResponder answers DNS questions from the published zone.
type DNSResponder interface {
	// HandleQuery processes a DNS question and returns a DNS response.
	// The transport handles all network protocol details - the handler only
	// sees domain objects.
	HandleQuery(ctx context.Context, q domain.Question, clientAddr net.Addr) domain.DNSResponse
}

// ZoneReader provides read access to the zone currently being served. Each
// Lookup reads one consistent zone generation: a query in flight is never
// answered from a half-replaced zone. The second return value reports
// whether the owner name exists at all, letting the caller distinguish
// NXDOMAIN from an empty answer.
type ZoneReader interface {
	Lookup(relative string, rrtype domain.RRType) ([]domain.ResourceRecord, bool)
}

// ServerTransport defines the interface for DNS server transport
// implementations. Different transport types can implement this interface
// while providing the same request handling contract to the service layer.
type ServerTransport interface {
	// Start begins listening for requests and handling them via the
	// provided handler. The transport handles all network protocol concerns
	// and wire format conversion.
	Start(ctx context.Context, handler DNSResponder) error

	// Stop gracefully shuts down the transport, closing connections and
	// cleaning up resources.
	Stop() error

	// Address returns the network address the transport is bound to.
	Address() string
}
