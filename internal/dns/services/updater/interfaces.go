package updater

import (
	"context"

	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// Prober checks whether a single backend endpoint is accepting TCP
// connections. Implementations report false for every failure mode:
// refusal, timeout, unreachable network, or context cancellation.
type Prober interface {
	Check(ctx context.Context, address string, port int) bool
}

// ZoneWriter publishes a freshly built set of records as the new zone.
// The write replaces the previous zone wholesale.
type ZoneWriter interface {
	Replace(records []domain.ResourceRecord, serial uint32)
}
