// Package responder resolves DNS questions against the published zone.
// Every answer is authoritative; the only response codes are NOERROR,
// NXDOMAIN, and FORMERR.
package responder

import (
	"context"
	"fmt"
	"net"

	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
)

// QueryResponder answers questions for every configured origin from a
// single zone. Names under an alias origin resolve exactly like their
// counterpart under the primary origin, and answers echo the name as
// queried.
type QueryResponder struct {
	origins domain.ZoneOrigins
	zone    ZoneReader
}

// Options defines configuration parameters for the query responder.
type Options struct {
	Origins domain.ZoneOrigins
	Zone    ZoneReader
}

// New creates a query responder with the specified options.
func New(opts Options) (*QueryResponder, error) {
	if opts.Zone == nil {
		return nil, fmt.Errorf("zone reader is required")
	}
	return &QueryResponder{
		origins: opts.Origins,
		zone:    opts.Zone,
	}, nil
}

var _ DNSResponder = (*QueryResponder)(nil)

// HandleQuery resolves one question against the current zone generation.
// Names outside every origin, and names whose node dropped out of the zone
// (every endpoint unhealthy), answer NXDOMAIN. An existing node queried for
// a type it does not carry answers NOERROR with no records.
func (r *QueryResponder) HandleQuery(ctx context.Context, q domain.Question, clientAddr net.Addr) domain.DNSResponse {
	relative, ok := r.origins.Relativize(q.Name)
	if !ok {
		log.Warn(map[string]any{
			"name":   q.Name,
			"client": clientAddr.String(),
		}, "query for name outside every origin")
		return r.respond(q, domain.RCodeNXDomain, nil)
	}

	if q.Class != domain.RRClassIN && q.Class != domain.RRClassANY {
		return r.respond(q, domain.RCodeNoError, nil)
	}

	rrset, nodeExists := r.zone.Lookup(relative, q.Type)
	if !nodeExists {
		log.Debug(map[string]any{
			"name":   q.Name,
			"client": clientAddr.String(),
		}, "no such node in zone")
		return r.respond(q, domain.RCodeNXDomain, nil)
	}

	// The answers echo the name exactly as queried, so lookups through an
	// alias origin stay coherent for the client.
	answers := make([]domain.ResourceRecord, 0, len(rrset))
	for _, rr := range rrset {
		answers = append(answers, rr.WithName(q.Name))
	}

	log.Debug(map[string]any{
		"name":    q.Name,
		"type":    q.Type.String(),
		"answers": len(answers),
		"client":  clientAddr.String(),
	}, "answered query")
	return r.respond(q, domain.RCodeNoError, answers)
}

func (r *QueryResponder) respond(q domain.Question, rcode domain.RCode, answers []domain.ResourceRecord) domain.DNSResponse {
	resp, err := domain.NewDNSResponse(q, rcode, answers)
	if err != nil {
		// Only reachable with malformed zone records; serve the safe
		// minimum instead of dropping the query.
		log.Error(map[string]any{
			"name":  q.Name,
			"error": err.Error(),
		}, "failed to build response")
		empty, _ := domain.NewDNSResponse(q, domain.RCodeNoError, nil)
		return empty
	}
	return resp
}
