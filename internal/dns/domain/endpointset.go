package domain

import (
	"fmt"
	"slices"
	"strings"
)

// EndpointSet holds every endpoint configured for one subdomain. Identity is
// the subdomain alone: replacing the endpoints for the same subdomain is a
// same-key update. The endpoint slice is deduplicated by address and port
// and kept in a deterministic order.
type EndpointSet struct {
	Subdomain string // relative to the zone origin, e.g. "www"
	Endpoints []Endpoint
}

// NewEndpointSet validates the subdomain against DNS label rules and
// deduplicates the endpoints.
func NewEndpointSet(subdomain string, endpoints []Endpoint) (EndpointSet, error) {
	subdomain = CanonicalName(subdomain)
	if err := ValidateName(subdomain); err != nil {
		return EndpointSet{}, fmt.Errorf("invalid subdomain: %w", err)
	}
	if len(endpoints) == 0 {
		return EndpointSet{}, fmt.Errorf("subdomain %q has no endpoints", subdomain)
	}

	seen := make(map[string]struct{}, len(endpoints))
	deduped := make([]Endpoint, 0, len(endpoints))
	for _, ep := range endpoints {
		if _, ok := seen[ep.Key()]; ok {
			continue
		}
		seen[ep.Key()] = struct{}{}
		deduped = append(deduped, ep)
	}
	slices.SortFunc(deduped, func(a, b Endpoint) int {
		return strings.Compare(a.Key(), b.Key())
	})

	return EndpointSet{Subdomain: subdomain, Endpoints: deduped}, nil
}

// WithEndpoints returns the set itself when the endpoints are elementwise
// unchanged, and a new set carrying the updated endpoints otherwise. The
// updated slice must describe the same endpoints in the same order, which
// holds for health refreshes built from this set's own endpoints.
func (s EndpointSet) WithEndpoints(updated []Endpoint) EndpointSet {
	if slices.Equal(s.Endpoints, updated) {
		return s
	}
	return EndpointSet{Subdomain: s.Subdomain, Endpoints: updated}
}

// HealthyAddresses returns the addresses of all currently healthy endpoints.
func (s EndpointSet) HealthyAddresses() []string {
	var addrs []string
	for _, ep := range s.Endpoints {
		if ep.Healthy {
			addrs = append(addrs, ep.Address)
		}
	}
	return addrs
}

func (s EndpointSet) String() string {
	parts := make([]string, len(s.Endpoints))
	for i, ep := range s.Endpoints {
		parts[i] = ep.String()
	}
	return fmt.Sprintf("EndpointSet(%s: %s)", s.Subdomain, strings.Join(parts, ", "))
}
