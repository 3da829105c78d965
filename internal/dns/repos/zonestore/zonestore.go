// Package zonestore holds the zone currently being served. Each refresh
// publishes a complete replacement; queries in flight keep reading the
// version they started with.
package zonestore

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pulsedns/pulse-dns/internal/dns/common/metrics"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
	"github.com/pulsedns/pulse-dns/internal/dns/services/responder"
	"github.com/pulsedns/pulse-dns/internal/dns/services/updater"
)

// Version is one immutable published generation of the zone. Records are
// indexed by owner name relative to the primary origin (the apex indexes
// under the empty string), then by record type.
type Version struct {
	generation uint64
	serial     uint32
	records    map[string]map[domain.RRType][]domain.ResourceRecord
	count      int
}

// Generation returns the monotonic publish counter of this version.
func (v *Version) Generation() uint64 {
	return v.generation
}

// Serial returns the SOA serial this version was built with.
func (v *Version) Serial() uint32 {
	return v.serial
}

// Lookup returns the RRset for a relative owner name and type. The second
// return value reports whether the owner name exists in the zone at all,
// letting the caller distinguish NXDOMAIN from an empty answer.
func (v *Version) Lookup(relative string, rrtype domain.RRType) ([]domain.ResourceRecord, bool) {
	node, ok := v.records[relative]
	if !ok {
		return nil, false
	}
	if rrtype == domain.RRTypeANY {
		var all []domain.ResourceRecord
		for _, rrset := range node {
			all = append(all, rrset...)
		}
		return all, true
	}
	return node[rrtype], true
}

// Store publishes zone versions. Readers load the current version with a
// single atomic pointer read; the writer mutex serializes publishers.
type Store struct {
	origin  string
	mu      sync.Mutex
	current atomic.Pointer[Version]
}

// New creates a Store for the given primary origin, initially holding an
// empty zone at generation zero.
func New(origin string) *Store {
	s := &Store{origin: domain.CanonicalName(origin)}
	s.current.Store(&Version{
		records: make(map[string]map[domain.RRType][]domain.ResourceRecord),
	})
	return s
}

// Snapshot returns the zone version currently being served. The returned
// version is immutable and remains valid after later Replace calls.
func (s *Store) Snapshot() *Version {
	return s.current.Load()
}

// Lookup answers against the current version. A single call reads exactly
// one generation, so every answer is internally consistent.
func (s *Store) Lookup(relative string, rrtype domain.RRType) ([]domain.ResourceRecord, bool) {
	return s.Snapshot().Lookup(relative, rrtype)
}

// Replace indexes the records by owner relative to the primary origin and
// publishes them as the next generation. Records owned by names outside the
// origin are indexed under their full name so alias-origin record sets
// built against the primary origin still resolve.
func (s *Store) Replace(records []domain.ResourceRecord, serial uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	indexed := make(map[string]map[domain.RRType][]domain.ResourceRecord)
	for _, rec := range records {
		rel := s.relativize(rec.Name)
		node, ok := indexed[rel]
		if !ok {
			node = make(map[domain.RRType][]domain.ResourceRecord)
			indexed[rel] = node
		}
		node[rec.Type] = append(node[rec.Type], rec)
	}

	prev := s.current.Load()
	next := &Version{
		generation: prev.generation + 1,
		serial:     serial,
		records:    indexed,
		count:      len(records),
	}
	s.current.Store(next)

	metrics.ZoneSerial.Set(float64(serial))
	metrics.ZoneGeneration.Set(float64(next.generation))
	metrics.ZoneRecords.Set(float64(next.count))
}

func (s *Store) relativize(name string) string {
	name = domain.CanonicalName(name)
	if name == s.origin {
		return ""
	}
	if strings.HasSuffix(name, "."+s.origin) {
		return name[:len(name)-len(s.origin)-1]
	}
	return name
}

var (
	_ updater.ZoneWriter   = (*Store)(nil)
	_ responder.ZoneReader = (*Store)(nil)
)
