// Package updater rebuilds the zone from TCP health checks. Each cycle
// probes every endpoint, and publishes a complete replacement zone when
// health changed or the signatures need refreshing.
package updater

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pulsedns/pulse-dns/internal/dns/common/clock"
	"github.com/pulsedns/pulse-dns/internal/dns/common/log"
	"github.com/pulsedns/pulse-dns/internal/dns/common/metrics"
	"github.com/pulsedns/pulse-dns/internal/dns/domain"
	"github.com/pulsedns/pulse-dns/internal/dns/gateways/dnssec"
)

// RefreshResult describes what one refresh cycle did to the zone.
type RefreshResult int

const (
	// RefreshNoChange means every endpoint kept its health status and the
	// previous zone generation remains published.
	RefreshNoChange RefreshResult = iota
	// RefreshRebuilt means a new zone generation was published.
	RefreshRebuilt
	// RefreshAborted means the cycle was cancelled mid-probe; all partial
	// results were discarded and the zone is untouched.
	RefreshAborted
)

func (r RefreshResult) String() string {
	switch r {
	case RefreshNoChange:
		return "no_change"
	case RefreshRebuilt:
		return "rebuilt"
	case RefreshAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

// Engine owns the endpoint health state and rebuilds the zone from it. It
// is not safe for concurrent use; the Runner drives it from one goroutine.
type Engine struct {
	origins     domain.ZoneOrigins
	nameServers []string
	sets        []domain.EndpointSet
	prober      Prober
	zone        ZoneWriter
	clock       clock.Clock
	serials     *serialSource
	plan        *signingPlan
	interval    time.Duration
	concurrency int
	built       bool
}

// Options defines configuration parameters for the zone engine.
type Options struct {
	// required parameters
	Origins     domain.ZoneOrigins
	NameServers []string // absolute hostnames, first is the SOA MNAME
	Sets        []domain.EndpointSet
	Prober      Prober
	Zone        ZoneWriter
	// optional parameters
	Key          *dnssec.Key // nil serves the zone unsigned
	MinInterval  time.Duration
	ProbeTimeout time.Duration
	Concurrency  int // max simultaneous probes, defaults to 8
	// options to inject for testing purposes
	Clock clock.Clock
}

// New creates a zone engine with the specified options.
func New(opts Options) (*Engine, error) {
	if len(opts.NameServers) == 0 {
		return nil, fmt.Errorf("at least one name server is required")
	}
	if len(opts.Sets) == 0 {
		return nil, fmt.Errorf("at least one endpoint set is required")
	}
	if opts.Prober == nil {
		return nil, fmt.Errorf("prober is required")
	}
	if opts.Zone == nil {
		return nil, fmt.Errorf("zone writer is required")
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = 30 * time.Second
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = 2 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.Clock == nil {
		opts.Clock = clock.RealClock{}
	}

	interval := MaxInterval(opts.MinInterval, opts.ProbeTimeout, opts.Sets, opts.Key != nil)

	return &Engine{
		origins:     opts.Origins,
		nameServers: opts.NameServers,
		sets:        opts.Sets,
		prober:      opts.Prober,
		zone:        opts.Zone,
		clock:       opts.Clock,
		serials:     newSerialSource(opts.Clock),
		plan:        newSigningPlan(opts.Key, opts.Clock, interval),
		interval:    interval,
		concurrency: opts.Concurrency,
	}, nil
}

// Interval returns the effective refresh interval the zone TTLs are
// derived from.
func (e *Engine) Interval() time.Duration {
	return e.interval
}

// Initialize builds and publishes the first zone generation from the
// configured endpoints without probing them. Endpoints start out healthy,
// so the server answers queries immediately while the first real cycle
// runs.
func (e *Engine) Initialize() error {
	return e.rebuild()
}

// RefreshCycle probes every endpoint once and publishes a new zone
// generation if any endpoint changed health, the signatures are near
// expiry, or no generation was ever published. A cancelled context aborts
// the cycle and discards all partial results.
func (e *Engine) RefreshCycle(ctx context.Context) (RefreshResult, error) {
	updated, changed, aborted := e.probeSets(ctx)
	if aborted {
		log.Info(nil, "refresh cycle aborted, keeping zone as it is")
		metrics.RefreshCyclesTotal.WithLabelValues(RefreshAborted.String()).Inc()
		return RefreshAborted, nil
	}

	e.sets = updated

	rebuild := changed
	if changed {
		log.Info(nil, "endpoint health changed")
	}
	if e.plan.nearExpiry() {
		log.Info(nil, "zone signatures near expiry")
		rebuild = true
	}

	if !rebuild && e.built {
		metrics.RefreshCyclesTotal.WithLabelValues(RefreshNoChange.String()).Inc()
		return RefreshNoChange, nil
	}

	if err := e.rebuild(); err != nil {
		return RefreshNoChange, err
	}
	metrics.RefreshCyclesTotal.WithLabelValues(RefreshRebuilt.String()).Inc()
	return RefreshRebuilt, nil
}

// probeSets checks every endpoint concurrently and returns the updated
// sets. The bool returns report whether any health status changed and
// whether the cycle was aborted by context cancellation.
func (e *Engine) probeSets(ctx context.Context) ([]domain.EndpointSet, bool, bool) {
	results := make([][]domain.Endpoint, len(e.sets))
	for i, set := range e.sets {
		results[i] = slices.Clone(set.Endpoints)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, set := range e.sets {
		for j, ep := range set.Endpoints {
			if ctx.Err() != nil {
				break
			}
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				healthy := e.prober.Check(gctx, ep.Address, ep.Port)
				if gctx.Err() != nil {
					// A probe cut short by cancellation must not count
					// as an observed failure.
					return gctx.Err()
				}
				results[i][j] = ep.WithHealth(healthy)
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, false, true
	}
	if ctx.Err() != nil {
		return nil, false, true
	}

	changed := false
	updated := make([]domain.EndpointSet, len(e.sets))
	for i, set := range e.sets {
		updated[i] = set.WithEndpoints(results[i])
		if !slices.Equal(updated[i].Endpoints, set.Endpoints) {
			changed = true
		}
	}
	return updated, changed, false
}

// rebuild assembles a complete record set from the current endpoint state,
// signs it when a key is configured, and publishes it with a fresh serial.
func (e *Engine) rebuild() error {
	origin := e.origins.Primary()
	serial := e.serials.Next()

	soa, err := buildSOARecord(origin, e.nameServers[0], serial, e.interval)
	if err != nil {
		return err
	}
	records := []domain.ResourceRecord{soa}

	nsRecords, err := buildNSRecords(origin, NSRecordTTL(e.interval), e.nameServers)
	if err != nil {
		return err
	}
	records = append(records, nsRecords...)

	aTTL := ARecordTTL(e.interval)
	for _, set := range e.sets {
		aRecords, err := buildARecords(origin, aTTL, set)
		if err != nil {
			return err
		}
		records = append(records, aRecords...)
	}

	records, err = e.plan.sign(origin, records)
	if err != nil {
		return err
	}

	e.zone.Replace(records, serial)
	e.built = true

	log.Info(map[string]any{
		"serial":  serial,
		"records": len(records),
	}, "published new zone generation")
	return nil
}
