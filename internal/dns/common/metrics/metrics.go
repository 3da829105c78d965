// Package metrics exposes Prometheus collectors for the DNS server and
// the health-check refresh loop.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Query-path metrics
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsedns_queries_total",
			Help: "Total number of DNS queries answered by response code",
		},
		[]string{"rcode"},
	)

	PacketsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pulsedns_packets_dropped_total",
			Help: "Total number of datagrams dropped without a response",
		},
	)

	// Refresh-loop metrics
	RefreshCyclesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsedns_refresh_cycles_total",
			Help: "Total number of refresh cycles by outcome",
		},
		[]string{"outcome"},
	)

	ProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pulsedns_probes_total",
			Help: "Total number of TCP health probes by result",
		},
		[]string{"result"},
	)

	ProbeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pulsedns_probe_duration_seconds",
			Help:    "TCP health probe duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Zone metrics
	ZoneSerial = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsedns_zone_serial",
			Help: "SOA serial of the zone currently being served",
		},
	)

	ZoneGeneration = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsedns_zone_generation",
			Help: "Monotonic generation counter of the published zone",
		},
	)

	ZoneRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pulsedns_zone_records",
			Help: "Number of resource records in the published zone",
		},
	)
)

func init() {
	prometheus.MustRegister(QueriesTotal)
	prometheus.MustRegister(PacketsDropped)
	prometheus.MustRegister(RefreshCyclesTotal)
	prometheus.MustRegister(ProbesTotal)
	prometheus.MustRegister(ProbeDuration)
	prometheus.MustRegister(ZoneSerial)
	prometheus.MustRegister(ZoneGeneration)
	prometheus.MustRegister(ZoneRecords)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
