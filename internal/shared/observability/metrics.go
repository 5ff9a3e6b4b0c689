package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archlens_graph_nodes_total",
		Help: "Total number of nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "archlens_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	BuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "archlens_graph_build_seconds",
		Help:    "Time spent building the dependency graph.",
		Buckets: prometheus.DefBuckets,
	})

	DetectorDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "archlens_detector_seconds",
		Help:    "Time spent per smell detector.",
		Buckets: prometheus.DefBuckets,
	}, []string{"detector"})

	FindingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archlens_findings_total",
		Help: "Total number of findings emitted, by type.",
	}, []string{"type"})

	CacheHitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archlens_cache_hits_total",
		Help: "Cache hits by domain.",
	}, []string{"domain"})

	CacheMissesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "archlens_cache_misses_total",
		Help: "Cache misses by domain.",
	}, []string{"domain"})
)
