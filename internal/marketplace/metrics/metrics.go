package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotRebuildsTotal counts task snapshot rebuilds by outcome
	SnapshotRebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linguo",
		Subsystem: "marketplace",
		Name:      "snapshot_rebuilds_total",
		Help:      "Total task snapshot rebuilds by outcome",
	}, []string{"outcome"})

	// RefreshCyclesTotal counts full refresh cycles
	RefreshCyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "linguo",
		Subsystem: "marketplace",
		Name:      "refresh_cycles_total",
		Help:      "Total completed refresh cycles",
	})

	// TasksTracked reports the number of cached task snapshots
	TasksTracked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "linguo",
		Subsystem: "marketplace",
		Name:      "tasks_tracked",
		Help:      "Number of task snapshots currently cached",
	})

	// MetadataFetchFailuresTotal counts degraded metadata fetches
	MetadataFetchFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "linguo",
		Subsystem: "marketplace",
		Name:      "metadata_fetch_failures_total",
		Help:      "Total metadata fetches that degraded to an empty document",
	})

	// HTTPRequestsTotal counts read-model API requests
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "linguo",
		Subsystem: "marketplace",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests processed",
	}, []string{"method", "endpoint", "status"})
)
