package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	PipelinePassesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relint_pipeline_passes_total",
		Help: "Total number of completed reanalysis passes.",
	})

	StageTransitionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relint_stage_transitions_total",
		Help: "Total number of pipeline stage transitions by target stage.",
	}, []string{"stage"})

	StaleEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relint_stale_events_total",
		Help: "Total number of late or misdirected events discarded.",
	})

	DiagnosticsCurrent = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relint_diagnostics_current",
		Help: "Current number of diagnostics held in the store.",
	})

	FixQueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relint_fix_queue_depth",
		Help: "Current number of queued fix requests.",
	})

	FixesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relint_fixes_total",
		Help: "Total number of completed fix attempts by outcome.",
	}, []string{"outcome"})

	FilesLoadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relint_files_loaded_total",
		Help: "Total number of batch load responses by result.",
	}, []string{"result"})

	BatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relint_batch_seconds",
		Help:    "Wall time from batch start to completion.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relint_graph_nodes_total",
		Help: "Total number of nodes in the dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relint_graph_edges_total",
		Help: "Total number of edges in the dependency graph.",
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
