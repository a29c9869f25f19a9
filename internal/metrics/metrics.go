// Package metrics exposes Prometheus counters and histograms for every job
// boundary in the pipeline: collect, aggregate-hour, aggregate-day,
// aggregate-month, summarize.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "potalake"

var (
	// JobRunsTotal counts every job invocation by job name and outcome
	// ("ok", "storage_error", "list_error", "fetch_error", "parse_error",
	// "read_error", or "error" for a failure that carries no pipeline kind).
	JobRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_runs_total",
		Help:      "Total scheduled job invocations.",
	}, []string{"job", "outcome"})

	// JobDurationSeconds records how long each job invocation took.
	JobDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of a scheduled job invocation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})

	// SpotsCollectedTotal counts normalized spots written by the collector,
	// per tick.
	SpotsCollectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "spots_collected_total",
		Help:      "Total normalized spots written to raw storage.",
	})

	// AggregateRowsPublishedTotal counts rollup rows published, by level.
	AggregateRowsPublishedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "aggregate_rows_published_total",
		Help:      "Total aggregate rows published per rollup level.",
	}, []string{"level"})

	// ManifestEntriesGauge reports the current entry count per level.
	ManifestEntriesGauge = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "manifest_entries",
		Help:      "Current number of manifest entries per level.",
	}, []string{"level"})

	// SkippedLinesTotal counts malformed NDJSON lines dropped during
	// aggregation, per level.
	SkippedLinesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "skipped_lines_total",
		Help:      "Total malformed lines skipped while reading rollup/raw inputs.",
	}, []string{"level"})
)

func init() {
	prometheus.MustRegister(
		JobRunsTotal,
		JobDurationSeconds,
		SpotsCollectedTotal,
		AggregateRowsPublishedTotal,
		ManifestEntriesGauge,
		SkippedLinesTotal,
	)
}
