// Package metrics records per-run download metrics with the Prometheus
// client library and can export them in the node_exporter textfile format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vertextoedge/magpi-downloader/internal/domain"
	"github.com/vertextoedge/magpi-downloader/internal/port"
)

const namespace = "magpi"

// Metrics implements port.Recorder on a private registry
type Metrics struct {
	registry *prometheus.Registry

	issuesTotal     *prometheus.CounterVec
	failuresTotal   *prometheus.CounterVec
	bytesTotal      prometheus.Counter
	issueDuration   prometheus.Histogram
	lastRunTime     prometheus.Gauge
	lastRunFailures prometheus.Gauge
}

// Ensure Metrics implements port.Recorder
var _ port.Recorder = (*Metrics)(nil)

// New creates and registers the download metrics
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		issuesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issues_total",
			Help:      "Issues attempted, by outcome status.",
		}, []string{"status"}),
		failuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issue_failures_total",
			Help:      "Failed issues, by the stage that failed.",
		}, []string{"stage"}),
		bytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bytes_downloaded_total",
			Help:      "Bytes reported for successfully downloaded issues.",
		}),
		issueDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "issue_duration_seconds",
			Help:      "Time spent on one issue, metadata page included.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		lastRunTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last batch run finished.",
		}),
		lastRunFailures: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_failures",
			Help:      "Number of failed issues in the last batch run.",
		}),
	}

	m.registry.MustRegister(
		m.issuesTotal,
		m.failuresTotal,
		m.bytesTotal,
		m.issueDuration,
		m.lastRunTime,
		m.lastRunFailures,
	)

	return m
}

// Registry returns the registry holding the download metrics
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOutcome records one issue outcome
func (m *Metrics) ObserveOutcome(outcome domain.DownloadOutcome) {
	m.issuesTotal.WithLabelValues(string(outcome.Status)).Inc()
	m.issueDuration.Observe(outcome.Duration.Seconds())

	if outcome.IsSuccess() {
		m.bytesTotal.Add(float64(outcome.BytesWritten))
		return
	}

	stage := string(domain.StageOf(outcome.Err))
	if stage == "" {
		stage = "unknown"
	}
	m.failuresTotal.WithLabelValues(stage).Inc()
}

// ObserveRun records the end of a batch run
func (m *Metrics) ObserveRun(summary *domain.BatchSummary) {
	m.lastRunFailures.Set(float64(len(summary.Failures)))
	if !summary.FinishedAt.IsZero() {
		m.lastRunTime.Set(float64(summary.FinishedAt.Unix()))
	}
}

// WriteTextfile writes the registry to path for the node_exporter
// textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
