// Package metrics records binding and teardown outcomes as Prometheus
// metrics. The CLI is short-lived, so metrics are written to a textfile for
// the node-exporter textfile collector rather than served.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the metric vectors for one process.
type Recorder struct {
	registry *prometheus.Registry

	backendOps        *prometheus.CounterVec
	cleanupOutcomes   *prometheus.CounterVec
	discoveryAttempts *prometheus.CounterVec
	nodesDiscovered   *prometheus.GaugeVec
	duration          *prometheus.HistogramVec
}

// New creates a Recorder backed by its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),

		backendOps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lkebind",
				Subsystem: "binder",
				Name:      "backend_operations_total",
				Help:      "Backend operations by load balancer, action and result",
			},
			[]string{"load_balancer", "action", "result"},
		),

		cleanupOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lkebind",
				Subsystem: "teardown",
				Name:      "resources_total",
				Help:      "Resources seen during teardown by kind and outcome",
			},
			[]string{"cluster", "kind", "outcome"},
		),

		discoveryAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "lkebind",
				Subsystem: "discovery",
				Name:      "attempts_total",
				Help:      "Node discovery attempts by result",
			},
			[]string{"cluster", "result"},
		),

		nodesDiscovered: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "lkebind",
				Subsystem: "discovery",
				Name:      "nodes",
				Help:      "Nodes found by the last successful discovery",
			},
			[]string{"cluster"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "lkebind",
				Name:      "operation_duration_seconds",
				Help:      "Duration of bind and cleanup runs in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.5, 2, 10), // 0.5s to ~4m
			},
			[]string{"operation", "result"},
		),
	}

	r.registry.MustRegister(
		r.backendOps,
		r.cleanupOutcomes,
		r.discoveryAttempts,
		r.nodesDiscovered,
		r.duration,
	)
	return r
}

// Registry returns the registry holding the recorder's metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// BackendOperation counts one backend add/remove/skip outcome.
func (r *Recorder) BackendOperation(loadBalancerID, action, result string) {
	if r == nil {
		return
	}
	r.backendOps.WithLabelValues(loadBalancerID, action, result).Inc()
}

// CleanupOutcome counts one resource outcome of a teardown scan.
func (r *Recorder) CleanupOutcome(clusterID, kind, outcome string) {
	if r == nil {
		return
	}
	r.cleanupOutcomes.WithLabelValues(clusterID, kind, outcome).Inc()
}

// DiscoveryAttempt counts one discovery attempt.
func (r *Recorder) DiscoveryAttempt(clusterID, result string) {
	if r == nil {
		return
	}
	r.discoveryAttempts.WithLabelValues(clusterID, result).Inc()
}

// NodesDiscovered records the node count of a successful discovery.
func (r *Recorder) NodesDiscovered(clusterID string, n int) {
	if r == nil {
		return
	}
	r.nodesDiscovered.WithLabelValues(clusterID).Set(float64(n))
}

// ObserveDuration records how long an operation ran.
func (r *Recorder) ObserveDuration(operation string, err error, d time.Duration) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.duration.WithLabelValues(operation, result).Observe(d.Seconds())
}

// WriteTextfile writes all metrics to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
