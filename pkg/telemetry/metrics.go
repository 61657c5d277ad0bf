package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/motion/pkg/projection"
)

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "motion").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for update pass duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collectors.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "motion",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the engine and server collectors. Its methods are safe for
// concurrent use.
type Metrics struct {
	frames                 *prometheus.CounterVec
	nodes                  prometheus.Gauge
	resolvedTargetDeltas   prometheus.Counter
	recalculatedProjection prometheus.Counter
	updateDuration         prometheus.Histogram

	sessions   prometheus.Gauge
	framesSent *prometheus.CounterVec
	patches    prometheus.Counter
	wsErrors   *prometheus.CounterVec
}

// NewMetrics registers the collectors with the configured registry. It
// panics if they are already registered there, like promauto.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		frames: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "projection",
			Name:        "frames_total",
			Help:        "Total number of projection passes, by whether any node was projected",
			ConstLabels: config.ConstLabels,
		}, []string{"projected"}),

		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   "projection",
			Name:        "nodes",
			Help:        "Nodes visited by the most recent projection pass",
			ConstLabels: config.ConstLabels,
		}),

		resolvedTargetDeltas: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "projection",
			Name:        "resolved_target_deltas_total",
			Help:        "Total number of target delta resolutions",
			ConstLabels: config.ConstLabels,
		}),

		recalculatedProjection: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "projection",
			Name:        "recalculated_projections_total",
			Help:        "Total number of projection delta recalculations",
			ConstLabels: config.ConstLabels,
		}),

		updateDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   "projection",
			Name:        "update_pass_duration_seconds",
			Help:        "Layout update pass duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   "server",
			Name:        "sessions",
			Help:        "Number of connected devtools sessions",
			ConstLabels: config.ConstLabels,
		}),

		framesSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "server",
			Name:        "frames_sent_total",
			Help:        "Total frames written to sessions by frame type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),

		patches: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "server",
			Name:        "patches_sent_total",
			Help:        "Total style patches written to sessions",
			ConstLabels: config.ConstLabels,
		}),

		wsErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   "server",
			Name:        "websocket_errors_total",
			Help:        "Total WebSocket errors by type",
			ConstLabels: config.ConstLabels,
		}, []string{"type"}),
	}
}

// RecordFrame implements projection.Recorder.
func (m *Metrics) RecordFrame(fm projection.FrameMetrics) {
	projected := "false"
	if fm.RecalculatedProjection > 0 {
		projected = "true"
	}
	m.frames.WithLabelValues(projected).Inc()
	m.nodes.Set(float64(fm.TotalNodes))
	m.resolvedTargetDeltas.Add(float64(fm.ResolvedTargetDeltas))
	m.recalculatedProjection.Add(float64(fm.RecalculatedProjection))
}

// RecordUpdate implements projection.UpdateRecorder.
func (m *Metrics) RecordUpdate(_ int, d time.Duration) {
	m.updateDuration.Observe(d.Seconds())
}

// SessionOpened records a new devtools session.
func (m *Metrics) SessionOpened() { m.sessions.Inc() }

// SessionClosed records a devtools session ending.
func (m *Metrics) SessionClosed() { m.sessions.Dec() }

// FrameSent records a frame of the given type written to a session along
// with the number of style patches it carried.
func (m *Metrics) FrameSent(frameType string, patches int) {
	m.framesSent.WithLabelValues(frameType).Inc()
	if patches > 0 {
		m.patches.Add(float64(patches))
	}
}

// WebSocketError records a WebSocket error. errorType must be low
// cardinality, for example "read", "write" or "upgrade".
func (m *Metrics) WebSocketError(errorType string) {
	m.wsErrors.WithLabelValues(errorType).Inc()
}
