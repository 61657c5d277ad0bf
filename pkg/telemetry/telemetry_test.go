package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.opentelemetry.io/otel/attribute"

	"github.com/vango-dev/motion/pkg/projection"
)

func metricCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	if m.Counter == nil {
		t.Fatal("expected counter metric to have Counter field")
	}
	return m.GetCounter().GetValue()
}

func metricGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("gauge Write() error: %v", err)
	}
	if m.Gauge == nil {
		t.Fatal("expected gauge metric to have Gauge field")
	}
	return m.GetGauge().GetValue()
}

func metricHistogramCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m dto.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsRecordsFrames(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))

	var rec projection.Recorder = m
	rec.RecordFrame(projection.FrameMetrics{TotalNodes: 4, ResolvedTargetDeltas: 2, RecalculatedProjection: 3})
	rec.RecordFrame(projection.FrameMetrics{TotalNodes: 5})

	if got := metricCounterValue(t, m.frames.WithLabelValues("true")); got != 1 {
		t.Errorf("projected frames = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.frames.WithLabelValues("false")); got != 1 {
		t.Errorf("idle frames = %v, want 1", got)
	}
	if got := metricGaugeValue(t, m.nodes); got != 5 {
		t.Errorf("nodes = %v, want 5", got)
	}
	if got := metricCounterValue(t, m.resolvedTargetDeltas); got != 2 {
		t.Errorf("resolved target deltas = %v, want 2", got)
	}
	if got := metricCounterValue(t, m.recalculatedProjection); got != 3 {
		t.Errorf("recalculated projections = %v, want 3", got)
	}

	ur, ok := rec.(projection.UpdateRecorder)
	if !ok {
		t.Fatal("Metrics does not implement projection.UpdateRecorder")
	}
	ur.RecordUpdate(5, 3*time.Millisecond)
	if got := metricHistogramCount(t, m.updateDuration); got != 1 {
		t.Errorf("update pass samples = %d, want 1", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_projection_frames_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_projection_frames_total not registered")
	}
}

func TestMetricsRecordsSessions(t *testing.T) {
	m := NewMetrics(WithRegistry(prometheus.NewRegistry()))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	if got := metricGaugeValue(t, m.sessions); got != 1 {
		t.Errorf("sessions = %v, want 1", got)
	}

	m.FrameSent("styles", 7)
	m.FrameSent("stats", 0)
	if got := metricCounterValue(t, m.framesSent.WithLabelValues("styles")); got != 1 {
		t.Errorf("styles frames = %v, want 1", got)
	}
	if got := metricCounterValue(t, m.patches); got != 7 {
		t.Errorf("patches = %v, want 7", got)
	}

	m.WebSocketError("write")
	if got := metricCounterValue(t, m.wsErrors.WithLabelValues("write")); got != 1 {
		t.Errorf("websocket errors = %v, want 1", got)
	}
}

func TestNewMetricsPanicsOnDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(WithRegistry(reg))

	defer func() {
		if recover() == nil {
			t.Error("second registration did not panic")
		}
	}()
	NewMetrics(WithRegistry(reg))
}

func TestStartSpan(t *testing.T) {
	ctx, end := StartSpan(context.Background(), nil, "motion.test", attribute.String("k", "v"))
	if ctx == nil {
		t.Fatal("StartSpan returned a nil context")
	}
	if SpanFromContext(ctx) == nil {
		t.Error("SpanFromContext returned nil")
	}
	end(errors.New("boom"))

	_, end = StartSpan(context.Background(), Tracer("custom"), "motion.ok")
	end(nil)
}
