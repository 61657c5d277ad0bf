// Package telemetry exposes projection engine activity as Prometheus
// metrics and OpenTelemetry spans.
//
// # Prometheus Metrics
//
// A Metrics value implements projection.Recorder and
// projection.UpdateRecorder, so it can be handed straight to a tree:
//
//	reg := prometheus.NewRegistry()
//	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
//	tree := projection.NewTree(host, projection.WithRecorder(m))
//
// Metrics collected (namespace "motion" by default):
//   - motion_projection_frames_total: Counter of projection passes
//   - motion_projection_nodes: Gauge of nodes visited by the last pass
//   - motion_projection_resolved_target_deltas_total: Counter of target delta resolutions
//   - motion_projection_recalculated_projections_total: Counter of projection recalculations
//   - motion_projection_update_pass_duration_seconds: Histogram of layout update passes
//   - motion_server_sessions: Gauge of connected devtools sessions
//   - motion_server_frames_sent_total: Counter of frames written to sessions by type
//   - motion_server_patches_sent_total: Counter of style patches written to sessions
//   - motion_server_websocket_errors_total: Counter of WebSocket errors by type
//
// # OpenTelemetry
//
// StartSpan starts a span on the global tracer provider. Configure the
// provider in main before calling it.
package telemetry
