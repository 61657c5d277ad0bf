package projection

import "time"

// FrameMetrics counts the work done by one projection pass.
type FrameMetrics struct {
	TotalNodes             int
	ResolvedTargetDeltas   int
	RecalculatedProjection int
}

// Recorder receives per-frame counters. It is for diagnostics only and
// never influences control flow.
type Recorder interface {
	RecordFrame(m FrameMetrics)
}

// UpdateRecorder is optionally implemented by a Recorder to also observe
// tree-wide update passes.
type UpdateRecorder interface {
	RecordUpdate(nodes int, duration time.Duration)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(m FrameMetrics)

// RecordFrame implements Recorder.
func (f RecorderFunc) RecordFrame(m FrameMetrics) { f(m) }
