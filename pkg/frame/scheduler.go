package frame

import (
	"context"
	"time"
)

// StepName identifies a frame phase.
type StepName uint8

const (
	StepRead StepName = iota
	StepUpdate
	StepPreRender
	StepRender
	StepPostRender

	numSteps
)

// String returns the phase name.
func (s StepName) String() string {
	switch s {
	case StepRead:
		return "read"
	case StepUpdate:
		return "update"
	case StepPreRender:
		return "preRender"
	case StepRender:
		return "render"
	case StepPostRender:
		return "postRender"
	default:
		return "unknown"
	}
}

// maxDelta caps the frame delta so a stalled tab doesn't jump animations.
const maxDelta = 1000.0 / 15

// Data describes the frame being processed.
type Data struct {
	// Delta is the time since the previous frame in milliseconds.
	Delta float64

	// Timestamp is the frame time in milliseconds.
	Timestamp float64

	// IsProcessing is true while steps are running.
	IsProcessing bool
}

// Scheduler owns the ordered per-phase queues for one tree of work.
// It is not safe for concurrent use; all calls happen on the thread that
// drives frames.
type Scheduler struct {
	clock      Clock
	steps      [numSteps]*step
	microtasks []func()
	data       Data
	frameRate  float64
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source. Default: NewSystemClock().
func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithFrameRate sets the target frame rate used by Run. Default: 60.
func WithFrameRate(fps float64) Option {
	return func(s *Scheduler) {
		if fps > 0 {
			s.frameRate = fps
		}
	}
}

// NewScheduler creates a Scheduler.
func NewScheduler(opts ...Option) *Scheduler {
	s := &Scheduler{frameRate: 60}
	for i := range s.steps {
		s.steps[i] = &step{}
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = NewSystemClock()
	}
	return s
}

// Data returns the current frame data.
func (s *Scheduler) Data() Data {
	return s.data
}

// Now returns the scheduler clock's current time. While a frame is
// processing it returns the frame timestamp so every task in a frame sees
// the same time.
func (s *Scheduler) Now() float64 {
	if s.data.IsProcessing {
		return s.data.Timestamp
	}
	return s.clock.Now()
}

// Schedule queues fn for the next run of step.
func (s *Scheduler) Schedule(name StepName, fn func(Data)) *Task {
	return s.schedule(name, fn, false, false)
}

// ScheduleImmediate queues fn for step. If step is currently processing fn
// runs within the same frame.
func (s *Scheduler) ScheduleImmediate(name StepName, fn func(Data)) *Task {
	return s.schedule(name, fn, false, true)
}

// KeepAlive queues fn to run on every frame until cancelled.
func (s *Scheduler) KeepAlive(name StepName, fn func(Data)) *Task {
	return s.schedule(name, fn, true, false)
}

// Requeue schedules an existing task again. Cancelled tasks are revived.
func (s *Scheduler) Requeue(name StepName, t *Task, immediate bool) {
	t.cancelled = false
	s.steps[name].schedule(t, immediate)
}

func (s *Scheduler) schedule(name StepName, fn func(Data), keepAlive, immediate bool) *Task {
	t := &Task{fn: fn, keepAlive: keepAlive}
	s.steps[name].schedule(t, immediate)
	return t
}

// Microtask queues fn to run before the next frame, after the current
// synchronous work completes.
func (s *Scheduler) Microtask(fn func()) {
	s.microtasks = append(s.microtasks, fn)
}

// FlushMicrotasks runs queued microtasks, including ones queued while
// flushing.
func (s *Scheduler) FlushMicrotasks() {
	for len(s.microtasks) > 0 {
		queue := s.microtasks
		s.microtasks = nil
		for _, fn := range queue {
			fn()
		}
	}
}

// Pending reports whether any step has queued work.
func (s *Scheduler) Pending() bool {
	if len(s.microtasks) > 0 {
		return true
	}
	for _, st := range s.steps {
		if st.pending() {
			return true
		}
	}
	return false
}

// Step flushes microtasks and then processes one full frame.
func (s *Scheduler) Step() {
	s.FlushMicrotasks()
	s.beginFrame()
	for _, st := range s.steps {
		st.process(s.data)
	}
	s.data.IsProcessing = false
}

// FlushSync processes the update, preRender and render steps immediately,
// outside the regular frame cadence. Used by tree updates that must settle
// new layouts before the host paints.
func (s *Scheduler) FlushSync() {
	wasProcessing := s.data.IsProcessing
	s.beginFrame()
	s.steps[StepUpdate].process(s.data)
	s.steps[StepPreRender].process(s.data)
	s.steps[StepRender].process(s.data)
	s.data.IsProcessing = wasProcessing
}

func (s *Scheduler) beginFrame() {
	now := s.clock.Now()
	delta := now - s.data.Timestamp
	if delta < 0 {
		delta = 0
	}
	if delta > maxDelta {
		delta = maxDelta
	}
	s.data.Delta = delta
	s.data.Timestamp = now
	s.data.IsProcessing = true
}

// Run drives frames from a ticker until ctx is done. onFrame, if non-nil,
// is called after every frame.
func (s *Scheduler) Run(ctx context.Context, onFrame func(Data)) error {
	interval := time.Duration(float64(time.Second) / s.frameRate)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Step()
			if onFrame != nil {
				onFrame(s.data)
			}
		}
	}
}
