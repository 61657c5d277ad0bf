// Package frame batches work into ordered per-frame phases.
//
// Every animation frame runs its steps in a fixed order so that host reads
// never interleave with writes:
//
//	read → update → preRender → render → postRender
//
// A Scheduler is an explicit object rather than global state. Hosts drive it
// either with a real ticker (Run) or manually (Step), which is how tests get
// deterministic frames:
//
//	clock := frame.NewManualClock()
//	s := frame.NewScheduler(frame.WithClock(clock))
//	s.Schedule(frame.StepPreRender, func(d frame.Data) { ... })
//	clock.Advance(16 * time.Millisecond)
//	s.Step()
//
// Microtasks run at the end of the current host commit, before the next
// frame. They are flushed by FlushMicrotasks or at the start of Step.
package frame
