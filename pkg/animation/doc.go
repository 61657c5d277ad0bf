// Package animation provides the numeric animation driver used to play
// layout deltas back to identity.
//
// A Driver interpolates one scalar from a start to an end value and reports
// every frame's value through Options.OnUpdate. The projection engine
// animates 0→1000 rather than 0→1 so spring maths keeps its precision.
//
// FrameDriver is the built-in implementation, stepping animations on a
// frame.Scheduler update phase:
//
//	d := animation.NewFrameDriver(sched)
//	ctrl := d.Animate(0, 1000, animation.Options{
//	    Transition: animation.DefaultLayoutTransition(),
//	    OnUpdate:   func(v float64) { ... },
//	})
//	defer ctrl.Stop()
package animation
