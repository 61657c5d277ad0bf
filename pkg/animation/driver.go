package animation

import (
	"github.com/vango-dev/motion/pkg/frame"
)

// Options configures one animation.
type Options struct {
	Transition Transition

	// OnPlay is called when the animation starts playing after its delay.
	OnPlay func()

	// OnUpdate receives the latest value every frame.
	OnUpdate func(latest float64)

	// OnComplete is called once the value reaches its target.
	OnComplete func()

	// OnStop is called when the animation is stopped before completing.
	OnStop func()
}

// Controls is a handle to a running animation.
type Controls interface {
	// Stop halts the animation where it is. OnComplete is not called.
	Stop()

	// Complete jumps to the target and fires OnUpdate and OnComplete.
	Complete()

	// Done reports whether the animation finished or was stopped.
	Done() bool
}

// Driver animates a single number.
type Driver interface {
	Animate(from, to float64, opts Options) Controls
}

// FrameDriver steps animations on a scheduler's update phase.
type FrameDriver struct {
	sched *frame.Scheduler
}

// NewFrameDriver returns a Driver bound to sched.
func NewFrameDriver(sched *frame.Scheduler) *FrameDriver {
	return &FrameDriver{sched: sched}
}

// Animate implements Driver. Instant transitions settle synchronously.
func (d *FrameDriver) Animate(from, to float64, opts Options) Controls {
	a := &playback{
		from:  from,
		to:    to,
		opts:  opts,
		start: -1,
	}

	tr := opts.Transition
	if tr.Kind == KindInstant || (tr.Kind == KindTween && tr.Duration <= 0 && tr.Delay <= 0) {
		if opts.OnPlay != nil {
			opts.OnPlay()
		}
		a.Complete()
		return a
	}

	a.task = d.sched.KeepAlive(frame.StepUpdate, a.tick)
	return a
}

type playback struct {
	from, to float64
	opts     Options
	task     *frame.Task
	start    float64
	playing  bool
	done     bool
}

func (a *playback) tick(fd frame.Data) {
	if a.done {
		a.task.Cancel()
		return
	}
	if a.start < 0 {
		a.start = fd.Timestamp
	}
	tr := a.opts.Transition
	elapsed := fd.Timestamp - a.start - float64(tr.Delay.Milliseconds())
	if elapsed < 0 {
		return
	}
	if !a.playing {
		a.playing = true
		if a.opts.OnPlay != nil {
			a.opts.OnPlay()
		}
	}

	var latest float64
	var finished bool
	switch tr.Kind {
	case KindSpring:
		latest = springAt(tr, a.from, a.to, elapsed)
		finished = springSettled(tr, a.from, a.to, elapsed)
	default:
		duration := float64(tr.Duration.Milliseconds())
		p := 1.0
		if duration > 0 {
			p = Clamp(0, 1, elapsed/duration)
		}
		latest = Mix(a.from, a.to, a.ease(p))
		finished = p >= 1
	}

	if finished {
		a.Complete()
		return
	}
	if a.opts.OnUpdate != nil {
		a.opts.OnUpdate(latest)
	}
}

func (a *playback) ease(p float64) float64 {
	if a.opts.Transition.Ease == (CubicBezier{}) {
		return p
	}
	return a.opts.Transition.Ease.Ease(p)
}

func (a *playback) Stop() {
	if a.done {
		return
	}
	a.done = true
	a.task.Cancel()
	if a.opts.OnStop != nil {
		a.opts.OnStop()
	}
}

func (a *playback) Complete() {
	if a.done {
		return
	}
	a.done = true
	a.task.Cancel()
	if a.opts.OnUpdate != nil {
		a.opts.OnUpdate(a.to)
	}
	if a.opts.OnComplete != nil {
		a.opts.OnComplete()
	}
}

func (a *playback) Done() bool {
	return a.done
}
