package frame

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestStepOrder(t *testing.T) {
	s := NewScheduler(WithClock(NewManualClock()))
	var order []string

	s.Schedule(StepPostRender, func(Data) { order = append(order, "postRender") })
	s.Schedule(StepRender, func(Data) { order = append(order, "render") })
	s.Schedule(StepRead, func(Data) { order = append(order, "read") })
	s.Schedule(StepPreRender, func(Data) { order = append(order, "preRender") })
	s.Schedule(StepUpdate, func(Data) { order = append(order, "update") })
	s.Microtask(func() { order = append(order, "microtask") })

	s.Step()

	want := []string{"microtask", "read", "update", "preRender", "render", "postRender"}
	if !reflect.DeepEqual(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestScheduleDuringProcessingRunsNextFrame(t *testing.T) {
	s := NewScheduler(WithClock(NewManualClock()))
	runs := 0

	s.Schedule(StepUpdate, func(Data) {
		s.Schedule(StepUpdate, func(Data) { runs++ })
	})

	s.Step()
	if runs != 0 {
		t.Fatalf("runs = %d after first frame, want 0", runs)
	}
	s.Step()
	if runs != 1 {
		t.Errorf("runs = %d after second frame, want 1", runs)
	}
}

func TestScheduleImmediateRunsSameFrame(t *testing.T) {
	s := NewScheduler(WithClock(NewManualClock()))
	runs := 0

	s.Schedule(StepPreRender, func(Data) {
		s.ScheduleImmediate(StepPreRender, func(Data) { runs++ })
	})
	s.Step()

	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestKeepAliveAndCancel(t *testing.T) {
	s := NewScheduler(WithClock(NewManualClock()))
	runs := 0
	task := s.KeepAlive(StepUpdate, func(Data) { runs++ })

	s.Step()
	s.Step()
	task.Cancel()
	s.Step()

	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
	if s.Pending() {
		t.Error("cancelled keep-alive task should not keep the scheduler pending")
	}
}

func TestFrameData(t *testing.T) {
	clock := NewManualClock()
	s := NewScheduler(WithClock(clock))
	var got Data

	clock.Advance(16 * time.Millisecond)
	s.Schedule(StepRender, func(d Data) { got = d })
	s.Step()

	if got.Timestamp != 16 || got.Delta != 16 || !got.IsProcessing {
		t.Errorf("data = %+v, want timestamp 16 delta 16 processing", got)
	}
	if s.Data().IsProcessing {
		t.Error("IsProcessing should be false between frames")
	}

	clock.Advance(time.Second)
	s.Step()
	if d := s.Data().Delta; d != maxDelta {
		t.Errorf("delta = %v, want capped %v", d, maxDelta)
	}
}

func TestMicrotasksQueuedWhileFlushing(t *testing.T) {
	s := NewScheduler(WithClock(NewManualClock()))
	var order []int

	s.Microtask(func() {
		order = append(order, 1)
		s.Microtask(func() { order = append(order, 2) })
	})
	s.FlushMicrotasks()

	if !reflect.DeepEqual(order, []int{1, 2}) {
		t.Errorf("order = %v, want [1 2]", order)
	}
}

func TestFlushSync(t *testing.T) {
	s := NewScheduler(WithClock(NewManualClock()))
	var order []string
	s.Schedule(StepRead, func(Data) { order = append(order, "read") })
	s.Schedule(StepUpdate, func(Data) { order = append(order, "update") })
	s.Schedule(StepRender, func(Data) { order = append(order, "render") })

	s.FlushSync()

	if !reflect.DeepEqual(order, []string{"update", "render"}) {
		t.Errorf("order = %v, want [update render]", order)
	}
	if !s.Pending() {
		t.Error("read step should still be pending")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := NewScheduler(WithFrameRate(500))
	ctx, cancel := context.WithCancel(context.Background())
	frames := 0

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(Data) {
			frames++
			if frames == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
