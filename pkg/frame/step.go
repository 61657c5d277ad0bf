package frame

// Task is a handle to scheduled work, used to cancel it.
type Task struct {
	fn        func(Data)
	keepAlive bool
	cancelled bool
}

// Cancel stops the task from running again. Safe on nil.
func (t *Task) Cancel() {
	if t != nil {
		t.cancelled = true
	}
}

// Cancelled reports whether Cancel was called.
func (t *Task) Cancelled() bool {
	return t == nil || t.cancelled
}

// step holds the queues for one phase. Work scheduled while the phase is
// processing lands in the next frame unless it asks to run immediately.
type step struct {
	thisFrame  []*Task
	nextFrame  []*Task
	processing bool
	flushAgain bool
}

func (s *step) schedule(t *Task, immediate bool) {
	if immediate && s.processing {
		s.thisFrame = append(s.thisFrame, t)
		return
	}
	for _, queued := range s.nextFrame {
		if queued == t {
			return
		}
	}
	s.nextFrame = append(s.nextFrame, t)
}

func (s *step) pending() bool {
	for _, t := range s.nextFrame {
		if !t.cancelled {
			return true
		}
	}
	return false
}

func (s *step) process(d Data) {
	if s.processing {
		s.flushAgain = true
		return
	}
	s.processing = true

	s.thisFrame, s.nextFrame = s.nextFrame, s.thisFrame[:0]

	// Tasks scheduled with immediate while processing append to thisFrame.
	for i := 0; i < len(s.thisFrame); i++ {
		t := s.thisFrame[i]
		if t.cancelled {
			continue
		}
		if t.keepAlive {
			s.schedule(t, false)
		}
		t.fn(d)
	}
	s.thisFrame = s.thisFrame[:0]

	s.processing = false
	if s.flushAgain {
		s.flushAgain = false
		s.process(d)
	}
}
