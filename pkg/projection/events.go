package projection

import "github.com/vango-dev/motion/pkg/geometry"

// EventName identifies a node event.
type EventName uint8

const (
	EventWillUpdate EventName = iota
	EventDidUpdate
	EventMeasure
	EventProjectionUpdate
	EventAnimationStart
	EventAnimationComplete
)

// String returns the event name.
func (e EventName) String() string {
	switch e {
	case EventWillUpdate:
		return "willUpdate"
	case EventDidUpdate:
		return "didUpdate"
	case EventMeasure:
		return "measure"
	case EventProjectionUpdate:
		return "projectionUpdate"
	case EventAnimationStart:
		return "animationStart"
	case EventAnimationComplete:
		return "animationComplete"
	default:
		return "unknown"
	}
}

// Event is delivered to node listeners. Fields are set per event:
//
//	didUpdate         Layout, Snapshot, Delta, LayoutDelta, HasLayoutChanged, HasRelativeLayoutChanged
//	measure           Layout
//	projectionUpdate  Target
type Event struct {
	Name EventName
	Node *Node

	Layout                   geometry.Box
	Snapshot                 *Measurement
	Delta                    geometry.Delta
	LayoutDelta              geometry.Delta
	HasLayoutChanged         bool
	HasRelativeLayoutChanged bool

	Target geometry.Box
}

// Listener handles node events.
type Listener func(ev Event)

type subscription struct {
	fn     Listener
	active bool
}

// subscriptions is an ordered listener list. A listener removed while a
// notification is running is skipped for the rest of that notification.
type subscriptions struct {
	list []*subscription
}

func (s *subscriptions) add(fn Listener) func() {
	sub := &subscription{fn: fn, active: true}
	s.list = append(s.list, sub)
	return func() {
		if !sub.active {
			return
		}
		sub.active = false
		for i, other := range s.list {
			if other == sub {
				s.list = append(s.list[:i], s.list[i+1:]...)
				break
			}
		}
	}
}

func (s *subscriptions) notify(ev Event) {
	snapshot := append([]*subscription(nil), s.list...)
	for _, sub := range snapshot {
		if sub.active {
			sub.fn(ev)
		}
	}
}

func (s *subscriptions) len() int {
	return len(s.list)
}
