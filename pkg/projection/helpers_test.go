package projection

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/vango-dev/motion/pkg/frame"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

type testElement struct {
	name      string
	box       geometry.Box
	latest    values.Values
	props     Props
	renders   int
	scheduled int
}

func (e *testElement) MeasureViewportBox() geometry.Box { return e.box }
func (e *testElement) LatestValues() values.Values     { return e.latest }
func (e *testElement) StaticValue(key string) (values.Value, bool) {
	return e.latest.Get(key)
}
func (e *testElement) SetStaticValue(key string, v values.Value) { e.latest[key] = v }
func (e *testElement) Render()                                   { e.renders++ }
func (e *testElement) ScheduleRender()                           { e.scheduled++ }
func (e *testElement) Props() Props                              { return e.props }

type testHost struct {
	scroll     map[Instance]geometry.Point
	scrollRoot Instance
	resets     []Instance
	onResize   func()
	svg        map[Instance]bool
}

func newTestHost() *testHost {
	return &testHost{
		scroll: make(map[Instance]geometry.Point),
		svg:    make(map[Instance]bool),
	}
}

func (h *testHost) MeasureScroll(inst Instance) geometry.Point { return h.scroll[inst] }
func (h *testHost) CheckIsScrollRoot(inst Instance) bool       { return inst == h.scrollRoot }
func (h *testHost) AttachResizeListener(inst Instance, fn func()) func() {
	h.onResize = fn
	return func() { h.onResize = nil }
}
func (h *testHost) ResetTransform(inst Instance, template string) { h.resets = append(h.resets, inst) }
func (h *testHost) IsSVG(inst Instance) bool                       { return h.svg[inst] }
func (h *testHost) DefaultParent(t *Tree) *Node                    { return nil }

type fixture struct {
	t     *testing.T
	tree  *Tree
	host  *testHost
	clock *frame.ManualClock
	sched *frame.Scheduler
	root  *Node
}

func newFixture(t *testing.T, opts ...TreeOption) *fixture {
	t.Helper()
	clock := frame.NewManualClock()
	sched := frame.NewScheduler(frame.WithClock(clock))
	host := newTestHost()
	opts = append([]TreeOption{
		WithScheduler(sched),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	}, opts...)
	f := &fixture{
		t:     t,
		tree:  NewTree(host, opts...),
		host:  host,
		clock: clock,
		sched: sched,
	}
	f.root, _ = f.mount(nil, "root", geometry.NewBox(0, 1000, 0, 1000), Options{LayoutScroll: true})
	host.scrollRoot = f.root.instance
	return f
}

// mount creates and mounts a node whose instance is its element.
func (f *fixture) mount(parent *Node, name string, box geometry.Box, opts Options) (*Node, *testElement) {
	f.t.Helper()
	el := &testElement{name: name, box: box, latest: values.Values{}}
	n, err := f.tree.NewNode(parent, nil)
	if err != nil {
		f.t.Fatalf("NewNode(%s): %v", name, err)
	}
	opts.VisualElement = el
	n.SetOptions(opts)
	if err := n.Mount(el); err != nil {
		f.t.Fatalf("Mount(%s): %v", name, err)
	}
	return n, el
}

// frames steps count frames of 16ms each.
func (f *fixture) frames(count int) {
	for i := 0; i < count; i++ {
		f.clock.Advance(16 * time.Millisecond)
		f.sched.Step()
	}
}

// settle steps frames until the scheduler has no work left.
func (f *fixture) settle() {
	f.t.Helper()
	for i := 0; i < 1000; i++ {
		if !f.sched.Pending() {
			return
		}
		f.frames(1)
	}
	f.t.Fatal("scheduler did not settle")
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
