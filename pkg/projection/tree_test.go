package projection

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

func TestNewNodeBuildsPath(t *testing.T) {
	f := newFixture(t)
	a, _ := f.mount(nil, "a", geometry.Box{}, Options{})
	b, _ := f.mount(a, "b", geometry.Box{}, Options{})

	if a.Parent() != f.root {
		t.Errorf("parentless node attached to %v, want root", a.Parent())
	}
	if got := b.Path(); len(got) != 2 || got[0] != f.root.ID() || got[1] != a.ID() {
		t.Errorf("Path() = %v, want [%d %d]", got, f.root.ID(), a.ID())
	}
	if b.Depth() != 2 {
		t.Errorf("Depth() = %d, want 2", b.Depth())
	}
	if kids := a.Children(); len(kids) != 1 || kids[0] != b {
		t.Errorf("Children() = %v, want [b]", kids)
	}

	nodes := f.tree.Nodes()
	for i := 1; i < len(nodes); i++ {
		if nodes[i-1].Depth() > nodes[i].Depth() {
			t.Fatalf("Nodes() not depth ordered at %d", i)
		}
	}
}

func TestTreeErrors(t *testing.T) {
	f := newFixture(t)
	other := newFixture(t)

	if _, err := f.tree.NewNode(other.root, nil); errors.Code(err) != "E003" {
		t.Errorf("NewNode(foreign parent) code = %q, want E003", errors.Code(err))
	}
	if err := f.tree.RegisterSharedNode("card", other.root); errors.Code(err) != "E002" {
		t.Errorf("RegisterSharedNode(foreign) code = %q, want E002", errors.Code(err))
	}
	if _, err := f.tree.Node(99); errors.Code(err) != "E004" {
		t.Errorf("Node(99) code = %q, want E004", errors.Code(err))
	}

	n, _ := f.tree.NewNode(f.root, nil)
	if _, err := n.Measure(false); errors.Code(err) != "E001" {
		t.Errorf("Measure(unmounted) code = %q, want E001", errors.Code(err))
	}
	if err := n.Mount(nil); errors.Code(err) != "E001" {
		t.Errorf("Mount(nil) code = %q, want E001", errors.Code(err))
	}
}

func TestSnapshotDelta(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	n.WillUpdate()
	if n.Snapshot() == nil {
		t.Fatal("WillUpdate() did not snapshot")
	}
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.UpdateLayout()

	d, ok := n.SnapshotDelta()
	if !ok {
		t.Fatal("SnapshotDelta() ok = false")
	}
	want := geometry.AxisDelta{Translate: -100, Scale: 1, Origin: 0.5, OriginPoint: 150}
	if d.X != want {
		t.Errorf("x delta = %+v, want %+v", d.X, want)
	}
	if !geometry.IsAxisDeltaZero(d.Y) {
		t.Errorf("y delta = %+v, want identity", d.Y)
	}
}

func TestLayoutAnimation(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	var events []EventName
	for _, name := range []EventName{EventWillUpdate, EventDidUpdate, EventAnimationStart, EventAnimationComplete} {
		n.AddEventListener(name, func(ev Event) { events = append(events, ev.Name) })
	}

	n.WillUpdate()
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()

	if n.Snapshot() != nil {
		t.Error("snapshot survived the update pass")
	}
	if !n.IsAnimating() {
		t.Fatal("layout change did not start an animation")
	}
	styles := n.ProjectionStyles()
	if got, want := styles["transform"], "translate3d(-100px, 0px, 0)"; got != want {
		t.Errorf("transform at start = %q, want %q", got, want)
	}
	if got, want := styles["transformOrigin"], "50% 50% 0"; got != want {
		t.Errorf("transformOrigin = %q, want %q", got, want)
	}

	f.frames(10)
	mid := n.ProjectionStyles()["transform"]
	if mid == TransformNone || mid == "translate3d(-100px, 0px, 0)" {
		t.Errorf("transform mid-animation = %q, want partial translate", mid)
	}

	f.settle()
	if n.IsAnimating() {
		t.Error("animation still running after settle")
	}
	if got := n.ProjectionStyles()["transform"]; got != TransformNone {
		t.Errorf("transform at end = %q, want none", got)
	}
	if target := n.Target(); target == nil || !geometry.BoxEquals(*target, geometry.NewBox(100, 200, 0, 100)) {
		t.Errorf("Target() at end = %+v, want layout", target)
	}

	// The animation starts from inside the didUpdate notification, before
	// listeners added after mount run.
	want := []EventName{EventWillUpdate, EventAnimationStart, EventDidUpdate, EventAnimationComplete}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Errorf("events[%d] = %v, want %v", i, events[i], want[i])
		}
	}
}

func TestNoAnimationWithoutLayoutChange(t *testing.T) {
	f := newFixture(t)
	n, _ := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	var changed *bool
	n.AddEventListener(EventDidUpdate, func(ev Event) { changed = &ev.HasLayoutChanged })

	n.WillUpdate()
	n.DidUpdate()
	f.sched.FlushMicrotasks()

	if changed == nil || *changed {
		t.Fatalf("HasLayoutChanged = %v, want false", changed)
	}
	if n.IsAnimating() {
		t.Error("unchanged layout started an animation")
	}
}

func TestReduceMotionIsInstant(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})
	el.props.ReduceMotion = true

	completed := 0
	el.props.OnLayoutAnimationComplete = func() { completed++ }

	n.WillUpdate()
	el.box = geometry.NewBox(0, 100, 50, 150)
	n.DidUpdate()
	f.sched.FlushMicrotasks()

	if n.IsAnimating() {
		t.Error("reduced motion animation still running")
	}
	if completed != 1 {
		t.Errorf("OnLayoutAnimationComplete called %d times, want 1", completed)
	}
	if got := n.ProjectionStyles()["transform"]; got != TransformNone {
		t.Errorf("transform = %q, want none", got)
	}
}

func TestTransitionPrecedence(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	played := false
	el.props.OnLayoutAnimationStart = func() { played = true }
	propTransition := animation.Transition{Kind: animation.KindTween, Duration: time.Second}
	el.props.Transition = &propTransition
	instant := animation.Instant()
	n.options.Transition = &instant

	n.WillUpdate()
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()

	if !played {
		t.Error("animation never played")
	}
	if n.IsAnimating() {
		t.Error("node transition should win over the element's and finish instantly")
	}
	if n.Options().Transition != nil {
		t.Error("node transition should only apply to one update")
	}
}

func TestBlockUpdate(t *testing.T) {
	f := newFixture(t)
	exited := 0
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{
		Layout:         true,
		OnExitComplete: func() { exited++ },
	})

	f.tree.BlockUpdate()
	n.WillUpdate()
	if exited != 1 {
		t.Errorf("OnExitComplete called %d times, want 1", exited)
	}
	if n.Snapshot() != nil {
		t.Error("blocked update took a snapshot")
	}

	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()
	if n.IsAnimating() {
		t.Error("blocked update started an animation")
	}
	if f.tree.IsUpdateBlocked() {
		t.Error("update pass should lift the manual block")
	}
}

func TestResizeBlocksUpdates(t *testing.T) {
	f := newFixture(t)
	if f.host.onResize == nil {
		t.Fatal("root did not attach a resize listener")
	}

	f.host.onResize()
	if !f.tree.IsUpdateBlocked() {
		t.Fatal("resize did not block updates")
	}
	f.frames(10) // 160ms
	if !f.tree.IsUpdateBlocked() {
		t.Error("updates unblocked before the debounce elapsed")
	}
	f.frames(10) // 320ms
	if f.tree.IsUpdateBlocked() {
		t.Error("updates still blocked after the debounce")
	}
}

func TestResizeFinishesAnimations(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	n.WillUpdate()
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()
	f.frames(2)
	if !n.IsAnimating() {
		t.Fatal("animation not running")
	}

	f.host.onResize()
	if n.IsAnimating() {
		t.Error("resize should finish running animations")
	}
}

func TestLayoutScrollRemoved(t *testing.T) {
	f := newFixture(t)
	scroller, _ := f.mount(f.root, "scroller", geometry.NewBox(0, 500, 0, 500), Options{LayoutScroll: true})
	child, _ := f.mount(scroller, "child", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})
	f.host.scroll[scroller.Instance()] = geometry.Point{Y: 30}

	child.WillUpdate()
	snap := child.Snapshot()
	if snap == nil {
		t.Fatal("no snapshot")
	}
	if snap.LayoutBox.Y.Min != 30 || snap.LayoutBox.Y.Max != 130 {
		t.Errorf("layout y = %+v, want {30 130}", snap.LayoutBox.Y)
	}
	if snap.TreeScroll.Y != 30 {
		t.Errorf("TreeScroll = %+v, want y 30", snap.TreeScroll)
	}
	if snap.MeasuredBox.Y.Min != 0 {
		t.Errorf("measured y = %+v, want {0 100}", snap.MeasuredBox.Y)
	}
}

func TestSnapshotRemovesOwnTransform(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(10, 110, 0, 100), Options{Layout: true})
	el.latest["x"] = values.Px(10)

	n.WillUpdate()
	if got := n.Snapshot().LayoutBox.X; got.Min != 0 || got.Max != 100 {
		t.Errorf("snapshot x = %+v, want {0 100}", got)
	}
}

func TestResetSkewAndRotation(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})
	el.latest["rotate"] = values.Deg(45)

	n.WillUpdate()
	if el.renders != 1 {
		t.Errorf("renders = %d, want 1", el.renders)
	}
	if v, _ := el.latest.Get("rotate"); v.Number != 45 {
		t.Errorf("rotate = %v, want restored 45", v)
	}
}

func TestDeviceRounding(t *testing.T) {
	f := newFixture(t, WithDeviceRounding(true))
	n, _ := f.mount(f.root, "n", geometry.NewBox(0.4, 100.6, 0, 100), Options{Layout: true})
	m, err := n.Measure(false)
	if err != nil {
		t.Fatal(err)
	}
	if m.LayoutBox.X.Min != 0 || m.LayoutBox.X.Max != 101 {
		t.Errorf("rounded x = %+v, want {0 101}", m.LayoutBox.X)
	}
}

func TestStickyDeltaIsIdentity(t *testing.T) {
	snapshot := &Measurement{LayoutBox: geometry.NewBox(0, 100, 0, 100), Position: PositionSticky}
	layout := &Measurement{LayoutBox: geometry.NewBox(0, 100, 300, 400), Position: PositionSticky}
	d := CalcSnapshotDelta(snapshot, layout)
	if !geometry.IsDeltaZero(d) || d.X.Origin != 0 || d.Y.Origin != 0 {
		t.Errorf("sticky delta = %+v, want identity with origin 0", d)
	}
}

func TestFixedDeltaUsesMeasuredBox(t *testing.T) {
	snapshot := &Measurement{
		LayoutBox:   geometry.NewBox(0, 100, 500, 600),
		MeasuredBox: geometry.NewBox(0, 100, 0, 100),
		Position:    PositionFixed,
	}
	layout := &Measurement{
		LayoutBox:   geometry.NewBox(0, 100, 800, 900),
		MeasuredBox: geometry.NewBox(0, 100, 0, 100),
	}
	if d := CalcSnapshotDelta(snapshot, layout); !geometry.IsDeltaZero(d) {
		t.Errorf("fixed delta = %+v, want identity", d)
	}
}

func TestEventUnsubscribeDuringNotify(t *testing.T) {
	f := newFixture(t)
	n, _ := f.mount(f.root, "n", geometry.Box{}, Options{})

	calls := 0
	var unsubSecond func()
	n.AddEventListener(EventMeasure, func(Event) {
		calls++
		unsubSecond()
	})
	unsubSecond = n.AddEventListener(EventMeasure, func(Event) { calls += 10 })

	n.notify(Event{Name: EventMeasure})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if n.HasListeners(EventDidUpdate) {
		t.Error("HasListeners(didUpdate) = true for a node without layout")
	}
}

func TestRecorderReceivesFrameMetrics(t *testing.T) {
	var got []FrameMetrics
	f := newFixture(t, WithRecorder(RecorderFunc(func(m FrameMetrics) { got = append(got, m) })))
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	n.WillUpdate()
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()

	if len(got) == 0 {
		t.Fatal("recorder received no frames")
	}
	m := got[0]
	if m.TotalNodes != 2 || m.ResolvedTargetDeltas != 1 || m.RecalculatedProjection != 1 {
		t.Errorf("metrics = %+v, want {2 1 1}", m)
	}
}

func TestTreeReset(t *testing.T) {
	f := newFixture(t)
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true, LayoutID: "card"})

	n.WillUpdate()
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()
	f.frames(2)

	f.tree.Reset()
	if n.IsAnimating() {
		t.Error("Reset() left an animation running")
	}
	if n.Layout() != nil || n.Target() != nil {
		t.Error("Reset() kept measurements")
	}
	if f.tree.Stack("card") != nil {
		t.Error("Reset() kept shared stacks")
	}
	if f.tree.ActiveAnimations() != 0 {
		t.Errorf("ActiveAnimations() = %d, want 0", f.tree.ActiveAnimations())
	}
}

// spanRecorder records the names of the spans it starts.
type spanRecorder struct {
	noop.Tracer
	names []string
}

func (r *spanRecorder) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	r.names = append(r.names, name)
	return r.Tracer.Start(ctx, name, opts...)
}

func TestOnlyUpdatePassIsTraced(t *testing.T) {
	rec := &spanRecorder{}
	f := newFixture(t, WithTracer(rec))
	n, el := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})

	n.WillUpdate()
	el.box = geometry.NewBox(100, 200, 0, 100)
	n.DidUpdate()
	f.sched.FlushMicrotasks()
	f.frames(10)

	if len(rec.names) == 0 {
		t.Fatal("update pass was not traced")
	}
	for _, name := range rec.names {
		if name != "motion.update" {
			t.Errorf("span %q started, want only motion.update", name)
		}
	}
}
