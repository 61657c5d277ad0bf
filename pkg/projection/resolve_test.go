package projection

import (
	"math"
	"strings"
	"testing"

	"github.com/vango-dev/motion/pkg/geometry"
)

// chain builds root → a → b → c → d with layouts already measured.
func chain(f *fixture) (a, b, c, d *Node) {
	box := geometry.NewBox(0, 100, 0, 100)
	a, _ = f.mount(f.root, "a", box, Options{Layout: true})
	b, _ = f.mount(a, "b", box, Options{Layout: true})
	c, _ = f.mount(b, "c", box, Options{Layout: true, LayoutRoot: true})
	d, _ = f.mount(c, "d", box, Options{Layout: true})
	for _, n := range []*Node{a, b, c, d} {
		n.layout = n.measure(false)
	}
	return a, b, c, d
}

func TestPropagateDirty(t *testing.T) {
	f := newFixture(t)
	a, b, c, d := chain(f)

	b.SetTargetDelta(delta(10, 0, 1, 1))
	for _, n := range f.tree.Nodes() {
		n.propagateDirty()
	}

	tests := []struct {
		name                  string
		node                  *Node
		projection, sharedDir bool
	}{
		{"a", a, false, false},
		{"b", b, true, true},
		{"c", c, false, true},
		{"d", d, false, true},
	}
	for _, tt := range tests {
		if tt.node.isProjectionDirty != tt.projection {
			t.Errorf("%s.isProjectionDirty = %v, want %v", tt.name, tt.node.isProjectionDirty, tt.projection)
		}
		if tt.node.isSharedProjectionDirty != tt.sharedDir {
			t.Errorf("%s.isSharedProjectionDirty = %v, want %v", tt.name, tt.node.isSharedProjectionDirty, tt.sharedDir)
		}
	}

	f.tree.UpdateProjection()
	for _, n := range []*Node{a, b, c, d} {
		if n.isProjectionDirty || n.isSharedProjectionDirty || n.isTransformDirty {
			t.Errorf("node %d still dirty after projection pass", n.ID())
		}
	}
}

func TestPropagateDirtyNonProjectingChildInherits(t *testing.T) {
	f := newFixture(t)
	box := geometry.NewBox(0, 100, 0, 100)
	p, _ := f.mount(f.root, "p", box, Options{Layout: true})
	c, _ := f.mount(p, "c", box, Options{Layout: true})
	p.layout = p.measure(false)
	c.layout = c.measure(false)

	p.SetTargetDelta(delta(5, 5, 1, 1))
	p.isTransformDirty = true
	for _, n := range f.tree.Nodes() {
		n.propagateDirty()
	}
	if !c.isProjectionDirty {
		t.Error("non-projecting child should inherit isProjectionDirty")
	}
	if !c.isTransformDirty {
		t.Error("child should inherit isTransformDirty")
	}
}

func TestResolveTargetDelta(t *testing.T) {
	f := newFixture(t)
	n, _ := f.mount(f.root, "n", geometry.NewBox(100, 200, 0, 100), Options{Layout: true})
	n.layout = n.measure(false)

	n.SetTargetDelta(delta(-100, 0, 1, 1))
	n.ResolveTargetDelta(false)

	want := geometry.NewBox(0, 100, 0, 100)
	if n.Target() == nil || !geometry.BoxEquals(*n.Target(), want) {
		t.Fatalf("Target() = %+v, want %+v", n.Target(), want)
	}
	if f.tree.metrics.ResolvedTargetDeltas != 1 {
		t.Errorf("ResolvedTargetDeltas = %d, want 1", f.tree.metrics.ResolvedTargetDeltas)
	}
}

func TestResolveTargetDeltaSkipsCleanNodes(t *testing.T) {
	f := newFixture(t)
	n, _ := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})
	n.layout = n.measure(false)

	n.ResolveTargetDelta(false)
	if n.Target() != nil {
		t.Errorf("clean node resolved a target: %+v", n.Target())
	}
}

func TestResolveTargetDeltaRequiresLayoutOptIn(t *testing.T) {
	f := newFixture(t)
	n, _ := f.mount(f.root, "n", geometry.NewBox(0, 100, 0, 100), Options{})
	n.layout = n.measure(false)
	n.SetTargetDelta(delta(10, 0, 1, 1))
	n.ResolveTargetDelta(true)
	if n.Target() != nil {
		t.Error("node without layout or layoutId resolved a target")
	}
}

func TestCalcProjectionAppliesAncestorDeltas(t *testing.T) {
	f := newFixture(t)
	parent, _ := f.mount(f.root, "parent", geometry.NewBox(0, 200, 0, 200), Options{Layout: true})
	child, _ := f.mount(parent, "child", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})
	parent.layout = parent.measure(false)
	child.layout = child.measure(false)

	// Parent doubles in place around its top-left corner; the child should
	// see a tree scale of 2.
	d := geometry.NewDelta()
	d.X.Scale, d.Y.Scale = 2, 2
	parent.projectionDelta = &d
	parent.isProjectionDirty = true

	target := geometry.NewBox(0, 100, 0, 100)
	child.target = &target
	child.targetWithTransforms = &geometry.Box{}
	child.isProjectionDirty = true
	child.CalcProjection()

	if child.TreeScale() != (geometry.Point{X: 2, Y: 2}) {
		t.Errorf("TreeScale() = %+v, want {2 2}", child.TreeScale())
	}
	if child.ProjectionDelta() == nil {
		t.Fatal("ProjectionDelta() = nil")
	}
	if got := child.ProjectionDelta().X.Scale; !near(got, 0.5) {
		t.Errorf("projection scale = %v, want 0.5", got)
	}
}

func TestApplyTreeDeltasSkipsDisplayNone(t *testing.T) {
	f := newFixture(t)
	parent, el := f.mount(f.root, "parent", geometry.NewBox(0, 100, 0, 100), Options{Layout: true})
	el.props.Display = "none"
	d := delta(50, 0, 1, 1)
	parent.projectionDelta = &d

	box := geometry.NewBox(0, 10, 0, 10)
	scale := geometry.Point{X: 1, Y: 1}
	f.tree.applyTreeDeltas(&box, &scale, []NodeID{f.root.ID(), parent.ID()}, false)
	if box.X.Min != 0 {
		t.Errorf("display:none ancestor applied its delta: %+v", box)
	}
}

func TestZeroWidthAncestorKeepsTransformFinite(t *testing.T) {
	f := newFixture(t)
	parent, parentEl := f.mount(f.root, "parent", geometry.NewBox(0, 0, 0, 100), Options{Layout: true})
	child, _ := f.mount(parent, "child", geometry.NewBox(0, 0, 0, 50), Options{Layout: true})

	parent.WillUpdate()
	child.WillUpdate()
	parentEl.box = geometry.NewBox(0, 100, 0, 100)
	parent.DidUpdate()
	f.sched.FlushMicrotasks()
	f.frames(1)

	ts := child.TreeScale()
	if ts.X == 0 || math.IsNaN(ts.X) || math.IsInf(ts.X, 0) {
		t.Errorf("TreeScale() = %+v, want finite non-zero", ts)
	}
	for _, n := range []*Node{parent, child} {
		tr := n.ProjectionStyles()["transform"]
		if strings.Contains(tr, "NaN") || strings.Contains(tr, "Inf") {
			t.Errorf("transform = %q, want finite values", tr)
		}
	}
}
