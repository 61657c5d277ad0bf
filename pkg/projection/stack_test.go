package projection

import (
	"testing"

	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

func members(f *fixture, names ...string) []*Node {
	out := make([]*Node, 0, len(names))
	for _, name := range names {
		n, _ := f.mount(f.root, name, geometry.NewBox(0, 100, 0, 100), Options{LayoutID: "card"})
		out = append(out, n)
	}
	return out
}

func TestStackPromoteOnRegister(t *testing.T) {
	f := newFixture(t)
	ns := members(f, "a", "b", "c")
	stack := f.tree.Stack("card")

	if stack.Lead() != ns[2] || stack.PrevLead() != ns[1] {
		t.Fatalf("lead = %v, prevLead = %v, want c and b", stack.Lead(), stack.PrevLead())
	}
	if !ns[2].IsLead() || ns[1].IsLead() {
		t.Error("IsLead() disagrees with the stack")
	}
	if ns[1].Lead() != ns[2] {
		t.Error("follower Lead() should be the stack lead")
	}
	if ns[2].resumeFrom != ns[1] {
		t.Error("new lead should resume from the previous lead")
	}
	if got := len(stack.Members()); got != 3 {
		t.Errorf("len(Members()) = %d, want 3", got)
	}
}

func TestStackRelegate(t *testing.T) {
	f := newFixture(t)
	ns := members(f, "a", "b", "c")
	stack := f.tree.Stack("card")

	ns[1].SetPresent(false)
	if !ns[2].Relegate() {
		t.Fatal("Relegate() = false, want true")
	}
	if stack.Lead() != ns[0] {
		t.Errorf("lead = node %d, want a (b is not present)", stack.Lead().ID())
	}
	if stack.PrevLead() != ns[2] {
		t.Errorf("prevLead = node %d, want c", stack.PrevLead().ID())
	}
	if ns[0].Relegate() {
		t.Error("first member cannot relegate")
	}
}

func TestStackRemovePromotesLastPresent(t *testing.T) {
	f := newFixture(t)
	ns := members(f, "a", "b", "c")
	stack := f.tree.Stack("card")

	ns[1].SetPresent(false)
	stack.Remove(ns[2])
	if stack.Lead() != ns[0] {
		t.Errorf("lead = node %d, want a", stack.Lead().ID())
	}
	if len(stack.Members()) != 2 {
		t.Errorf("len(Members()) = %d, want 2", len(stack.Members()))
	}
}

func TestUnmountLeadRelegates(t *testing.T) {
	f := newFixture(t)
	ns := members(f, "a", "b", "c")
	stack := f.tree.Stack("card")

	ns[1].Promote(PromoteOptions{})
	ns[1].Unmount()
	if stack.Lead() != ns[0] {
		t.Errorf("lead = node %d, want a (nearest earlier member)", stack.Lead().ID())
	}
	if len(stack.Members()) != 2 {
		t.Errorf("len(Members()) = %d, want 2", len(stack.Members()))
	}

	ns[0].Unmount()
	if stack.Lead() != ns[2] {
		t.Errorf("lead = node %d, want c once no earlier member remains", stack.Lead().ID())
	}
}

func TestStackRemoveFallsBackToLastMember(t *testing.T) {
	f := newFixture(t)
	ns := members(f, "a", "b", "c")
	stack := f.tree.Stack("card")

	ns[0].SetPresent(false)
	ns[1].SetPresent(false)
	stack.Remove(ns[2])
	if stack.Lead() != ns[1] {
		t.Errorf("lead = node %d, want b", stack.Lead().ID())
	}
}

func TestStackRemovePrevLead(t *testing.T) {
	f := newFixture(t)
	ns := members(f, "a", "b")
	stack := f.tree.Stack("card")

	stack.Remove(ns[0])
	if stack.PrevLead() != nil {
		t.Error("removed prevLead still referenced")
	}
	if stack.Lead() != ns[1] {
		t.Error("removing a follower changed the lead")
	}
}

func TestStackPromoteHandsOverSnapshot(t *testing.T) {
	f := newFixture(t)
	a, el := f.mount(f.root, "a", geometry.NewBox(0, 100, 0, 100), Options{LayoutID: "card"})
	el.latest["opacity"] = values.Num(0.5)

	a.WillUpdate()
	b, _ := f.mount(f.root, "b", geometry.NewBox(0, 50, 0, 50), Options{LayoutID: "card", DisableCrossfade: true})

	if b.Snapshot() != a.Snapshot() {
		t.Fatal("new lead did not inherit the snapshot")
	}
	if got := b.Snapshot().LatestValues.NumberOr("opacity", 1); got != 0.5 {
		t.Errorf("snapshot opacity = %v, want 0.5", got)
	}
	if !b.isLayoutDirty {
		t.Error("lead promoted mid-update should be layout-dirty")
	}
	if a.IsVisible() {
		t.Error("previous lead should hide when crossfade is disabled")
	}
}

func TestStackExitAnimationComplete(t *testing.T) {
	f := newFixture(t)
	exits := 0
	for _, name := range []string{"a", "b"} {
		f.mount(f.root, name, geometry.NewBox(0, 100, 0, 100), Options{
			LayoutID:       "card",
			OnExitComplete: func() { exits++ },
		})
	}
	f.tree.Stack("card").ExitAnimationComplete()
	if exits != 2 {
		t.Errorf("exits = %d, want 2", exits)
	}
}

func TestSharedElementCrossfade(t *testing.T) {
	f := newFixture(t)
	a, _ := f.mount(f.root, "a", geometry.NewBox(0, 100, 0, 100), Options{LayoutID: "card"})

	a.WillUpdate()
	b, _ := f.mount(f.root, "b", geometry.NewBox(200, 400, 0, 200), Options{LayoutID: "card"})
	b.DidUpdate()
	f.sched.FlushMicrotasks()

	if b.resumingFrom != a {
		t.Fatal("lead is not resuming from the previous lead")
	}
	target := b.Target()
	if target == nil || !near(target.X.Min, 0) || !near(target.X.Max, 100) || !near(target.Y.Max, 100) {
		t.Fatalf("lead target = %+v, want the previous lead's box", target)
	}

	leadStyles := b.ProjectionStyles()
	if leadStyles["opacity"] != "0" {
		t.Errorf("lead opacity = %q, want 0", leadStyles["opacity"])
	}
	if leadStyles["pointerEvents"] != "" {
		t.Errorf("lead pointerEvents = %q, want empty", leadStyles["pointerEvents"])
	}
	followStyles := a.ProjectionStyles()
	if followStyles["opacity"] != "1" {
		t.Errorf("follower opacity = %q, want 1", followStyles["opacity"])
	}
	if followStyles["pointerEvents"] != "none" {
		t.Errorf("follower pointerEvents = %q, want none", followStyles["pointerEvents"])
	}

	f.settle()
	if b.IsAnimating() || a.IsAnimating() {
		t.Error("shared animation still running")
	}
	if got := b.ProjectionStyles()["opacity"]; got != "" {
		t.Errorf("lead opacity after animation = %q, want empty", got)
	}
}
