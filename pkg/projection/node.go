package projection

import (
	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/frame"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// Node is one element's projection state.
type Node struct {
	id       NodeID
	tree     *Tree
	parent   NodeID
	children []NodeID
	path     []NodeID
	depth    int

	instance     Instance
	options      Options
	latestValues values.Values
	handlers     map[EventName]*subscriptions

	snapshot     *Measurement
	layout       *Measurement
	scroll       *ScrollMeasurement
	targetLayout *geometry.Box

	// Relative target state, used when an ancestor is also projecting.
	relativeParent                 *Node
	relativeTarget                 *geometry.Box
	relativeTargetOrigin           *geometry.Box
	attemptToResolveRelativeTarget bool
	resolvedRelativeTargetAt       float64

	targetDelta          *geometry.Delta
	target               *geometry.Box
	targetWithTransforms *geometry.Box
	layoutCorrected      geometry.Box

	projectionDelta              *geometry.Delta
	prevProjectionDelta          *geometry.Delta
	projectionDeltaWithTransform *geometry.Delta
	treeScale                    geometry.Point
	projectionTransform          string

	resumeFrom        *Node
	resumingFrom      *Node
	preserveOpacity   bool
	animationValues   values.Values
	animationProgress float64
	currentAnimation  animation.Controls
	pendingAnimation  *frame.Task
	mixTargetDelta    func(latest float64)

	isLayoutDirty           bool
	isProjectionDirty       bool
	isSharedProjectionDirty bool
	isTransformDirty        bool
	shouldResetTransform    bool
	needsReset              bool
	isTreeAnimating         bool
	isAnimationBlocked      bool
	hasProjected            bool
	isVisible               bool
	isPresent               bool

	prevTemplate         string
	hasPrevTemplate      bool
	unsubscribeResize    func()
	unsubscribeDidUpdate func()
}

func geomIdentityPoint() geometry.Point { return geometry.Point{X: 1, Y: 1} }

// ID returns the node's id within its tree.
func (n *Node) ID() NodeID { return n.id }

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree { return n.tree }

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node { return n.tree.node(n.parent) }

// Root returns the tree's root node.
func (n *Node) Root() *Node { return n.tree.Root() }

// Depth returns the number of ancestors.
func (n *Node) Depth() int { return n.depth }

// Path returns the ids of the node's ancestors, root first.
func (n *Node) Path() []NodeID { return append([]NodeID(nil), n.path...) }

// Children returns the mounted children.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, id := range n.children {
		out = append(out, n.tree.nodes[id])
	}
	return out
}

// Instance returns the mounted host instance, or nil.
func (n *Node) Instance() Instance { return n.instance }

// IsMounted reports whether the node has a host instance.
func (n *Node) IsMounted() bool { return n.instance != nil }

// Options returns the node's current options.
func (n *Node) Options() Options { return n.options }

// LatestValues returns the live value map.
func (n *Node) LatestValues() values.Values { return n.latestValues }

// Snapshot returns the pre-change measurement, or nil.
func (n *Node) Snapshot() *Measurement { return n.snapshot }

// Layout returns the post-change measurement, or nil.
func (n *Node) Layout() *Measurement { return n.layout }

// Scroll returns the last scroll measurement, or nil.
func (n *Node) Scroll() *ScrollMeasurement { return n.scroll }

// Target returns the resolved target box, or nil.
func (n *Node) Target() *geometry.Box { return n.target }

// TargetDelta returns the delta applied to the layout to produce the
// target, or nil.
func (n *Node) TargetDelta() *geometry.Delta { return n.targetDelta }

// ProjectionDelta returns the delta from the corrected layout to the
// target, or nil before the first projection.
func (n *Node) ProjectionDelta() *geometry.Delta { return n.projectionDelta }

// TreeScale returns the accumulated scale of projecting ancestors.
func (n *Node) TreeScale() geometry.Point { return n.treeScale }

// IsVisible reports whether the node renders.
func (n *Node) IsVisible() bool { return n.isVisible }

// IsPresent reports whether the node is present in the host tree.
func (n *Node) IsPresent() bool { return n.isPresent }

// SetPresent marks the node as present or exiting.
func (n *Node) SetPresent(present bool) { n.isPresent = present }

// IsAnimating reports whether a layout animation is running or pending.
func (n *Node) IsAnimating() bool {
	return n.currentAnimation != nil || n.pendingAnimation != nil
}

// SetOptions replaces the node's options. The visual element's latest
// values become the node's live value map.
func (n *Node) SetOptions(opts Options) {
	if opts.VisualElement != nil {
		n.latestValues = opts.VisualElement.LatestValues()
		if n.latestValues == nil {
			n.latestValues = values.Values{}
		}
	}
	if n.options.LayoutScroll != opts.LayoutScroll {
		n.scroll = nil
	}
	n.options = opts
}

// SetAnimationBlocked blocks layout animations for this subtree.
func (n *Node) SetAnimationBlocked(blocked bool) { n.isAnimationBlocked = blocked }

// Mount attaches the node to a host instance and registers it with the
// tree.
func (n *Node) Mount(inst Instance) error {
	if n.instance != nil {
		return nil
	}
	if inst == nil {
		return errors.New("E001").WithDetail("mount requires a host instance")
	}
	t := n.tree
	n.instance = inst
	t.register(n)
	if t.hasTreeAnimated && (n.options.Layout || n.options.LayoutID != "") {
		n.isLayoutDirty = true
	}

	if p := n.Parent(); p != nil {
		p.children = append(p.children, n.id)
	}

	if n.options.LayoutID != "" {
		if err := t.RegisterSharedNode(n.options.LayoutID, n); err != nil {
			return err
		}
	}

	if n.parent == NoNode && t.host != nil {
		n.unsubscribeResize = t.host.AttachResizeListener(inst, t.NotifyResize)
	}

	if !n.options.DisableAnimation && n.options.VisualElement != nil &&
		(n.options.LayoutID != "" || n.options.Layout) {
		n.unsubscribeDidUpdate = n.AddEventListener(EventDidUpdate, n.handleDidUpdate)
	}
	return nil
}

// Unmount detaches the node from its host instance. Nodes with a layout
// id snapshot first so a follower can resume from them. An unmounting lead
// relegates to the nearest earlier present member before leaving its stack.
func (n *Node) Unmount() {
	if n.instance == nil {
		return
	}
	t := n.tree
	if n.options.LayoutID != "" {
		n.WillUpdate()
	}
	stack := n.Stack()
	t.unregister(n)
	if stack != nil {
		n.isPresent = false
		if stack.Lead() == n {
			stack.Relegate(n)
		}
		stack.Remove(n)
	}
	if p := n.Parent(); p != nil {
		for i, id := range p.children {
			if id == n.id {
				p.children = append(p.children[:i], p.children[i+1:]...)
				break
			}
		}
	}
	if n.unsubscribeResize != nil {
		n.unsubscribeResize()
		n.unsubscribeResize = nil
	}
	if n.unsubscribeDidUpdate != nil {
		n.unsubscribeDidUpdate()
		n.unsubscribeDidUpdate = nil
	}
	if n.id == t.root {
		t.projectionTask.Cancel()
		t.projectionUpdateScheduled = false
	}
	n.pendingAnimation.Cancel()
	n.pendingAnimation = nil
	n.instance = nil
	n.handlers = make(map[EventName]*subscriptions)
}

// ScheduleCheckAfterUnmount runs the pending update after the frame's
// render if something is still layout-dirty, otherwise abandons it.
func (n *Node) ScheduleCheckAfterUnmount() {
	t := n.tree
	t.checkTask.Cancel()
	t.checkTask = t.sched.Schedule(frame.StepPostRender, func(frame.Data) {
		if n.isLayoutDirty {
			t.DidUpdate()
			return
		}
		t.checkUpdateFailed()
	})
}

// AddEventListener subscribes to a node event and returns the
// unsubscribe function.
func (n *Node) AddEventListener(name EventName, fn Listener) func() {
	subs, ok := n.handlers[name]
	if !ok {
		subs = &subscriptions{}
		n.handlers[name] = subs
	}
	return subs.add(fn)
}

// HasListeners reports whether anything subscribes to name.
func (n *Node) HasListeners(name EventName) bool {
	subs, ok := n.handlers[name]
	return ok && subs.len() > 0
}

func (n *Node) notify(ev Event) {
	ev.Node = n
	if subs, ok := n.handlers[ev.Name]; ok {
		subs.notify(ev)
	}
}

// Hide stops the node from rendering.
func (n *Node) Hide() { n.isVisible = false }

// Show resumes rendering.
func (n *Node) Show() { n.isVisible = true }

// ScheduleRender asks the visual element to render this frame.
func (n *Node) ScheduleRender(notifyAll ...bool) {
	if ve := n.options.VisualElement; ve != nil {
		ve.ScheduleRender()
	}
	if len(notifyAll) > 0 && notifyAll[0] {
		if stack := n.Stack(); stack != nil {
			stack.ScheduleRender()
		}
	}
	if n.resumingFrom != nil && n.resumingFrom.instance == nil {
		n.resumingFrom = nil
	}
}

// Stack returns the node's shared stack, or nil.
func (n *Node) Stack() *NodeStack {
	if n.options.LayoutID == "" {
		return nil
	}
	return n.tree.sharedByID[n.options.LayoutID]
}

// IsLead reports whether the node leads its stack. Nodes without a
// stack lead themselves.
func (n *Node) IsLead() bool {
	stack := n.Stack()
	return stack == nil || stack.lead == nil || stack.lead == n
}

// Lead returns the stack's lead, or the node itself.
func (n *Node) Lead() *Node {
	if stack := n.Stack(); stack != nil && stack.lead != nil {
		return stack.lead
	}
	return n
}

// PrevLead returns the stack's previous lead, or nil.
func (n *Node) PrevLead() *Node {
	if stack := n.Stack(); stack != nil {
		return stack.prevLead
	}
	return nil
}

// Promote makes the node the lead of its stack.
func (n *Node) Promote(opts PromoteOptions) {
	stack := n.Stack()
	if stack != nil {
		stack.Promote(n, opts.PreserveFollowOpacity)
	}
	if opts.NeedsReset {
		n.projectionDelta = nil
		n.needsReset = true
	}
	if opts.Transition != nil {
		tr := *opts.Transition
		n.options.Transition = &tr
	}
}

// Relegate hands leadership to the previous present member. It reports
// whether another member took over.
func (n *Node) Relegate() bool {
	if stack := n.Stack(); stack != nil {
		return stack.Relegate(n)
	}
	return false
}
