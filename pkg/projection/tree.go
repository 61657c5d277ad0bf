package projection

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/frame"
	"github.com/vango-dev/motion/pkg/values"
)

// NodeID addresses a node inside its Tree.
type NodeID int32

// NoNode is the NodeID of an absent node.
const NoNode NodeID = -1

// DefaultResizeDebounce is how long updates stay blocked after the last
// viewport resize.
const DefaultResizeDebounce = 250 * time.Millisecond

// TreeOption configures a Tree.
type TreeOption func(*Tree)

// WithScheduler sets the frame scheduler. Default: a scheduler on the
// system clock.
func WithScheduler(s *frame.Scheduler) TreeOption {
	return func(t *Tree) { t.sched = s }
}

// WithDriver sets the animation driver. Default: a FrameDriver on the
// tree's scheduler.
func WithDriver(d animation.Driver) TreeOption {
	return func(t *Tree) { t.driver = d }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) TreeOption {
	return func(t *Tree) { t.logger = l }
}

// WithRecorder sets the per-frame telemetry recorder.
func WithRecorder(r Recorder) TreeOption {
	return func(t *Tree) { t.recorder = r }
}

// WithTracer sets the tracer used for update pass spans.
func WithTracer(tr trace.Tracer) TreeOption {
	return func(t *Tree) { t.tracer = tr }
}

// WithResizeDebounce sets how long updates stay blocked after a resize.
func WithResizeDebounce(d time.Duration) TreeOption {
	return func(t *Tree) { t.resizeDebounce = d }
}

// WithDeviceRounding rounds measured layout boxes to whole pixels.
func WithDeviceRounding(on bool) TreeOption {
	return func(t *Tree) { t.roundBoxes = on }
}

// WithDefaultTransition sets the transition used when neither a node nor
// its visual element provides one.
func WithDefaultTransition(tr animation.Transition) TreeOption {
	return func(t *Tree) { t.defaultTransition = tr }
}

// Tree owns a set of projection nodes and the state shared between them.
type Tree struct {
	host     Host
	sched    *frame.Scheduler
	driver   animation.Driver
	logger   *slog.Logger
	recorder Recorder
	tracer   trace.Tracer

	resizeDebounce    time.Duration
	roundBoxes        bool
	defaultTransition animation.Transition

	nodes      []*Node
	root       NodeID
	mounted    []*Node
	needsSort  bool
	sharedByID map[string]*NodeStack

	animationID               int
	isUpdating                bool
	updateScheduled           bool
	projectionUpdateScheduled bool
	updateManuallyBlocked     bool
	updateBlockedByResize     bool
	hasTreeAnimated           bool
	hasAnimatedSinceResize    bool
	activeLayoutAnimations    int

	projectionTask *frame.Task
	resizeTask     *frame.Task
	checkTask      *frame.Task

	metrics FrameMetrics
}

// NewTree creates an empty tree measuring through host. host may be nil
// for trees that are driven purely through SetTargetDelta.
func NewTree(host Host, opts ...TreeOption) *Tree {
	t := &Tree{
		host:              host,
		root:              NoNode,
		sharedByID:        make(map[string]*NodeStack),
		resizeDebounce:    DefaultResizeDebounce,
		defaultTransition: animation.DefaultLayoutTransition(),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.sched == nil {
		t.sched = frame.NewScheduler()
	}
	if t.driver == nil {
		t.driver = animation.NewFrameDriver(t.sched)
	}
	if t.logger == nil {
		t.logger = slog.Default().With("component", "projection")
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer("github.com/vango-dev/motion/pkg/projection")
	}
	return t
}

// Scheduler returns the tree's frame scheduler.
func (t *Tree) Scheduler() *frame.Scheduler { return t.sched }

// Host returns the tree's measurement provider.
func (t *Tree) Host() Host { return t.host }

// AnimationID returns the id of the current update cycle. It increments
// every time an update starts.
func (t *Tree) AnimationID() int { return t.animationID }

// IsUpdating reports whether an update cycle has started and not yet run.
func (t *Tree) IsUpdating() bool { return t.isUpdating }

// HasTreeAnimated reports whether any node has ever started an update.
func (t *Tree) HasTreeAnimated() bool { return t.hasTreeAnimated }

// ActiveAnimations returns the number of running layout animations.
func (t *Tree) ActiveAnimations() int { return t.activeLayoutAnimations }

// NewNode creates an unmounted node under parent. A nil parent attaches
// the node to the host's default parent, or to the root. The first node
// created without a parent becomes the root.
func (t *Tree) NewNode(parent *Node, latest values.Values) (*Node, error) {
	if parent != nil && parent.tree != t {
		return nil, errors.New("E003").
			WithDetailf("parent node %d belongs to another tree", parent.id)
	}
	if parent == nil && t.root != NoNode {
		if t.host != nil {
			parent = t.host.DefaultParent(t)
		}
		if parent == nil || parent.tree != t {
			parent = t.nodes[t.root]
		}
	}
	if latest == nil {
		latest = values.Values{}
	}

	n := &Node{
		id:           NodeID(len(t.nodes)),
		tree:         t,
		parent:       NoNode,
		latestValues: latest,
		treeScale:    geomIdentityPoint(),
		isVisible:    true,
		isPresent:    true,
		handlers:     make(map[EventName]*subscriptions),
	}
	if parent != nil {
		n.parent = parent.id
		n.path = append(append([]NodeID(nil), parent.path...), parent.id)
	} else {
		t.root = n.id
	}
	n.depth = len(n.path)
	t.nodes = append(t.nodes, n)
	return n, nil
}

// Node returns the node with id. It returns E004 for unknown ids.
func (t *Tree) Node(id NodeID) (*Node, error) {
	if id < 0 || int(id) >= len(t.nodes) {
		return nil, errors.New("E004").WithDetailf("node %d", id)
	}
	return t.nodes[id], nil
}

func (t *Tree) node(id NodeID) *Node {
	if id == NoNode {
		return nil
	}
	return t.nodes[id]
}

// Root returns the root node, or nil for an empty tree.
func (t *Tree) Root() *Node { return t.node(t.root) }

// Nodes returns the mounted nodes ordered by depth, parents first.
func (t *Tree) Nodes() []*Node {
	return append([]*Node(nil), t.sorted()...)
}

func (t *Tree) register(n *Node) {
	t.mounted = append(t.mounted, n)
	t.needsSort = true
}

func (t *Tree) unregister(n *Node) {
	for i, m := range t.mounted {
		if m == n {
			t.mounted = append(t.mounted[:i], t.mounted[i+1:]...)
			return
		}
	}
}

func (t *Tree) sorted() []*Node {
	if t.needsSort {
		sort.SliceStable(t.mounted, func(i, j int) bool {
			return t.mounted[i].depth < t.mounted[j].depth
		})
		t.needsSort = false
	}
	return t.mounted
}

// forEach runs fn over a copy of the depth-ordered registry so nodes may
// mount or unmount during the sweep.
func (t *Tree) forEach(fn func(n *Node)) {
	for _, n := range append([]*Node(nil), t.sorted()...) {
		fn(n)
	}
}

// RegisterSharedNode adds node to the shared stack for layoutID and
// promotes it.
func (t *Tree) RegisterSharedNode(layoutID string, node *Node) error {
	if node.tree != t {
		return errors.New("E002").WithDetailf("layoutId %q", layoutID)
	}
	stack, ok := t.sharedByID[layoutID]
	if !ok {
		stack = &NodeStack{}
		t.sharedByID[layoutID] = stack
	}
	stack.Add(node)

	var opts PromoteOptions
	if ip := node.options.InitialPromotion; ip != nil {
		opts.Transition = ip.Transition
		if ip.PreserveFollowOpacity != nil {
			opts.PreserveFollowOpacity = ip.PreserveFollowOpacity(node)
		}
	}
	node.Promote(opts)
	return nil
}

// Stack returns the shared stack for layoutID, or nil.
func (t *Tree) Stack(layoutID string) *NodeStack {
	return t.sharedByID[layoutID]
}

// IsUpdateBlocked reports whether updates are blocked manually or by an
// ongoing resize.
func (t *Tree) IsUpdateBlocked() bool {
	return t.updateManuallyBlocked || t.updateBlockedByResize
}

// BlockUpdate skips the next update and discards its snapshots.
func (t *Tree) BlockUpdate() { t.updateManuallyBlocked = true }

// UnblockUpdate lifts BlockUpdate.
func (t *Tree) UnblockUpdate() { t.updateManuallyBlocked = false }

func (t *Tree) isTreeAnimationBlocked(n *Node) bool {
	if n.isAnimationBlocked {
		return true
	}
	for _, id := range n.path {
		if t.nodes[id].isAnimationBlocked {
			return true
		}
	}
	return false
}

// startUpdate begins an update cycle.
func (t *Tree) startUpdate() {
	if t.IsUpdateBlocked() {
		return
	}
	t.isUpdating = true
	t.forEach((*Node).resetSkewAndRotation)
	t.animationID++
}

// DidUpdate schedules the update pass on the microtask queue. Calls made
// before it runs coalesce into one pass.
func (t *Tree) DidUpdate() {
	if t.updateScheduled {
		return
	}
	t.updateScheduled = true
	t.sched.Microtask(t.update)
}

// Update runs the update pass immediately.
func (t *Tree) Update() {
	t.update()
}

func (t *Tree) update() {
	t.updateScheduled = false

	if t.IsUpdateBlocked() {
		t.UnblockUpdate()
		t.clearAllSnapshots()
		t.forEach((*Node).ClearMeasurements)
		t.logger.Debug("update skipped", "reason", "blocked", "resizing", t.updateBlockedByResize)
		return
	}

	// Nodes measured outside willUpdate may carry a stale layout-dirty flag.
	if !t.isUpdating {
		t.forEach(func(n *Node) { n.isLayoutDirty = false })
	}
	t.isUpdating = false

	start := time.Now()
	_, span := t.tracer.Start(context.Background(), "motion.update",
		trace.WithAttributes(
			attribute.Int("motion.nodes", len(t.mounted)),
			attribute.Int("motion.animation_id", t.animationID),
		))

	t.forEach((*Node).resetTransformStyle)
	t.forEach((*Node).updateLayoutIfDirty)
	t.forEach((*Node).notifyLayoutUpdate)
	t.clearAllSnapshots()

	span.End()
	if ur, ok := t.recorder.(UpdateRecorder); ok {
		ur.RecordUpdate(len(t.mounted), time.Since(start))
	}

	t.sched.FlushSync()
}

func (t *Tree) clearAllSnapshots() {
	t.forEach(func(n *Node) { n.snapshot = nil })
	for _, stack := range t.sharedByID {
		stack.RemoveLeadSnapshot()
	}
}

// ScheduleUpdateProjection queues a projection pass for this frame's
// preRender phase.
func (t *Tree) ScheduleUpdateProjection() {
	if t.projectionUpdateScheduled {
		return
	}
	t.projectionUpdateScheduled = true
	if t.projectionTask == nil {
		t.projectionTask = t.sched.ScheduleImmediate(frame.StepPreRender, t.updateProjection)
		return
	}
	t.sched.Requeue(frame.StepPreRender, t.projectionTask, true)
}

// UpdateProjection runs the projection pass immediately.
func (t *Tree) UpdateProjection() {
	t.updateProjection(t.sched.Data())
}

func (t *Tree) updateProjection(frame.Data) {
	t.projectionUpdateScheduled = false
	t.metrics = FrameMetrics{}

	nodes := append([]*Node(nil), t.sorted()...)
	t.metrics.TotalNodes = len(nodes)
	for _, n := range nodes {
		n.propagateDirty()
	}
	for _, n := range nodes {
		n.ResolveTargetDelta(false)
	}
	for _, n := range nodes {
		n.CalcProjection()
	}
	for _, n := range nodes {
		n.cleanDirty()
	}

	if t.recorder != nil {
		t.recorder.RecordFrame(t.metrics)
	}
}

// checkUpdateFailed runs a pending update that never got its DidUpdate,
// for example after an interrupted commit.
func (t *Tree) checkUpdateFailed() {
	if t.isUpdating {
		t.isUpdating = false
		t.clearAllSnapshots()
		t.logger.Debug("update abandoned", "animation_id", t.animationID)
	}
}

// NotifyResize blocks updates until the viewport has stopped resizing for
// the debounce period and finishes animations started since the last
// resize.
func (t *Tree) NotifyResize() {
	t.updateBlockedByResize = true
	t.resizeTask.Cancel()
	start := t.sched.Now()
	debounce := float64(t.resizeDebounce) / float64(time.Millisecond)
	t.resizeTask = t.sched.KeepAlive(frame.StepPostRender, func(d frame.Data) {
		if d.Timestamp-start < debounce {
			return
		}
		t.updateBlockedByResize = false
		t.resizeTask.Cancel()
	})

	if t.hasAnimatedSinceResize {
		t.hasAnimatedSinceResize = false
		t.forEach((*Node).finishAnimation)
	}
}

// Reset stops every animation, drops every measurement and forgets the
// shared stacks. Mounted nodes stay mounted.
func (t *Tree) Reset() {
	t.forEach(func(n *Node) {
		if n.currentAnimation != nil {
			n.currentAnimation.Stop()
		}
		n.pendingAnimation.Cancel()
		n.currentAnimation, n.pendingAnimation = nil, nil
		n.animationValues = nil
		n.mixTargetDelta = nil
		n.ClearMeasurements()
		n.resetProjection()
		n.isLayoutDirty = false
		n.resumeFrom, n.resumingFrom = nil, nil
	})
	for id, stack := range t.sharedByID {
		for _, m := range stack.members {
			m.isVisible = true
		}
		delete(t.sharedByID, id)
	}
	t.isUpdating = false
	t.updateManuallyBlocked = false
	t.updateBlockedByResize = false
	t.resizeTask.Cancel()
	t.activeLayoutAnimations = 0
	t.logger.Debug("tree reset", "nodes", len(t.mounted))
}
