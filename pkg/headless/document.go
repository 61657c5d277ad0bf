package headless

import (
	"log/slog"
	"time"

	merrors "github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/frame"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/render"
	"github.com/vango-dev/motion/pkg/values"
)

// RootID is the id of the element every document starts with.
const RootID = "root"

// FrameDuration is the frame length Step uses at 60fps.
const FrameDuration = time.Second / 60

// Option configures a Document.
type Option func(*Document)

// WithClock replaces the default manual clock. Step only advances manual
// clocks; other clocks are expected to move on their own.
func WithClock(c frame.Clock) Option {
	return func(d *Document) { d.clock = c }
}

// WithFrameRate sets the scheduler's frame rate.
func WithFrameRate(fps float64) Option {
	return func(d *Document) { d.frameRate = fps }
}

// WithLogger sets the logger passed to the projection tree.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) { d.logger = l }
}

// WithRecorder forwards per-frame metrics to r after the document has
// captured them.
func WithRecorder(r projection.Recorder) Option {
	return func(d *Document) { d.forward = r }
}

// WithTreeOptions appends options for the projection tree.
func WithTreeOptions(opts ...projection.TreeOption) Option {
	return func(d *Document) { d.treeOpts = append(d.treeOpts, opts...) }
}

// Document is an in-memory rendering surface. It implements
// projection.Host and owns a projection tree whose root is the document
// element. Like the tree, it is not safe for concurrent use.
type Document struct {
	tree      *projection.Tree
	sched     *frame.Scheduler
	clock     frame.Clock
	frameRate float64
	logger    *slog.Logger
	forward   projection.Recorder
	treeOpts  []projection.TreeOption

	root     *Element
	elements map[string]*Element
	order    []*Element

	resizeListeners map[int]func()
	nextListener    int

	metrics projection.FrameMetrics
	frames  int
}

// NewDocument creates a document whose root element covers viewport.
func NewDocument(viewport geometry.Box, opts ...Option) (*Document, error) {
	d := &Document{
		frameRate:       60,
		elements:        make(map[string]*Element),
		resizeListeners: make(map[int]func()),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.clock == nil {
		d.clock = frame.NewManualClock()
	}
	if d.logger == nil {
		d.logger = slog.Default().With("component", "headless")
	}
	d.sched = frame.NewScheduler(frame.WithClock(d.clock), frame.WithFrameRate(d.frameRate))

	treeOpts := append([]projection.TreeOption{
		projection.WithScheduler(d.sched),
		projection.WithLogger(d.logger),
		projection.WithRecorder(d),
	}, d.treeOpts...)
	d.tree = projection.NewTree(d, treeOpts...)

	root, err := d.Add(ElementSpec{
		ID:      RootID,
		Tag:     "body",
		Box:     viewport,
		Options: projection.Options{LayoutScroll: true},
	})
	if err != nil {
		return nil, err
	}
	d.root = root
	return d, nil
}

// Tree returns the document's projection tree.
func (d *Document) Tree() *projection.Tree { return d.tree }

// Scheduler returns the document's frame scheduler.
func (d *Document) Scheduler() *frame.Scheduler { return d.sched }

// Root returns the document element.
func (d *Document) Root() *Element { return d.root }

// Frames returns the number of frames stepped.
func (d *Document) Frames() int { return d.frames }

// Metrics returns the counters of the most recent projection pass.
func (d *Document) Metrics() projection.FrameMetrics { return d.metrics }

// Now returns the scheduler time in milliseconds.
func (d *Document) Now() float64 { return d.sched.Now() }

// ElementSpec describes an element to add.
type ElementSpec struct {
	ID      string
	Parent  string // Defaults to the root
	Tag     string // Defaults to div
	Box     geometry.Box
	Values  values.Values
	Props   projection.Props
	Options projection.Options
	SVG     bool
}

// Add creates an element, attaches a projection node to it and mounts it.
func (d *Document) Add(spec ElementSpec) (*Element, error) {
	if _, exists := d.elements[spec.ID]; exists || spec.ID == "" {
		return nil, merrors.New("E006").WithDetailf("element id %q", spec.ID)
	}
	var parent *Element
	if d.root != nil {
		parent = d.root
		if spec.Parent != "" {
			p, err := d.Element(spec.Parent)
			if err != nil {
				return nil, err
			}
			parent = p
		}
	}

	el := &Element{
		doc:    d,
		id:     spec.ID,
		tag:    spec.Tag,
		parent: parent,
		box:    spec.Box,
		latest: spec.Values,
		props:  spec.Props,
		svg:    spec.SVG,
	}
	if el.tag == "" {
		el.tag = "div"
	}
	if el.latest == nil {
		el.latest = values.Values{}
	}

	var parentNode *projection.Node
	if parent != nil {
		parentNode = parent.node
	}
	node, err := d.tree.NewNode(parentNode, el.latest)
	if err != nil {
		return nil, err
	}
	el.node = node
	opts := spec.Options
	opts.VisualElement = el
	node.SetOptions(opts)
	if err := node.Mount(el); err != nil {
		return nil, err
	}

	if parent != nil {
		parent.children = append(parent.children, el)
	}
	d.elements[el.id] = el
	d.order = append(d.order, el)
	return el, nil
}

// Element returns the element with id.
func (d *Document) Element(id string) (*Element, error) {
	el, ok := d.elements[id]
	if !ok {
		return nil, merrors.New("E005").WithDetailf("element id %q", id)
	}
	return el, nil
}

// Elements returns every element in insertion order.
func (d *Document) Elements() []*Element {
	return append([]*Element(nil), d.order...)
}

// Remove unmounts an element and its descendants. Shared nodes snapshot on
// the way out so a follower can animate from them.
func (d *Document) Remove(id string) error {
	el, err := d.Element(id)
	if err != nil {
		return err
	}
	if el == d.root {
		return merrors.New("E006").WithDetail("the document root cannot be removed")
	}
	d.remove(el)

	p := el.parent
	for i, c := range p.children {
		if c == el {
			p.children = append(p.children[:i], p.children[i+1:]...)
			break
		}
	}
	return nil
}

// Exit marks an element as leaving while it stays mounted. A shared lead
// hands over to the nearest earlier present member, which animates from
// the exiting element while it crossfades out. Call it inside Update.
func (d *Document) Exit(id string) error {
	el, err := d.Element(id)
	if err != nil {
		return err
	}
	if el == d.root {
		return merrors.New("E006").WithDetail("the document root cannot exit")
	}
	el.node.SetPresent(false)
	if !el.node.Relegate() {
		el.node.ScheduleRender()
	}
	return nil
}

func (d *Document) remove(el *Element) {
	for i := len(el.children) - 1; i >= 0; i-- {
		d.remove(el.children[i])
	}
	el.node.Unmount()
	el.node.ScheduleCheckAfterUnmount()
	delete(d.elements, el.id)
	for i, o := range d.order {
		if o == el {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Update runs a layout transaction: every layout-animated node snapshots,
// mutate changes the document, and the tree measures the new layout and
// starts animations. Microtasks are flushed before returning.
func (d *Document) Update(mutate func() error) error {
	for _, el := range d.order {
		opts := el.node.Options()
		if opts.Layout || opts.LayoutID != "" {
			el.node.WillUpdate()
		}
	}
	var err error
	if mutate != nil {
		err = mutate()
	}
	d.tree.DidUpdate()
	d.sched.FlushMicrotasks()
	return err
}

// SetLayout moves an element's layout box.
func (d *Document) SetLayout(id string, box geometry.Box) error {
	el, err := d.Element(id)
	if err != nil {
		return err
	}
	el.box = box
	return nil
}

// SetValue writes a live value, for example a transform or opacity.
func (d *Document) SetValue(id, key string, v values.Value) error {
	el, err := d.Element(id)
	if err != nil {
		return err
	}
	el.latest[key] = v
	el.node.MarkTransformDirty()
	return nil
}

// SetProps replaces an element's props.
func (d *Document) SetProps(id string, props projection.Props) error {
	el, err := d.Element(id)
	if err != nil {
		return err
	}
	el.props = props
	return nil
}

// ScrollTo sets an element's scroll offset.
func (d *Document) ScrollTo(id string, p geometry.Point) error {
	el, err := d.Element(id)
	if err != nil {
		return err
	}
	el.scroll = p
	return nil
}

// Resize changes the viewport and notifies resize listeners.
func (d *Document) Resize(viewport geometry.Box) {
	d.root.box = viewport
	for _, fn := range d.resizeListeners {
		fn()
	}
}

// Step advances the clock by dt, when it is a manual clock, and processes
// one frame.
func (d *Document) Step(dt time.Duration) {
	if mc, ok := d.clock.(*frame.ManualClock); ok {
		mc.Advance(dt)
	}
	d.sched.Step()
	d.frames++
}

// Settle steps frames of dt until no work is pending or maxFrames have
// run. It returns the number of frames stepped and whether the document
// settled.
func (d *Document) Settle(dt time.Duration, maxFrames int) (int, bool) {
	for i := 0; i < maxFrames; i++ {
		if !d.sched.Pending() {
			return i, true
		}
		d.Step(dt)
	}
	return maxFrames, !d.sched.Pending()
}

// Styles returns the styles every element last rendered, keyed by element
// id. Elements that never rendered, and SVG elements, map to nil.
func (d *Document) Styles() map[string]projection.Styles {
	out := make(map[string]projection.Styles, len(d.order))
	for _, el := range d.order {
		out[el.id] = el.styles
	}
	return out
}

// Snapshot captures the element tree with its rendered styles.
func (d *Document) Snapshot() render.Snapshot {
	return snapshot(d.root)
}

func snapshot(el *Element) render.Snapshot {
	s := render.Snapshot{ID: el.id, Tag: el.tag, Styles: el.styles}
	for _, c := range el.children {
		s.Children = append(s.Children, snapshot(c))
	}
	return s
}

// RecordFrame implements projection.Recorder.
func (d *Document) RecordFrame(m projection.FrameMetrics) {
	d.metrics = m
	if d.forward != nil {
		d.forward.RecordFrame(m)
	}
}

// RecordUpdate implements projection.UpdateRecorder.
func (d *Document) RecordUpdate(nodes int, duration time.Duration) {
	if ur, ok := d.forward.(projection.UpdateRecorder); ok {
		ur.RecordUpdate(nodes, duration)
	}
}
