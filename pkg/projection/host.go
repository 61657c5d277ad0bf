package projection

import (
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// Instance is the host's handle for a rendered element.
type Instance any

// Host is the measurement provider for one rendering surface. It is
// implemented once per surface and injected into a Tree.
type Host interface {
	// MeasureScroll returns the element's current scroll offset.
	MeasureScroll(inst Instance) geometry.Point

	// CheckIsScrollRoot reports whether the element is the document's
	// scrolling element.
	CheckIsScrollRoot(inst Instance) bool

	// AttachResizeListener calls onResize whenever the viewport resizes and
	// returns a function that detaches the listener. May return nil.
	AttachResizeListener(inst Instance, onResize func()) func()

	// ResetTransform clears the element's transform, or sets it to
	// template when non-empty, so it can be measured untransformed.
	ResetTransform(inst Instance, template string)

	// IsSVG reports whether the element is a child of an SVG root. SVG
	// elements project through attributes, not styles.
	IsSVG(inst Instance) bool

	// DefaultParent returns the node that parentless nodes attach to once
	// the tree has a root. Returning nil attaches them to the root.
	DefaultParent(t *Tree) *Node
}

// Position is the host layout mode that affects how deltas are measured.
type Position uint8

const (
	PositionStatic Position = iota
	PositionRelative
	PositionAbsolute
	PositionFixed
	PositionSticky
)

// Props are the options a visual element carries for its projection node.
type Props struct {
	// Transition overrides the tree's default layout transition.
	Transition *animation.Transition

	// PointerEvents is the element's own pointer-events style.
	PointerEvents string

	// Display is the element's display style. "none" and "contents"
	// elements don't take part in tree delta composition.
	Display string

	// Position is the element's position style.
	Position Position

	// TransformTemplate rewrites the generated transform.
	TransformTemplate func(vals values.Values, generated string) string

	// ReduceMotion makes layout animations instant.
	ReduceMotion bool

	OnLayoutAnimationStart    func()
	OnLayoutAnimationComplete func()
	OnBeforeLayoutMeasure     func()
	OnLayoutMeasure           func(layout geometry.Box, prev *geometry.Box)
}

// VisualElement adapts a host element for the engine. The engine never
// inspects host state except through this interface.
type VisualElement interface {
	// MeasureViewportBox returns the element's box in viewport coordinates.
	MeasureViewportBox() geometry.Box

	// LatestValues returns the element's live value map. The node keeps a
	// reference to it, so hosts update it in place.
	LatestValues() values.Values

	// StaticValue returns a value set outside animations.
	StaticValue(key string) (values.Value, bool)

	// SetStaticValue sets a value outside animations.
	SetStaticValue(key string, v values.Value)

	// Render renders synchronously.
	Render()

	// ScheduleRender schedules a render for the current frame.
	ScheduleRender()

	// Props returns the element's current props.
	Props() Props
}
