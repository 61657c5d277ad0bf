package headless

import (
	"github.com/vango-dev/motion/pkg/frame"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/values"
)

// Element is an in-memory element with a layout box, a scroll offset and
// the projection styles it last rendered.
type Element struct {
	doc      *Document
	id       string
	tag      string
	node     *projection.Node
	parent   *Element
	children []*Element

	box    geometry.Box
	scroll geometry.Point
	latest values.Values
	props  projection.Props
	svg    bool

	styles        projection.Styles
	renders       int
	renderPending bool
	resets        int
}

// ID returns the element id.
func (e *Element) ID() string { return e.id }

// Tag returns the element's tag name.
func (e *Element) Tag() string { return e.tag }

// Node returns the element's projection node.
func (e *Element) Node() *projection.Node { return e.node }

// Parent returns the parent element, or nil for the root.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the element's children in insertion order.
func (e *Element) Children() []*Element { return e.children }

// Box returns the element's page layout box.
func (e *Element) Box() geometry.Box { return e.box }

// Scroll returns the element's scroll offset.
func (e *Element) Scroll() geometry.Point { return e.scroll }

// Styles returns the styles produced by the most recent render.
func (e *Element) Styles() projection.Styles { return e.styles }

// Renders returns how many times the element has rendered.
func (e *Element) Renders() int { return e.renders }

// TransformResets returns how many times the engine cleared the element's
// transform for measurement.
func (e *Element) TransformResets() int { return e.resets }

// MeasureViewportBox returns the layout box shifted by every scrolling
// ancestor.
func (e *Element) MeasureViewportBox() geometry.Box {
	box := e.box
	for p := e.parent; p != nil; p = p.parent {
		geometry.TranslateAxis(&box.X, -p.scroll.X)
		geometry.TranslateAxis(&box.Y, -p.scroll.Y)
	}
	return box
}

// LatestValues returns the element's live values.
func (e *Element) LatestValues() values.Values { return e.latest }

// StaticValue returns a value from the live map.
func (e *Element) StaticValue(key string) (values.Value, bool) {
	return e.latest.Get(key)
}

// SetStaticValue writes a value into the live map.
func (e *Element) SetStaticValue(key string, v values.Value) {
	e.latest[key] = v
}

// Render captures the node's current projection styles.
func (e *Element) Render() {
	e.renderPending = false
	e.renders++
	if e.node != nil {
		e.styles = e.node.ProjectionStyles()
	}
}

// ScheduleRender renders once in the next render step.
func (e *Element) ScheduleRender() {
	if e.renderPending {
		return
	}
	e.renderPending = true
	e.doc.sched.Schedule(frame.StepRender, func(frame.Data) {
		if e.renderPending {
			e.Render()
		}
	})
}

// Props returns the element's props.
func (e *Element) Props() projection.Props { return e.props }
