package headless

import (
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/projection"
)

// MeasureScroll implements projection.Host.
func (d *Document) MeasureScroll(inst projection.Instance) geometry.Point {
	if el, ok := inst.(*Element); ok {
		return el.scroll
	}
	return geometry.Point{}
}

// CheckIsScrollRoot implements projection.Host. The document element is
// the scroll root.
func (d *Document) CheckIsScrollRoot(inst projection.Instance) bool {
	el, ok := inst.(*Element)
	return ok && el.parent == nil
}

// AttachResizeListener implements projection.Host.
func (d *Document) AttachResizeListener(_ projection.Instance, onResize func()) func() {
	id := d.nextListener
	d.nextListener++
	d.resizeListeners[id] = onResize
	return func() { delete(d.resizeListeners, id) }
}

// ResetTransform implements projection.Host. Layout boxes are stored
// untransformed, so this only counts the request.
func (d *Document) ResetTransform(inst projection.Instance, _ string) {
	if el, ok := inst.(*Element); ok {
		el.resets++
	}
}

// IsSVG implements projection.Host.
func (d *Document) IsSVG(inst projection.Instance) bool {
	el, ok := inst.(*Element)
	return ok && el.svg
}

// DefaultParent implements projection.Host. Parentless nodes attach to
// the document element.
func (d *Document) DefaultParent(*projection.Tree) *projection.Node {
	if d.root == nil {
		return nil
	}
	return d.root.node
}
