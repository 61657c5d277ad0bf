package projection

import (
	"github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// WillUpdate snapshots the node before a layout-affecting change and
// notifies willUpdate listeners.
func (n *Node) WillUpdate() {
	n.willUpdate(true)
}

func (n *Node) willUpdate(notify bool) {
	t := n.tree
	t.hasTreeAnimated = true

	if t.IsUpdateBlocked() {
		if n.options.OnExitComplete != nil {
			n.options.OnExitComplete()
		}
		return
	}

	if !t.isUpdating {
		t.startUpdate()
	}
	if n.isLayoutDirty {
		return
	}
	n.isLayoutDirty = true

	for _, id := range n.path {
		node := t.nodes[id]
		node.shouldResetTransform = true
		node.updateScroll(PhaseSnapshot)
		if node.options.LayoutRoot {
			node.willUpdate(false)
		}
	}

	if n.options.LayoutID == "" && !n.options.Layout {
		return
	}

	if ve := n.options.VisualElement; ve != nil {
		if tmpl := ve.Props().TransformTemplate; tmpl != nil {
			n.prevTemplate = tmpl(n.latestValues, "")
			n.hasPrevTemplate = true
		} else {
			n.hasPrevTemplate = false
		}
	}

	n.updateSnapshot()
	if notify {
		n.notify(Event{Name: EventWillUpdate})
	}
}

// DidUpdate schedules the tree's update pass.
func (n *Node) DidUpdate() {
	n.tree.DidUpdate()
}

// UpdateSnapshot measures the node's snapshot if it doesn't have one.
func (n *Node) UpdateSnapshot() {
	n.updateSnapshot()
}

func (n *Node) updateSnapshot() {
	if n.snapshot != nil || n.instance == nil {
		return
	}
	m := n.measure(true)
	if geometry.Length(m.LayoutBox.X) == 0 && geometry.Length(m.LayoutBox.Y) == 0 {
		return
	}
	n.snapshot = m
}

func (n *Node) updateLayoutIfDirty() {
	if n.isLayoutDirty || n.options.AlwaysMeasureLayout {
		n.UpdateLayout()
	}
}

// UpdateLayout measures the node's current layout and notifies measure
// listeners.
func (n *Node) UpdateLayout() {
	if n.instance == nil {
		return
	}
	n.updateScroll(PhaseMeasure)

	// Children that aren't layout-dirty still measure their scroll so
	// descendants can remove it.
	if !(n.options.AlwaysMeasureLayout && n.IsLead()) && !n.isLayoutDirty {
		return
	}

	if n.resumeFrom != nil && n.resumeFrom.instance == nil {
		for _, id := range n.path {
			n.tree.nodes[id].updateScroll(PhaseMeasure)
		}
	}

	var prevLayout *geometry.Box
	if n.layout != nil {
		b := n.layout.LayoutBox
		prevLayout = &b
	}
	ve := n.options.VisualElement
	if ve != nil {
		if fn := ve.Props().OnBeforeLayoutMeasure; fn != nil {
			fn()
		}
	}

	n.layout = n.measure(false)
	n.isLayoutDirty = false
	n.projectionDelta = nil
	n.notify(Event{Name: EventMeasure, Layout: n.layout.LayoutBox})

	if ve != nil {
		if fn := ve.Props().OnLayoutMeasure; fn != nil {
			fn(n.layout.LayoutBox, prevLayout)
		}
	}
}

// UpdateScroll re-reads the node's scroll offset unless it was already
// read for this animation id and phase.
func (n *Node) UpdateScroll(phase ScrollPhase) {
	n.updateScroll(phase)
}

func (n *Node) updateScroll(phase ScrollPhase) {
	t := n.tree
	if n.instance == nil || t.host == nil || !n.options.LayoutScroll {
		return
	}
	if n.scroll != nil && n.scroll.AnimationID == t.animationID && n.scroll.Phase == phase {
		return
	}
	wasRoot := false
	if n.scroll != nil {
		wasRoot = n.scroll.IsRoot
	}
	n.scroll = &ScrollMeasurement{
		AnimationID: t.animationID,
		Phase:       phase,
		IsRoot:      t.host.CheckIsScrollRoot(n.instance),
		Offset:      t.host.MeasureScroll(n.instance),
		WasRoot:     wasRoot,
	}
}

func (n *Node) resetTransformStyle() {
	t := n.tree
	if t.host == nil || n.instance == nil {
		n.shouldResetTransform = false
		return
	}
	isResetRequested := n.isLayoutDirty || n.shouldResetTransform || n.options.AlwaysMeasureLayout
	hasProjection := n.projectionDelta != nil && !geometry.IsDeltaZero(*n.projectionDelta)

	template := ""
	templateChanged := false
	if ve := n.options.VisualElement; ve != nil {
		if tmpl := ve.Props().TransformTemplate; tmpl != nil {
			template = tmpl(n.latestValues, "")
			templateChanged = !n.hasPrevTemplate || template != n.prevTemplate
		}
	}

	if isResetRequested && (hasProjection || hasTransform(n.latestValues) || templateChanged) {
		t.host.ResetTransform(n.instance, template)
		n.shouldResetTransform = false
		n.ScheduleRender()
	}
}

// Measure returns a fresh measurement of the node.
func (n *Node) Measure(removeTransform bool) (*Measurement, error) {
	if n.instance == nil {
		return nil, errors.New("E001").WithDetailf("node %d", n.id)
	}
	return n.measure(removeTransform), nil
}

// MeasureViewportBox returns the host's viewport box for the node.
func (n *Node) MeasureViewportBox() (geometry.Box, error) {
	ve := n.options.VisualElement
	if n.instance == nil || ve == nil {
		return geometry.Box{}, errors.New("E001").WithDetailf("node %d", n.id)
	}
	return ve.MeasureViewportBox(), nil
}

func (n *Node) measure(removeTransform bool) *Measurement {
	t := n.tree
	pageBox := n.measurePageBox()
	layoutBox := n.removeElementScroll(pageBox)
	if removeTransform {
		layoutBox = n.removeTransform(layoutBox)
	}
	if t.roundBoxes {
		geometry.RoundBox(&layoutBox)
	}

	var pos Position
	if ve := n.options.VisualElement; ve != nil {
		pos = ve.Props().Position
	}
	return &Measurement{
		AnimationID:  t.animationID,
		MeasuredBox:  pageBox,
		LayoutBox:    layoutBox,
		TreeScroll:   n.treeScroll(),
		LatestValues: values.Values{},
		Source:       n.id,
		Position:     pos,
	}
}

func (n *Node) measurePageBox() geometry.Box {
	ve := n.options.VisualElement
	if ve == nil {
		return geometry.Box{}
	}
	box := ve.MeasureViewportBox()

	wasInScrollRoot := n.scroll != nil && n.scroll.WasRoot
	if !wasInScrollRoot {
		for _, id := range n.path {
			if s := n.tree.nodes[id].scroll; s != nil && s.WasRoot {
				wasInScrollRoot = true
				break
			}
		}
	}
	if !wasInScrollRoot {
		if root := n.Root(); root != nil && root.scroll != nil {
			geometry.TranslateBox(&box, root.scroll.Offset)
		}
	}
	return box
}

func (n *Node) treeScroll() geometry.Point {
	var p geometry.Point
	for _, id := range n.path {
		node := n.tree.nodes[id]
		if node.options.LayoutScroll && node.scroll != nil && !node.scroll.IsRoot {
			p.X += node.scroll.Offset.X
			p.Y += node.scroll.Offset.Y
		}
	}
	return p
}

// removeElementScroll converts a page box into layout space by adding back
// the scroll of every scrolling ancestor.
func (n *Node) removeElementScroll(box geometry.Box) geometry.Box {
	out := box
	if s := n.scroll; s != nil && s.WasRoot {
		return out
	}
	for _, id := range n.path {
		node := n.tree.nodes[id]
		s := node.scroll
		if node == n.Root() || !node.options.LayoutScroll || s == nil {
			continue
		}
		// A node that used to be the scroll root was measured with its
		// scroll already in the page box.
		if s.WasRoot {
			out = box
		}
		geometry.TranslateBox(&out, s.Offset)
	}
	return out
}

// applyTransform applies the transforms of the node and its ancestors to
// box. Unless transformOnly is set, ancestor scroll is removed as well.
func (n *Node) applyTransform(box geometry.Box, transformOnly bool) geometry.Box {
	out := box
	t := n.tree
	for _, id := range n.path {
		node := t.nodes[id]
		if !transformOnly && node.options.LayoutScroll && node.scroll != nil && node != n.Root() {
			geometry.TranslateBox(&out, geometry.Point{X: -node.scroll.Offset.X, Y: -node.scroll.Offset.Y})
		}
		if !hasTransform(node.latestValues) {
			continue
		}
		transformBox(&out, node.latestValues)
	}
	if hasTransform(n.latestValues) {
		transformBox(&out, n.latestValues)
	}
	return out
}

// removeTransform strips the node's and its ancestors' transforms from
// box so snapshots compare untransformed layouts.
func (n *Node) removeTransform(box geometry.Box) geometry.Box {
	out := box
	t := n.tree
	for _, id := range n.path {
		node := t.nodes[id]
		if node.instance == nil || !hasTransform(node.latestValues) {
			continue
		}
		if hasScale(node.latestValues) {
			node.updateSnapshot()
		}
		var origin *geometry.Box
		if node.snapshot != nil {
			b := node.snapshot.LayoutBox
			origin = &b
		}
		source := node.measurePageBox()
		removeBoxTransforms(&out, node.latestValues, origin, &source)
	}
	if hasTransform(n.latestValues) {
		removeBoxTransforms(&out, n.latestValues, nil, nil)
	}
	return out
}

// SnapshotDelta returns the delta from the node's layout back to its
// snapshot, or to the snapshot it resumes from. ok is false when either
// measurement is missing.
func (n *Node) SnapshotDelta() (d geometry.Delta, ok bool) {
	snapshot := n.snapshot
	if n.resumeFrom != nil {
		snapshot = n.resumeFrom.snapshot
	}
	if snapshot == nil || n.layout == nil {
		return geometry.NewDelta(), false
	}
	return CalcSnapshotDelta(snapshot, n.layout), true
}

// notifyLayoutUpdate diffs the snapshot against the fresh layout and
// emits didUpdate.
func (n *Node) notifyLayoutUpdate() {
	if n.resumeFrom != nil && !n.resumeFrom.isPresent {
		n.resumeFrom.isPresent = true
		n.resumeFrom.options.OnExitComplete = nil
	}

	snapshot := n.snapshot
	if n.resumeFrom != nil {
		snapshot = n.resumeFrom.snapshot
	}

	if snapshot != nil && n.layout != nil && n.HasListeners(EventDidUpdate) {
		layout := n.layout.LayoutBox
		measuredBox := n.layout.MeasuredBox

		isShared := snapshot.Source != n.layout.Source
		snapshotBox := func(axis geometry.AxisName) *geometry.Axis {
			if isShared {
				return snapshot.MeasuredBox.Axis(axis)
			}
			return snapshot.LayoutBox.Axis(axis)
		}

		// Size-only and position-only animations move one edge of the
		// snapshot onto the layout so that part of the change jumps.
		if n.options.AnimationType == AnimateSize {
			geometry.EachAxis(func(axis geometry.AxisName) {
				sAxis := snapshotBox(axis)
				length := geometry.Length(*sAxis)
				sAxis.Min = layout.Axis(axis).Min
				sAxis.Max = sAxis.Min + length
			})
		} else if shouldAnimatePositionOnly(n.options.AnimationType, snapshot.LayoutBox, layout) {
			geometry.EachAxis(func(axis geometry.AxisName) {
				sAxis := snapshotBox(axis)
				length := geometry.Length(*layout.Axis(axis))
				sAxis.Max = sAxis.Min + length
				if n.relativeTarget != nil && n.currentAnimation == nil {
					n.isProjectionDirty = true
					rAxis := n.relativeTarget.Axis(axis)
					rAxis.Max = rAxis.Min + length
				}
			})
		}

		layoutDelta := CalcSnapshotDelta(snapshot, n.layout)

		visualDelta := geometry.NewDelta()
		if isShared {
			geometry.CalcBoxDelta(&visualDelta, n.applyTransform(measuredBox, true), snapshot.MeasuredBox)
		} else {
			geometry.CalcBoxDelta(&visualDelta, layout, snapshot.LayoutBox)
		}
		if snapshot.Position == PositionSticky || n.layout.Position == PositionSticky {
			visualDelta = layoutDelta
		}

		hasLayoutChanged := !geometry.IsDeltaZero(layoutDelta)
		hasRelativeLayoutChanged := false

		if n.resumeFrom == nil {
			if rp := n.getClosestProjectingParent(); rp != nil && rp.resumeFrom == nil && rp.layout != nil && rp.snapshot != nil {
				var relativeSnapshot, relativeLayout geometry.Box
				geometry.CalcRelativePosition(&relativeSnapshot, snapshot.LayoutBox, rp.snapshot.LayoutBox)
				geometry.CalcRelativePosition(&relativeLayout, layout, rp.layout.LayoutBox)
				if !geometry.BoxEqualsRounded(relativeSnapshot, relativeLayout) {
					hasRelativeLayoutChanged = true
				}
				if rp.options.LayoutRoot {
					n.relativeTarget = &relativeLayout
					origin := relativeSnapshot
					n.relativeTargetOrigin = &origin
					n.relativeParent = rp
				}
			}
		}

		n.notify(Event{
			Name:                     EventDidUpdate,
			Layout:                   layout,
			Snapshot:                 snapshot,
			Delta:                    visualDelta,
			LayoutDelta:              layoutDelta,
			HasLayoutChanged:         hasLayoutChanged,
			HasRelativeLayoutChanged: hasRelativeLayoutChanged,
		})
	} else if n.IsLead() {
		if n.options.OnExitComplete != nil {
			n.options.OnExitComplete()
		}
	}

	// A transition handed over by promotion applies to one update only.
	n.options.Transition = nil
}

// handleDidUpdate decides whether a measured layout change starts an
// animation.
func (n *Node) handleDidUpdate(ev Event) {
	t := n.tree
	if t.isTreeAnimationBlocked(n) {
		n.target = nil
		n.relativeTarget = nil
		return
	}

	ve := n.options.VisualElement
	props := ve.Props()
	transition := t.defaultTransition
	switch {
	case n.options.Transition != nil:
		transition = *n.options.Transition
	case props.Transition != nil:
		transition = *props.Transition
	}

	hasTargetChanged := n.targetLayout == nil || !geometry.BoxEqualsRounded(*n.targetLayout, ev.Layout)
	hasOnlyRelativeTargetChanged := !ev.HasLayoutChanged && ev.HasRelativeLayoutChanged

	if n.options.LayoutRoot || n.resumeFrom != nil || hasOnlyRelativeTargetChanged ||
		(ev.HasLayoutChanged && (hasTargetChanged || n.currentAnimation == nil)) {
		if n.resumeFrom != nil {
			n.resumingFrom = n.resumeFrom
			n.resumingFrom.resumingFrom = nil
		}

		if props.ReduceMotion || n.options.LayoutRoot {
			transition.Delay = 0
			transition.Kind = animation.KindInstant
		}
		n.StartAnimation(animationOptions(transition, props))
		n.SetAnimationOrigin(ev.Delta, hasOnlyRelativeTargetChanged)
	} else {
		if !ev.HasLayoutChanged {
			n.finishAnimation()
		}
		if n.IsLead() && n.options.OnExitComplete != nil {
			n.options.OnExitComplete()
		}
	}

	layout := ev.Layout
	n.targetLayout = &layout
}

// ClearMeasurements drops snapshot and layout so the node re-measures
// from scratch.
func (n *Node) ClearMeasurements() {
	n.snapshot = nil
	n.layout = nil
	n.isLayoutDirty = false
}

// resetSkewAndRotation renders the node without rotation or skew so the
// snapshot measures its axis-aligned box, then restores the values.
func (n *Node) resetSkewAndRotation() {
	ve := n.options.VisualElement
	if ve == nil {
		return
	}
	latest := ve.LatestValues()

	found := false
	for _, key := range skewRotateKeys {
		if latest.NonZero(key) {
			found = true
			break
		}
	}
	if !found {
		return
	}

	reset := make(values.Values, len(skewRotateKeys))
	for _, key := range skewRotateKeys {
		if v, ok := latest.Get(key); ok {
			reset[key] = v
			ve.SetStaticValue(key, values.Num(0))
		}
	}
	ve.Render()
	for key, v := range reset {
		ve.SetStaticValue(key, v)
	}
	ve.ScheduleRender()
}

var skewRotateKeys = []string{
	"z",
	"rotate", "rotateX", "rotateY", "rotateZ",
	"skew", "skewX", "skewY", "skewZ",
}
