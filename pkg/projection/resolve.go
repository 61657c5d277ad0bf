package projection

import "github.com/vango-dev/motion/pkg/geometry"

// propagateDirty pulls the parent's dirty flags down. Nodes projecting
// in their own right keep their own projection flag. Runs top-down, so the
// parent is already settled.
func (n *Node) propagateDirty() {
	p := n.Parent()
	if p == nil {
		return
	}
	if !n.IsProjecting() {
		n.isProjectionDirty = p.isProjectionDirty
	}
	n.isSharedProjectionDirty = n.isSharedProjectionDirty ||
		n.isProjectionDirty || p.isProjectionDirty || p.isSharedProjectionDirty
	n.isTransformDirty = n.isTransformDirty || p.isTransformDirty
}

func (n *Node) cleanDirty() {
	n.isProjectionDirty = false
	n.isSharedProjectionDirty = false
	n.isTransformDirty = false
}

// SetTargetDelta sets the delta applied to the layout to produce the
// target and schedules a projection pass.
func (n *Node) SetTargetDelta(d geometry.Delta) {
	if n.targetDelta == nil {
		n.targetDelta = new(geometry.Delta)
	}
	*n.targetDelta = d
	n.tree.ScheduleUpdateProjection()
	n.isProjectionDirty = true
}

// MarkTransformDirty flags that the node's own transform values changed.
func (n *Node) MarkTransformDirty() {
	n.isTransformDirty = true
	n.tree.ScheduleUpdateProjection()
}

// IsProjecting reports whether the node has a target of its own.
func (n *Node) IsProjecting() bool {
	return (n.relativeTarget != nil || n.targetDelta != nil || n.options.LayoutRoot) && n.layout != nil
}

// getClosestProjectingParent returns the nearest projecting ancestor. An
// ancestor with its own scale or translate breaks the chain because its
// target no longer describes its children's space.
func (n *Node) getClosestProjectingParent() *Node {
	p := n.Parent()
	if p == nil || hasScale(p.latestValues) || has2DTranslate(p.latestValues) {
		return nil
	}
	if p.IsProjecting() {
		return p
	}
	return p.getClosestProjectingParent()
}

func (n *Node) forceRelativeParentToResolveTarget() {
	rp := n.relativeParent
	if rp == nil {
		return
	}
	if rp.resolvedRelativeTargetAt != n.tree.sched.Data().Timestamp {
		rp.ResolveTargetDelta(true)
	}
}

// ResolveTargetDelta computes the node's target box from its target delta
// or its relative target. Clean nodes are skipped unless force is set.
func (n *Node) ResolveTargetDelta(force bool) {
	t := n.tree
	lead := n.Lead()
	n.isProjectionDirty = n.isProjectionDirty || lead.isProjectionDirty
	n.isTransformDirty = n.isTransformDirty || lead.isTransformDirty
	n.isSharedProjectionDirty = n.isSharedProjectionDirty || lead.isSharedProjectionDirty

	isShared := n.resumingFrom != nil || n != lead
	parentDirty := false
	if p := n.Parent(); p != nil {
		parentDirty = p.isProjectionDirty
	}
	canSkip := !(force ||
		(isShared && n.isSharedProjectionDirty) ||
		n.isProjectionDirty ||
		parentDirty ||
		n.attemptToResolveRelativeTarget ||
		t.updateBlockedByResize)
	if canSkip {
		return
	}

	if n.layout == nil || !(n.options.Layout || n.options.LayoutID != "") {
		return
	}

	now := t.sched.Data().Timestamp
	n.resolvedRelativeTargetAt = now
	t.metrics.ResolvedTargetDeltas++

	if n.targetDelta == nil && n.relativeTarget == nil {
		rp := n.getClosestProjectingParent()
		if rp != nil && rp.layout != nil && n.animationProgress != 1 {
			n.relativeParent = rp
			n.forceRelativeParentToResolveTarget()
			n.createRelativeTarget(n.layout.LayoutBox, rp.layout.LayoutBox)
		} else {
			n.relativeParent = nil
			n.relativeTarget = nil
		}
	}

	if n.relativeTarget == nil && n.targetDelta == nil {
		return
	}

	if n.target == nil {
		n.target = &geometry.Box{}
		n.targetWithTransforms = &geometry.Box{}
	}

	switch {
	case n.relativeTarget != nil && n.relativeTargetOrigin != nil && n.relativeParent != nil && n.relativeParent.target != nil:
		n.forceRelativeParentToResolveTarget()
		geometry.CalcRelativeBox(n.target, *n.relativeTarget, *n.relativeParent.target)
	case n.targetDelta != nil:
		if n.resumingFrom != nil {
			*n.target = n.applyTransform(n.layout.LayoutBox, false)
		} else {
			*n.target = n.layout.LayoutBox
		}
		geometry.ApplyBoxDelta(n.target, *n.targetDelta)
	default:
		*n.target = n.layout.LayoutBox
	}

	if n.attemptToResolveRelativeTarget {
		n.attemptToResolveRelativeTarget = false
		rp := n.getClosestProjectingParent()
		if rp != nil && (rp.resumingFrom != nil) == (n.resumingFrom != nil) &&
			!rp.options.LayoutScroll && rp.target != nil && n.animationProgress != 1 {
			n.relativeParent = rp
			n.forceRelativeParentToResolveTarget()
			n.createRelativeTarget(*n.target, *rp.target)
		} else {
			n.relativeParent = nil
			n.relativeTarget = nil
		}
	}
}

// createRelativeTarget expresses box relative to parentBox and uses the
// result as both the relative target and its origin.
func (n *Node) createRelativeTarget(box, parentBox geometry.Box) {
	origin := &geometry.Box{}
	geometry.CalcRelativePosition(origin, box, parentBox)
	target := *origin
	n.relativeTargetOrigin = origin
	n.relativeTarget = &target
}

// CalcProjection computes the delta from the node's layout, corrected for
// ancestor projections, onto the lead's target.
func (n *Node) CalcProjection() {
	t := n.tree
	lead := n.Lead()
	isShared := n.resumingFrom != nil || n != lead
	p := n.Parent()

	canSkip := true
	if n.isProjectionDirty || (p != nil && p.isProjectionDirty) {
		canSkip = false
	}
	if isShared && (n.isSharedProjectionDirty || n.isTransformDirty) {
		canSkip = false
	}
	if n.resolvedRelativeTargetAt == t.sched.Data().Timestamp {
		canSkip = false
	}
	if canSkip {
		return
	}

	n.isTreeAnimating = (p != nil && p.isTreeAnimating) || n.IsAnimating()
	if !n.isTreeAnimating {
		n.targetDelta = nil
		n.relativeTarget = nil
	}

	if n.layout == nil || !(n.options.Layout || n.options.LayoutID != "") {
		return
	}

	n.layoutCorrected = n.layout.LayoutBox
	prevTreeScale := n.treeScale
	t.applyTreeDeltas(&n.layoutCorrected, &n.treeScale, n.path, isShared)

	if lead.layout != nil && lead.target == nil && (n.treeScale.X != 1 || n.treeScale.Y != 1) {
		target := lead.layout.LayoutBox
		lead.target = &target
		lead.targetWithTransforms = &geometry.Box{}
	}

	target := lead.target
	if target == nil {
		if n.prevProjectionDelta != nil {
			n.createProjectionDeltas()
			n.ScheduleRender()
		}
		return
	}

	if n.projectionDelta == nil || n.prevProjectionDelta == nil {
		n.createProjectionDeltas()
	} else {
		*n.prevProjectionDelta = *n.projectionDelta
	}

	calcBoxDeltaWithValues(n.projectionDelta, n.layoutCorrected, *target, n.latestValues)

	if n.treeScale != prevTreeScale ||
		!geometry.AxisDeltaEquals(n.projectionDelta.X, n.prevProjectionDelta.X) ||
		!geometry.AxisDeltaEquals(n.projectionDelta.Y, n.prevProjectionDelta.Y) {
		n.hasProjected = true
		n.ScheduleRender()
		n.notify(Event{Name: EventProjectionUpdate, Target: *target})
	}
	t.metrics.RecalculatedProjection++
}

func (n *Node) createProjectionDeltas() {
	d, prev, withTransform := geometry.NewDelta(), geometry.NewDelta(), geometry.NewDelta()
	n.projectionDelta = &d
	n.prevProjectionDelta = &prev
	n.projectionDeltaWithTransform = &withTransform
}

// resetProjection drops all derived projection state.
func (n *Node) resetProjection() {
	n.targetDelta = nil
	n.relativeTarget = nil
	n.relativeTargetOrigin = nil
	n.relativeParent = nil
	n.target = nil
	n.targetWithTransforms = nil
	n.projectionDelta = nil
	n.prevProjectionDelta = nil
	n.projectionDeltaWithTransform = nil
	n.treeScale = geomIdentityPoint()
}

// applyTreeDeltas applies the projection of every ancestor in path to
// box, top-down, and accumulates their scale into treeScale. In shared
// transitions ancestor scroll and transforms are applied too, since the
// snapshot came from a different subtree.
func (t *Tree) applyTreeDeltas(box *geometry.Box, treeScale *geometry.Point, path []NodeID, isShared bool) {
	if len(path) == 0 {
		return
	}
	treeScale.X, treeScale.Y = 1, 1

	root := t.Root()
	for _, id := range path {
		node := t.nodes[id]
		if ve := node.options.VisualElement; ve != nil {
			if d := ve.Props().Display; d == "contents" || d == "none" {
				continue
			}
		}

		if isShared && node.options.LayoutScroll && node.scroll != nil && node != root {
			geometry.TranslateBox(box, geometry.Point{X: -node.scroll.Offset.X, Y: -node.scroll.Offset.Y})
		}

		if d := node.projectionDelta; d != nil {
			treeScale.X *= d.X.Scale
			treeScale.Y *= d.Y.Scale
			geometry.ApplyBoxDelta(box, *d)
		}

		if isShared && hasTransform(node.latestValues) {
			transformBox(box, node.latestValues)
		}
	}

	treeScale.X = geometry.SnapTreeScale(treeScale.X)
	treeScale.Y = geometry.SnapTreeScale(treeScale.Y)
}
