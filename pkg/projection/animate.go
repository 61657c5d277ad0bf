package projection

import (
	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/frame"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// animationTarget is the end of the progress range layout animations run
// over. Progress is latest / animationTarget.
const animationTarget = 1000

func animationOptions(tr animation.Transition, props Props) animation.Options {
	return animation.Options{
		Transition: tr,
		OnPlay:     props.OnLayoutAnimationStart,
		OnComplete: props.OnLayoutAnimationComplete,
	}
}

// SetAnimationOrigin prepares the node to animate delta back to identity.
// It installs the per-frame mixer and applies progress 0, or 1 for layout
// roots, immediately.
func (n *Node) SetAnimationOrigin(delta geometry.Delta, hasOnlyRelativeTargetChanged bool) {
	t := n.tree
	snapshot := n.snapshot
	snapshotLatest := values.Values{}
	if snapshot != nil && snapshot.LatestValues != nil {
		snapshotLatest = snapshot.LatestValues
	}
	mixed := n.latestValues.Clone()
	targetDelta := geometry.NewDelta()

	if n.relativeParent == nil || !n.relativeParent.options.LayoutRoot {
		n.relativeTarget = nil
		n.relativeTargetOrigin = nil
	}
	n.attemptToResolveRelativeTarget = !hasOnlyRelativeTargetChanged

	var relativeLayout geometry.Box
	snapshotSource, layoutSource := NoNode, NoNode
	if snapshot != nil {
		snapshotSource = snapshot.Source
	}
	if n.layout != nil {
		layoutSource = n.layout.Source
	}
	isSharedLayoutAnimation := snapshotSource != layoutSource
	stack := n.Stack()
	isOnlyMember := stack == nil || len(stack.members) <= 1
	shouldCrossfadeOpacity := isSharedLayoutAnimation && !isOnlyMember &&
		!n.options.DisableCrossfade && !n.pathHasOpacityCrossfade()

	n.animationProgress = 0

	var prevRelativeTarget *geometry.Box
	n.mixTargetDelta = func(latest float64) {
		progress := latest / animationTarget
		geometry.MixAxisDelta(&targetDelta.X, delta.X, progress)
		geometry.MixAxisDelta(&targetDelta.Y, delta.Y, progress)
		n.SetTargetDelta(targetDelta)

		if n.relativeTarget != nil && n.relativeTargetOrigin != nil && n.layout != nil &&
			n.relativeParent != nil && n.relativeParent.layout != nil {
			geometry.CalcRelativePosition(&relativeLayout, n.layout.LayoutBox, n.relativeParent.layout.LayoutBox)
			geometry.MixBox(n.relativeTarget, *n.relativeTargetOrigin, relativeLayout, progress)
			if prevRelativeTarget != nil && geometry.BoxEquals(*n.relativeTarget, *prevRelativeTarget) {
				n.isProjectionDirty = false
			}
			if prevRelativeTarget == nil {
				prevRelativeTarget = &geometry.Box{}
			}
			*prevRelativeTarget = *n.relativeTarget
		}

		if isSharedLayoutAnimation {
			n.animationValues = mixed
			mixValues(mixed, snapshotLatest, n.latestValues, progress, shouldCrossfadeOpacity, isOnlyMember)
		}

		t.ScheduleUpdateProjection()
		n.ScheduleRender()
		n.animationProgress = progress
	}

	if n.options.LayoutRoot {
		n.mixTargetDelta(animationTarget)
	} else {
		n.mixTargetDelta(0)
	}
}

func (n *Node) pathHasOpacityCrossfade() bool {
	for _, id := range n.path {
		if _, ok := n.tree.nodes[id].animationValues.Get("opacityExit"); ok {
			return true
		}
	}
	return false
}

// StartAnimation starts the layout animation on the next update phase,
// stopping any animation the node or the node it resumes from is running.
func (n *Node) StartAnimation(opts animation.Options) {
	t := n.tree
	n.notify(Event{Name: EventAnimationStart})

	if n.currentAnimation != nil {
		n.currentAnimation.Stop()
	}
	if n.resumingFrom != nil && n.resumingFrom.currentAnimation != nil {
		n.resumingFrom.currentAnimation.Stop()
	}
	if n.pendingAnimation != nil {
		n.pendingAnimation.Cancel()
		n.pendingAnimation = nil
	}

	n.pendingAnimation = t.sched.Schedule(frame.StepUpdate, func(frame.Data) {
		n.pendingAnimation = nil
		t.hasAnimatedSinceResize = true
		t.activeLayoutAnimations++

		onUpdate, onComplete := opts.OnUpdate, opts.OnComplete
		run := opts
		run.OnUpdate = func(latest float64) {
			if n.mixTargetDelta != nil {
				n.mixTargetDelta(latest)
			}
			if onUpdate != nil {
				onUpdate(latest)
			}
		}
		run.OnStop = func() {
			t.activeLayoutAnimations--
			if opts.OnStop != nil {
				opts.OnStop()
			}
		}
		run.OnComplete = func() {
			t.activeLayoutAnimations--
			if onComplete != nil {
				onComplete()
			}
			n.CompleteAnimation()
		}

		ctrl := t.driver.Animate(0, animationTarget, run)
		if ctrl.Done() {
			return
		}
		n.currentAnimation = ctrl
		if n.resumingFrom != nil {
			n.resumingFrom.currentAnimation = ctrl
		}
	})
}

// CompleteAnimation clears the animation state once the animation
// finished and lets the stack release exiting members.
func (n *Node) CompleteAnimation() {
	if n.resumingFrom != nil {
		n.resumingFrom.currentAnimation = nil
		n.resumingFrom.preserveOpacity = false
	}
	if stack := n.Stack(); stack != nil {
		stack.ExitAnimationComplete()
	}
	n.resumingFrom = nil
	n.currentAnimation = nil
	n.animationValues = nil
	n.notify(Event{Name: EventAnimationComplete})
}

// FinishAnimation jumps a running animation to its end.
func (n *Node) FinishAnimation() {
	n.finishAnimation()
}

func (n *Node) finishAnimation() {
	if n.currentAnimation != nil {
		n.currentAnimation.Complete()
	}
	n.applyTransformsToTarget()
}
