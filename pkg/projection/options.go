package projection

import "github.com/vango-dev/motion/pkg/animation"

// AnimationType restricts which parts of a layout change are animated.
type AnimationType uint8

const (
	// AnimateBoth animates position and size.
	AnimateBoth AnimationType = iota
	// AnimatePosition animates position only; size changes jump.
	AnimatePosition
	// AnimateSize animates size only; position changes jump.
	AnimateSize
	// AnimatePreserveAspect animates size only while the aspect ratio is
	// roughly kept, otherwise position only.
	AnimatePreserveAspect
)

// String returns the option's config name.
func (a AnimationType) String() string {
	switch a {
	case AnimatePosition:
		return "position"
	case AnimateSize:
		return "size"
	case AnimatePreserveAspect:
		return "preserve-aspect"
	default:
		return "both"
	}
}

// ParseAnimationType maps a config name onto an AnimationType.
func ParseAnimationType(s string) AnimationType {
	switch s {
	case "position":
		return AnimatePosition
	case "size":
		return AnimateSize
	case "preserve-aspect":
		return AnimatePreserveAspect
	default:
		return AnimateBoth
	}
}

// Options configure a node.
type Options struct {
	// LayoutID joins the node to the shared stack for that identity.
	LayoutID string

	// Layout opts the node into layout animations.
	Layout bool

	// AnimationType restricts what gets animated.
	AnimationType AnimationType

	// DisableCrossfade hides the previous lead immediately on promotion
	// instead of crossfading it out.
	DisableCrossfade bool

	// DisableAnimation measures the node but never starts animations.
	DisableAnimation bool

	// LayoutScroll marks the node as a scroll container whose offset is
	// removed from descendants' layouts.
	LayoutScroll bool

	// LayoutRoot makes descendants animate relative to this node.
	LayoutRoot bool

	// AlwaysMeasureLayout measures the node every update, even when it
	// isn't layout-dirty.
	AlwaysMeasureLayout bool

	// Transition overrides the visual element's transition for the next
	// animation. It is cleared after each update.
	Transition *animation.Transition

	// VisualElement is the host element adapter.
	VisualElement VisualElement

	// OnExitComplete is called when an exiting node no longer needs to be
	// kept around for an animation.
	OnExitComplete func()

	// InitialPromotion configures the promotion when the node first joins
	// its shared stack.
	InitialPromotion *PromotionConfig
}

// PromotionConfig configures a node's first promotion in its stack.
type PromotionConfig struct {
	Transition            *animation.Transition
	PreserveFollowOpacity func(n *Node) bool
}

// PromoteOptions configure Node.Promote.
type PromoteOptions struct {
	// NeedsReset clears the projection and renders the untransformed
	// element on the next style read.
	NeedsReset bool

	// Transition, when set, becomes the node's next transition.
	Transition *animation.Transition

	// PreserveFollowOpacity keeps the previous lead's own opacity while it
	// crossfades.
	PreserveFollowOpacity bool
}
