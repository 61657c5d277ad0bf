package animation

import "time"

// Kind selects the interpolation model of a Transition.
type Kind uint8

const (
	KindTween Kind = iota
	KindSpring
	KindInstant
)

// String returns the kind's config name.
func (k Kind) String() string {
	switch k {
	case KindSpring:
		return "spring"
	case KindInstant:
		return "instant"
	default:
		return "tween"
	}
}

// ParseKind maps a config name onto a Kind. Unknown names are tweens.
func ParseKind(s string) Kind {
	switch s {
	case "spring":
		return KindSpring
	case "instant", "false", "none":
		return KindInstant
	default:
		return KindTween
	}
}

// Transition describes how a value travels to its target.
type Transition struct {
	Kind  Kind
	Delay time.Duration

	// Tween.
	Duration time.Duration
	Ease     CubicBezier

	// Spring.
	Stiffness float64
	Damping   float64
	Mass      float64

	// RestDelta is the distance from the target under which a spring is
	// considered settled. Default: 0.5 (of a 1000 range).
	RestDelta float64
}

// DefaultLayoutTransition is the transition used when neither the node nor
// its visual element provides one.
func DefaultLayoutTransition() Transition {
	return Transition{
		Kind:     KindTween,
		Duration: 450 * time.Millisecond,
		Ease:     CubicBezier{0.4, 0, 0.1, 1},
	}
}

// DefaultSpring returns a snappy spring.
func DefaultSpring() Transition {
	return Transition{
		Kind:      KindSpring,
		Stiffness: 500,
		Damping:   25,
		Mass:      1,
	}
}

// Instant returns a transition that jumps to its target.
func Instant() Transition {
	return Transition{Kind: KindInstant}
}
