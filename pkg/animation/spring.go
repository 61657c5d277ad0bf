package animation

import "math"

// springAt returns the position of a spring released from rest at origin and
// pulled towards target, t milliseconds after release.
func springAt(tr Transition, origin, target, t float64) float64 {
	stiffness, damping, mass := tr.Stiffness, tr.Damping, tr.Mass
	if stiffness <= 0 {
		stiffness = 100
	}
	if mass <= 0 {
		mass = 1
	}
	if damping < 0 {
		damping = 0
	}

	dampingRatio := damping / (2 * math.Sqrt(stiffness*mass))
	initialDelta := target - origin
	// Angular frequency per millisecond.
	undamped := math.Sqrt(stiffness/mass) / 1000

	switch {
	case dampingRatio < 1:
		angular := undamped * math.Sqrt(1-dampingRatio*dampingRatio)
		envelope := math.Exp(-dampingRatio * undamped * t)
		return target - envelope*((dampingRatio*undamped*initialDelta/angular)*math.Sin(angular*t)+
			initialDelta*math.Cos(angular*t))
	case dampingRatio == 1:
		return target - math.Exp(-undamped*t)*(initialDelta+undamped*initialDelta*t)
	default:
		damped := undamped * math.Sqrt(dampingRatio*dampingRatio-1)
		envelope := math.Exp(-dampingRatio * undamped * t)
		freq := math.Min(damped*t, 300)
		return target - envelope*((dampingRatio*undamped*initialDelta)*math.Sinh(freq)+
			damped*initialDelta*math.Cosh(freq))/damped
	}
}

// springSettled reports whether the spring is at rest near target.
func springSettled(tr Transition, origin, target, t float64) bool {
	restDelta := tr.RestDelta
	if restDelta <= 0 {
		restDelta = 0.5
	}
	current := springAt(tr, origin, target, t)
	if math.Abs(target-current) > restDelta {
		return false
	}
	// Velocity over the last 10ms, in units per second.
	prev := springAt(tr, origin, target, math.Max(t-10, 0))
	velocity := math.Abs(current-prev) * 100
	return velocity <= restDelta*20
}
