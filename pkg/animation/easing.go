package animation

import "math"

// Easing maps linear progress 0-1 onto eased progress.
type Easing func(p float64) float64

// Linear is the identity easing.
func Linear(p float64) float64 { return p }

// CircOut decelerates along a quarter circle.
func CircOut(p float64) float64 {
	return math.Sqrt(1 - (p-1)*(p-1))
}

// Compress runs easing only between min and max, clamping outside.
func Compress(min, max float64, easing Easing) Easing {
	return func(p float64) float64 {
		if p < min {
			return 0
		}
		if p > max {
			return 1
		}
		return easing(Progress(min, max, p))
	}
}

// Mix interpolates linearly between from and to.
func Mix(from, to, progress float64) float64 {
	return from + (to-from)*progress
}

// Progress returns where value sits between from and to, 0-1 when inside.
func Progress(from, to, value float64) float64 {
	span := to - from
	if span == 0 {
		return 1
	}
	return (value - from) / span
}

// Clamp limits v to [min, max].
func Clamp(min, max, v float64) float64 {
	return math.Max(min, math.Min(max, v))
}

// CubicBezier is a CSS-style cubic-bezier(x1, y1, x2, y2) curve.
// The zero value is treated as linear.
type CubicBezier [4]float64

const (
	subdivisionPrecision     = 0.0000001
	subdivisionMaxIterations = 12
)

func bezierAt(t, a1, a2 float64) float64 {
	return (((1-3*a2+3*a1)*t+(3*a2-6*a1))*t + 3*a1) * t
}

// Ease evaluates the curve at progress p.
func (c CubicBezier) Ease(p float64) float64 {
	x1, y1, x2, y2 := c[0], c[1], c[2], c[3]
	if x1 == y1 && x2 == y2 {
		return p
	}
	if p <= 0 || p >= 1 {
		return p
	}

	// Binary subdivision for the curve parameter that gives x == p.
	lower, upper := 0.0, 1.0
	t := p
	for i := 0; i < subdivisionMaxIterations; i++ {
		t = lower + (upper-lower)/2
		x := bezierAt(t, x1, x2) - p
		if math.Abs(x) <= subdivisionPrecision {
			break
		}
		if x > 0 {
			upper = t
		} else {
			lower = t
		}
	}
	return bezierAt(t, y1, y2)
}
