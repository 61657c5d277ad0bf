package geometry

import "math"

// Snapping thresholds for near-identity deltas.
const (
	ScalePrecision     = 0.0001
	TranslatePrecision = 0.01

	scaleMin     = 1 - ScalePrecision
	scaleMax     = 1 + ScalePrecision
	translateMin = 0 - TranslatePrecision
	translateMax = 0 + TranslatePrecision
)

// DefaultOrigin pivots deltas around the axis midpoint.
const DefaultOrigin = 0.5

// Length returns max - min.
func Length(a Axis) float64 {
	return a.Max - a.Min
}

// IsNear reports whether value is within maxDistance of target.
func IsNear(value, target, maxDistance float64) bool {
	return math.Abs(value-target) <= maxDistance
}

// Mix interpolates linearly between from and to.
func Mix(from, to, progress float64) float64 {
	return from + (to-from)*progress
}

// CalcAxisDelta computes the delta that maps source onto target, pivoting at
// origin. Near-identity and non-finite results are snapped to identity.
func CalcAxisDelta(delta *AxisDelta, source, target Axis, origin float64) {
	delta.Origin = origin
	delta.OriginPoint = Mix(source.Min, source.Max, origin)
	delta.Scale = Length(target) / Length(source)
	delta.Translate = Mix(target.Min, target.Max, origin) - delta.OriginPoint

	if (delta.Scale >= scaleMin && delta.Scale <= scaleMax) || !isFinite(delta.Scale) {
		delta.Scale = 1
	}
	if (delta.Translate >= translateMin && delta.Translate <= translateMax) || !isFinite(delta.Translate) {
		delta.Translate = 0
	}
}

// CalcBoxDelta computes CalcAxisDelta for both axes around the default origin.
func CalcBoxDelta(delta *Delta, source, target Box) {
	CalcBoxDeltaWithOrigin(delta, source, target, DefaultOrigin, DefaultOrigin)
}

// CalcBoxDeltaWithOrigin computes CalcAxisDelta for both axes with explicit
// normalized origins.
func CalcBoxDeltaWithOrigin(delta *Delta, source, target Box, originX, originY float64) {
	CalcAxisDelta(&delta.X, source.X, target.X, originX)
	CalcAxisDelta(&delta.Y, source.Y, target.Y, originY)
}

// CalcRelativeAxis positions relative inside parent.
func CalcRelativeAxis(target *Axis, relative, parent Axis) {
	target.Min = parent.Min + relative.Min
	target.Max = target.Min + Length(relative)
}

// CalcRelativeBox positions relative inside parent.
func CalcRelativeBox(target *Box, relative, parent Box) {
	CalcRelativeAxis(&target.X, relative.X, parent.X)
	CalcRelativeAxis(&target.Y, relative.Y, parent.Y)
}

// CalcRelativeAxisPosition expresses layout relative to parent's min edge.
func CalcRelativeAxisPosition(output *Axis, layout, parent Axis) {
	output.Min = layout.Min - parent.Min
	output.Max = output.Min + Length(layout)
}

// CalcRelativePosition expresses layout relative to parent's top-left corner.
func CalcRelativePosition(output *Box, layout, parent Box) {
	CalcRelativeAxisPosition(&output.X, layout.X, parent.X)
	CalcRelativeAxisPosition(&output.Y, layout.Y, parent.Y)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
