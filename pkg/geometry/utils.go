package geometry

import "math"

// IsAxisDeltaZero reports whether d is the identity.
func IsAxisDeltaZero(d AxisDelta) bool {
	return d.Translate == 0 && d.Scale == 1
}

// IsDeltaZero reports whether both axes of d are the identity.
func IsDeltaZero(d Delta) bool {
	return IsAxisDeltaZero(d.X) && IsAxisDeltaZero(d.Y)
}

// AxisEquals compares axes exactly.
func AxisEquals(a, b Axis) bool {
	return a.Min == b.Min && a.Max == b.Max
}

// BoxEquals compares boxes exactly.
func BoxEquals(a, b Box) bool {
	return AxisEquals(a.X, b.X) && AxisEquals(a.Y, b.Y)
}

// AxisEqualsRounded compares axes after rounding to whole pixels.
func AxisEqualsRounded(a, b Axis) bool {
	return roundHalfUp(a.Min) == roundHalfUp(b.Min) && roundHalfUp(a.Max) == roundHalfUp(b.Max)
}

// BoxEqualsRounded compares boxes after rounding to whole pixels.
func BoxEqualsRounded(a, b Box) bool {
	return AxisEqualsRounded(a.X, b.X) && AxisEqualsRounded(a.Y, b.Y)
}

// AspectRatio returns width / height.
func AspectRatio(b Box) float64 {
	return Length(b.X) / Length(b.Y)
}

// AxisDeltaEquals compares the parts of two deltas that affect rendering.
func AxisDeltaEquals(a, b AxisDelta) bool {
	return a.Translate == b.Translate && a.Scale == b.Scale && a.OriginPoint == b.OriginPoint
}

// RoundAxis rounds both ends of axis to device pixels.
func RoundAxis(a *Axis) {
	a.Min = roundHalfUp(a.Min)
	a.Max = roundHalfUp(a.Max)
}

// RoundBox rounds every edge of b to device pixels.
func RoundBox(b *Box) {
	RoundAxis(&b.X)
	RoundAxis(&b.Y)
}

// MixAxisDelta interpolates delta towards identity. Progress 0 yields delta,
// progress 1 yields the identity with delta's origin.
func MixAxisDelta(output *AxisDelta, delta AxisDelta, progress float64) {
	output.Translate = Mix(delta.Translate, 0, progress)
	output.Scale = Mix(delta.Scale, 1, progress)
	output.Origin = delta.Origin
	output.OriginPoint = delta.OriginPoint
}

// MixAxis interpolates both ends of an axis.
func MixAxis(output *Axis, from, to Axis, progress float64) {
	output.Min = Mix(from.Min, to.Min, progress)
	output.Max = Mix(from.Max, to.Max, progress)
}

// MixBox interpolates every edge of a box.
func MixBox(output *Box, from, to Box, progress float64) {
	MixAxis(&output.X, from.X, to.X, progress)
	MixAxis(&output.Y, from.Y, to.Y, progress)
}

// roundHalfUp rounds like Math.round in browsers: halves go towards +Inf.
func roundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}
