package geometry

// Tree-scale products this close to 1 are snapped to exactly 1.
const (
	treeScaleSnapMin = 0.999999999999
	treeScaleSnapMax = 1.0000000000001
)

// ScalePoint scales point around originPoint.
func ScalePoint(point, scale, originPoint float64) float64 {
	return originPoint + scale*(point-originPoint)
}

// ApplyPointDelta optionally scales point by boxScale, then applies scale
// and translate, all around originPoint. A boxScale of 1 is a no-op.
func ApplyPointDelta(point, translate, scale, originPoint, boxScale float64) float64 {
	if boxScale != 1 {
		point = ScalePoint(point, boxScale, originPoint)
	}
	return ScalePoint(point, scale, originPoint) + translate
}

// ApplyAxisDelta moves both ends of axis with ApplyPointDelta.
func ApplyAxisDelta(axis *Axis, translate, scale, originPoint, boxScale float64) {
	axis.Min = ApplyPointDelta(axis.Min, translate, scale, originPoint, boxScale)
	axis.Max = ApplyPointDelta(axis.Max, translate, scale, originPoint, boxScale)
}

// ApplyBoxDelta applies a delta to both axes of box.
func ApplyBoxDelta(box *Box, delta Delta) {
	ApplyAxisDelta(&box.X, delta.X.Translate, delta.X.Scale, delta.X.OriginPoint, 1)
	ApplyAxisDelta(&box.Y, delta.Y.Translate, delta.Y.Scale, delta.Y.OriginPoint, 1)
}

// TranslateAxis shifts axis by distance.
func TranslateAxis(axis *Axis, distance float64) {
	axis.Min += distance
	axis.Max += distance
}

// TranslateBox shifts box by p.
func TranslateBox(box *Box, p Point) {
	TranslateAxis(&box.X, p.X)
	TranslateAxis(&box.Y, p.Y)
}

// TransformAxis applies a translate/scale pair around the normalized origin
// of axis, after an optional uniform boxScale.
func TransformAxis(axis *Axis, translate, scale, boxScale, origin float64) {
	originPoint := Mix(axis.Min, axis.Max, origin)
	ApplyAxisDelta(axis, translate, scale, originPoint, boxScale)
}

// SnapTreeScale rounds accumulated scale products that drifted from 1 by
// floating-point error. Zero and non-finite scales, which an ancestor with
// a zero-length snapshot produces, become 1.
func SnapTreeScale(scale float64) float64 {
	if scale < treeScaleSnapMax && scale > treeScaleSnapMin {
		return 1
	}
	if scale == 0 || !isFinite(scale) {
		return 1
	}
	return scale
}
