package geometry

import "github.com/vango-dev/motion/pkg/values"

// RemovePointDelta is the inverse of ApplyPointDelta.
func RemovePointDelta(point, translate, scale, originPoint, boxScale float64) float64 {
	point -= translate
	point = ScalePoint(point, 1/scale, originPoint)
	if boxScale != 1 {
		point = ScalePoint(point, 1/boxScale, originPoint)
	}
	return point
}

// RemoveAxisDelta undoes a translate/scale applied around the normalized
// origin of originAxis. A percentage translate is resolved against
// sourceAxis first. A nil originAxis or sourceAxis means axis itself; when
// the origin is taken from axis, the pivot is shifted back by translate
// because axis has already moved.
func RemoveAxisDelta(axis *Axis, translate values.Value, scale, origin, boxScale float64, originAxis, sourceAxis *Axis) {
	if translate.IsText() {
		return
	}
	if originAxis == nil {
		originAxis = axis
	}
	if sourceAxis == nil {
		sourceAxis = axis
	}

	t := translate.Number
	if translate.IsPercent() {
		t = Mix(sourceAxis.Min, sourceAxis.Max, t/100) - sourceAxis.Min
	}

	originPoint := Mix(originAxis.Min, originAxis.Max, origin)
	if originAxis == axis {
		originPoint -= t
	}

	axis.Min = RemovePointDelta(axis.Min, t, scale, originPoint, boxScale)
	axis.Max = RemovePointDelta(axis.Max, t, scale, originPoint, boxScale)
}
