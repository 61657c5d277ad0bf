package projection

import (
	"strings"

	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// TransformNone is the transform of an element at identity.
const TransformNone = "none"

// BuildProjectionTransform renders the CSS transform that moves an element
// from its corrected layout onto its target. Translation is divided by the
// tree scale so ancestors' scale doesn't amplify it; the element scale is
// multiplied by it for the same reason. A zero or non-finite tree scale
// component is treated as 1. latest may be nil.
func BuildProjectionTransform(delta geometry.Delta, treeScale geometry.Point, latest values.Values) string {
	var parts []string

	treeScale.X = geometry.SnapTreeScale(treeScale.X)
	treeScale.Y = geometry.SnapTreeScale(treeScale.Y)

	xTranslate := delta.X.Translate / treeScale.X
	yTranslate := delta.Y.Translate / treeScale.Y
	zTranslate := latest.NumberOr("z", 0)
	if xTranslate != 0 || yTranslate != 0 || zTranslate != 0 {
		z := "0"
		if zTranslate != 0 {
			z = px(zTranslate)
		}
		parts = append(parts, "translate3d("+px(xTranslate)+", "+px(yTranslate)+", "+z+")")
	}

	if treeScale.X != 1 || treeScale.Y != 1 {
		parts = append(parts, "scale("+num(1/treeScale.X)+", "+num(1/treeScale.Y)+")")
	}

	if latest != nil {
		if p := latest.NumberOr("transformPerspective", 0); p != 0 {
			parts = append([]string{"perspective(" + px(p) + ")"}, parts...)
		}
		for _, key := range []string{"rotate", "rotateX", "rotateY", "skewX", "skewY"} {
			if v := latest.NumberOr(key, 0); v != 0 {
				parts = append(parts, key+"("+num(v)+"deg)")
			}
		}
	}

	elementScaleX := delta.X.Scale * treeScale.X
	elementScaleY := delta.Y.Scale * treeScale.Y
	if elementScaleX != 1 || elementScaleY != 1 {
		parts = append(parts, "scale("+num(elementScaleX)+", "+num(elementScaleY)+")")
	}

	if len(parts) == 0 {
		return TransformNone
	}
	return strings.Join(parts, " ")
}

func num(f float64) string { return values.FormatNumber(f) }

func px(f float64) string { return values.FormatNumber(f) + "px" }

// shouldAnimatePositionOnly reports whether a size change should jump
// while the position animates.
func shouldAnimatePositionOnly(t AnimationType, snapshot, layout geometry.Box) bool {
	return t == AnimatePosition ||
		(t == AnimatePreserveAspect && !geometry.IsNear(geometry.AspectRatio(snapshot), geometry.AspectRatio(layout), 0.2))
}

func isIdentityScale(vs values.Values, key string) bool {
	v, ok := vs.Get(key)
	return !ok || v.IsText() || v.Number == 1
}

func hasScale(vs values.Values) bool {
	return !isIdentityScale(vs, "scale") || !isIdentityScale(vs, "scaleX") || !isIdentityScale(vs, "scaleY")
}

func is2DTranslate(vs values.Values, key string) bool {
	v, ok := vs.Get(key)
	return ok && !v.IsText() && v.Number != 0
}

func has2DTranslate(vs values.Values) bool {
	return is2DTranslate(vs, "x") || is2DTranslate(vs, "y")
}

// hasTransform reports whether vs moves the element away from its
// layout box.
func hasTransform(vs values.Values) bool {
	if hasScale(vs) || has2DTranslate(vs) {
		return true
	}
	for _, key := range []string{"z", "rotate", "rotateX", "rotateY", "skewX", "skewY"} {
		if vs.NonZero(key) {
			return true
		}
	}
	return false
}

// axisTranslate resolves a translate value to pixels. Percentages are
// relative to the element's own size.
func axisTranslate(vs values.Values, key string, axis geometry.Axis) float64 {
	v, ok := vs.Get(key)
	if !ok || v.IsText() {
		return 0
	}
	if v.IsPercent() {
		return geometry.Length(axis) * v.Number / 100
	}
	return v.Number
}

// transformBox applies the translate, scale and origin values in vs to
// box.
func transformBox(box *geometry.Box, vs values.Values) {
	boxScale := vs.NumberOr("scale", 1)
	geometry.TransformAxis(&box.X, axisTranslate(vs, "x", box.X), vs.NumberOr("scaleX", 1), boxScale, vs.NumberOr("originX", geometry.DefaultOrigin))
	geometry.TransformAxis(&box.Y, axisTranslate(vs, "y", box.Y), vs.NumberOr("scaleY", 1), boxScale, vs.NumberOr("originY", geometry.DefaultOrigin))
}

// removeBoxTransforms is the inverse of transformBox. originBox supplies
// the pivot and sourceBox resolves percentage translates; nil means box.
func removeBoxTransforms(box *geometry.Box, vs values.Values, originBox, sourceBox *geometry.Box) {
	var originX, originY, sourceX, sourceY *geometry.Axis
	if originBox != nil {
		originX, originY = &originBox.X, &originBox.Y
	}
	if sourceBox != nil {
		sourceX, sourceY = &sourceBox.X, &sourceBox.Y
	}
	boxScale := vs.NumberOr("scale", 1)
	geometry.RemoveAxisDelta(&box.X, translateValue(vs, "x"), vs.NumberOr("scaleX", 1), vs.NumberOr("originX", geometry.DefaultOrigin), boxScale, originX, sourceX)
	geometry.RemoveAxisDelta(&box.Y, translateValue(vs, "y"), vs.NumberOr("scaleY", 1), vs.NumberOr("originY", geometry.DefaultOrigin), boxScale, originY, sourceY)
}

func translateValue(vs values.Values, key string) values.Value {
	if v, ok := vs.Get(key); ok {
		return v
	}
	return values.Px(0)
}

// calcBoxDeltaWithValues computes the delta from source to target around
// the origin stored in vs.
func calcBoxDeltaWithValues(delta *geometry.Delta, source, target geometry.Box, vs values.Values) {
	geometry.CalcBoxDeltaWithOrigin(delta, source, target,
		vs.NumberOr("originX", geometry.DefaultOrigin),
		vs.NumberOr("originY", geometry.DefaultOrigin))
}
