package projection

import (
	"testing"

	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

func delta(tx, ty, sx, sy float64) geometry.Delta {
	d := geometry.NewDelta()
	d.X.Translate, d.Y.Translate = tx, ty
	d.X.Scale, d.Y.Scale = sx, sy
	return d
}

func TestBuildProjectionTransform(t *testing.T) {
	tests := []struct {
		name      string
		delta     geometry.Delta
		treeScale geometry.Point
		latest    values.Values
		want      string
	}{
		{
			name:      "identity",
			delta:     geometry.NewDelta(),
			treeScale: geometry.Point{X: 1, Y: 1},
			want:      TransformNone,
		},
		{
			name:      "translate_and_scale",
			delta:     delta(100, 300, 2, 4),
			treeScale: geometry.Point{X: 1, Y: 1},
			want:      "translate3d(100px, 300px, 0) scale(2, 4)",
		},
		{
			name:      "tree_scale",
			delta:     delta(100, 300, 2, 4),
			treeScale: geometry.Point{X: 2, Y: 0.5},
			want:      "translate3d(50px, 600px, 0) scale(0.5, 2) scale(4, 2)",
		},
		{
			name:      "tree_scale_only",
			delta:     geometry.NewDelta(),
			treeScale: geometry.Point{X: 2, Y: 0.5},
			want:      "scale(0.5, 2) scale(2, 0.5)",
		},
		{
			name:      "zero_tree_scale",
			delta:     delta(100, 0, 1, 1),
			treeScale: geometry.Point{X: 0, Y: 1},
			want:      "translate3d(100px, 0px, 0)",
		},
		{
			name:      "rotate_between_scales",
			delta:     delta(100, 300, 2, 4),
			treeScale: geometry.Point{X: 1, Y: 1},
			latest:    values.Values{"rotate": values.Num(45)},
			want:      "translate3d(100px, 300px, 0) rotate(45deg) scale(2, 4)",
		},
		{
			name:      "perspective_first",
			delta:     delta(10, 0, 1, 1),
			treeScale: geometry.Point{X: 1, Y: 1},
			latest:    values.Values{"transformPerspective": values.Num(500), "skewX": values.Num(10)},
			want:      "perspective(500px) translate3d(10px, 0px, 0) skewX(10deg)",
		},
		{
			name:      "z_only",
			delta:     geometry.NewDelta(),
			treeScale: geometry.Point{X: 1, Y: 1},
			latest:    values.Values{"z": values.Num(20)},
			want:      "translate3d(0px, 0px, 20px)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildProjectionTransform(tt.delta, tt.treeScale, tt.latest)
			if got != tt.want {
				t.Errorf("BuildProjectionTransform() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestShouldAnimatePositionOnly(t *testing.T) {
	square := geometry.NewBox(0, 100, 0, 100)
	wide := geometry.NewBox(0, 200, 0, 100)
	almostSquare := geometry.NewBox(0, 110, 0, 100)

	tests := []struct {
		name     string
		typ      AnimationType
		snapshot geometry.Box
		layout   geometry.Box
		want     bool
	}{
		{"both", AnimateBoth, square, wide, false},
		{"position", AnimatePosition, square, square, true},
		{"size", AnimateSize, square, wide, false},
		{"preserve_aspect_changed", AnimatePreserveAspect, square, wide, true},
		{"preserve_aspect_kept", AnimatePreserveAspect, square, almostSquare, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldAnimatePositionOnly(tt.typ, tt.snapshot, tt.layout); got != tt.want {
				t.Errorf("shouldAnimatePositionOnly() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasTransform(t *testing.T) {
	tests := []struct {
		name string
		vals values.Values
		want bool
	}{
		{"empty", values.Values{}, false},
		{"identity_scale", values.Values{"scale": values.Num(1), "x": values.Px(0)}, false},
		{"scale", values.Values{"scaleX": values.Num(2)}, true},
		{"translate", values.Values{"y": values.Px(4)}, true},
		{"zero_percent", values.Values{"x": values.Percent(0)}, false},
		{"rotate", values.Values{"rotate": values.Deg(10)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := hasTransform(tt.vals); got != tt.want {
				t.Errorf("hasTransform() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransformBoxRoundTrip(t *testing.T) {
	vals := values.Values{
		"x":       values.Px(30),
		"y":       values.Px(-10),
		"scaleX":  values.Num(2),
		"scale":   values.Num(1.5),
		"originY": values.Num(0),
	}
	orig := geometry.NewBox(10, 110, 20, 70)
	box := orig
	transformBox(&box, vals)
	if geometry.BoxEquals(box, orig) {
		t.Fatal("transformBox() did not move the box")
	}
	removeBoxTransforms(&box, vals, nil, nil)
	if !near(box.X.Min, orig.X.Min) || !near(box.X.Max, orig.X.Max) ||
		!near(box.Y.Min, orig.Y.Min) || !near(box.Y.Max, orig.Y.Max) {
		t.Errorf("round trip = %+v, want %+v", box, orig)
	}
}

func TestTransformBoxPercentTranslate(t *testing.T) {
	box := geometry.NewBox(0, 200, 0, 100)
	transformBox(&box, values.Values{"x": values.Percent(50)})
	if box.X.Min != 100 || box.X.Max != 300 {
		t.Errorf("x = %+v, want {100 300}", box.X)
	}
}

func TestParseAnimationType(t *testing.T) {
	for _, typ := range []AnimationType{AnimateBoth, AnimatePosition, AnimateSize, AnimatePreserveAspect} {
		if got := ParseAnimationType(typ.String()); got != typ {
			t.Errorf("ParseAnimationType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
}
