package projection

import (
	"strings"
	"sync"

	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// ScaleCorrector rewrites a value so it looks unscaled on an element that
// is being scaled by its projection.
type ScaleCorrector struct {
	// Key is the value the corrector reads.
	Key string

	// Correct returns the corrected declaration. lead is the node whose
	// target and projection drive the scale.
	Correct func(v values.Value, lead *Node) string

	// ApplyTo lists the style properties that receive the result. Empty
	// means Key itself.
	ApplyTo []string
}

var correctors = struct {
	sync.RWMutex
	list []ScaleCorrector
}{list: defaultScaleCorrectors()}

// AddScaleCorrector registers c, replacing any corrector for the same key.
func AddScaleCorrector(c ScaleCorrector) {
	correctors.Lock()
	defer correctors.Unlock()
	for i, existing := range correctors.list {
		if existing.Key == c.Key {
			correctors.list[i] = c
			return
		}
	}
	correctors.list = append(correctors.list, c)
}

// scaleCorrectors returns a snapshot of the registry that is safe to range
// over while AddScaleCorrector runs.
func scaleCorrectors() []ScaleCorrector {
	correctors.RLock()
	defer correctors.RUnlock()
	return append([]ScaleCorrector(nil), correctors.list...)
}

func defaultScaleCorrectors() []ScaleCorrector {
	list := []ScaleCorrector{{
		Key:     "borderRadius",
		Correct: correctBorderRadius,
		ApplyTo: borderRadiusKeys,
	}}
	for _, key := range borderRadiusKeys {
		list = append(list, ScaleCorrector{Key: key, Correct: correctBorderRadius})
	}
	return append(list, ScaleCorrector{Key: "boxShadow", Correct: correctBoxShadow})
}

func pixelsToPercent(pixels float64, axis geometry.Axis) float64 {
	if axis.Max == axis.Min {
		return 0
	}
	return pixels / (axis.Max - axis.Min) * 100
}

// correctBorderRadius converts a pixel radius into percentages of the
// target box, which scale with the element and so cancel out.
func correctBorderRadius(v values.Value, lead *Node) string {
	if lead.target == nil || !v.IsPx() {
		return v.String()
	}
	x := pixelsToPercent(v.Number, lead.target.X)
	y := pixelsToPercent(v.Number, lead.target.Y)
	return values.FormatNumber(x) + "% " + values.FormatNumber(y) + "%"
}

// correctBoxShadow divides a single shadow's offsets by the axis scale and
// its blur and spread by the average scale. Lists of shadows are left
// alone.
func correctBoxShadow(v values.Value, lead *Node) string {
	original := v.String()
	if lead.projectionDelta == nil {
		return original
	}
	tokens := splitTopLevel(original)
	if tokens == nil {
		return original
	}

	var numeric []int
	for i, tok := range tokens {
		if p := values.Parse(tok); !p.IsText() && p.IsPx() {
			numeric = append(numeric, i)
		}
	}
	if len(numeric) < 2 || len(numeric) > 4 {
		return original
	}

	xScale := lead.projectionDelta.X.Scale * lead.treeScale.X
	yScale := lead.projectionDelta.Y.Scale * lead.treeScale.Y
	averageScale := animation.Mix(xScale, yScale, 0.5)
	scales := []float64{xScale, yScale, averageScale, averageScale}

	for j, i := range numeric {
		p := values.Parse(tokens[i])
		tokens[i] = values.Px(p.Number / scales[j]).String()
	}
	return strings.Join(tokens, " ")
}

// splitTopLevel splits a declaration at whitespace outside parentheses.
// It returns nil for comma-separated lists.
func splitTopLevel(s string) []string {
	var tokens []string
	depth := 0
	start := -1
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			return nil
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if start >= 0 {
				tokens = append(tokens, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, s[start:])
	}
	return tokens
}
