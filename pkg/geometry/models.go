package geometry

// Point is a 2-D coordinate.
type Point struct {
	X float64
	Y float64
}

// Axis is a 1-D interval. Max >= Min is not enforced; Length is the unit of
// comparison everywhere.
type Axis struct {
	Min float64
	Max float64
}

// Box is an axis-aligned rectangle.
type Box struct {
	X Axis
	Y Axis
}

// AxisDelta moves and scales one axis onto another.
type AxisDelta struct {
	Translate   float64
	Scale       float64
	Origin      float64
	OriginPoint float64
}

// Delta is a full 2-D transform descriptor.
type Delta struct {
	X AxisDelta
	Y AxisDelta
}

// BoundingBox is the edge-based rectangle hosts usually measure.
type BoundingBox struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// AxisName selects one of a Box's axes.
type AxisName uint8

const (
	AxisX AxisName = iota
	AxisY
)

// Axes lists both axes in x, y order.
var Axes = [2]AxisName{AxisX, AxisY}

// NewAxisDelta returns the identity axis delta.
func NewAxisDelta() AxisDelta {
	return AxisDelta{Scale: 1}
}

// NewDelta returns the identity delta.
func NewDelta() Delta {
	return Delta{X: NewAxisDelta(), Y: NewAxisDelta()}
}

// NewBox returns a box from explicit edges.
func NewBox(minX, maxX, minY, maxY float64) Box {
	return Box{X: Axis{Min: minX, Max: maxX}, Y: Axis{Min: minY, Max: maxY}}
}

// Axis returns a pointer to the named axis.
func (b *Box) Axis(name AxisName) *Axis {
	if name == AxisY {
		return &b.Y
	}
	return &b.X
}

// Axis returns a pointer to the named axis delta.
func (d *Delta) Axis(name AxisName) *AxisDelta {
	if name == AxisY {
		return &d.Y
	}
	return &d.X
}

// Component returns the named coordinate.
func (p Point) Component(name AxisName) float64 {
	if name == AxisY {
		return p.Y
	}
	return p.X
}

// EachAxis calls fn for x then y.
func EachAxis(fn func(name AxisName)) {
	for _, name := range Axes {
		fn(name)
	}
}
