package projection

import (
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// Measurement is a full geometric snapshot of a node at one point in time.
type Measurement struct {
	// AnimationID is the tree's animation id when the measurement was taken.
	AnimationID int

	// MeasuredBox is the box as seen in page space.
	MeasuredBox geometry.Box

	// LayoutBox is the box with ancestor scroll and transforms removed.
	LayoutBox geometry.Box

	// TreeScroll is the total scroll offset of layout-scroll ancestors that
	// was removed from LayoutBox.
	TreeScroll geometry.Point

	// LatestValues are the values the element rendered with. Set on
	// snapshots handed over between shared-element members.
	LatestValues values.Values

	// Source is the node that was measured. A different source between
	// snapshot and layout means a shared-element transition.
	Source NodeID

	// Position is the element's position style when measured.
	Position Position
}

// ScrollPhase distinguishes scroll reads taken while snapshotting from
// those taken while measuring.
type ScrollPhase uint8

const (
	PhaseSnapshot ScrollPhase = iota
	PhaseMeasure
)

// ScrollMeasurement is a cached scroll read.
type ScrollMeasurement struct {
	AnimationID int
	Phase       ScrollPhase
	IsRoot      bool
	WasRoot     bool
	Offset      geometry.Point
}

// CalcSnapshotDelta returns the delta that projects layout back onto
// snapshot. Sticky elements never animate and report the identity around
// origin 0; snapshots taken while fixed compare page boxes because fixed
// elements ignore ancestor scroll.
func CalcSnapshotDelta(snapshot, layout *Measurement) geometry.Delta {
	d := geometry.NewDelta()
	if snapshot == nil || layout == nil {
		return d
	}
	if snapshot.Position == PositionSticky || layout.Position == PositionSticky {
		d.X.Origin, d.Y.Origin = 0, 0
		d.X.OriginPoint = layout.LayoutBox.X.Min
		d.Y.OriginPoint = layout.LayoutBox.Y.Min
		return d
	}
	if snapshot.Position == PositionFixed {
		geometry.CalcBoxDelta(&d, layout.MeasuredBox, snapshot.MeasuredBox)
		return d
	}
	geometry.CalcBoxDelta(&d, layout.LayoutBox, snapshot.LayoutBox)
	return d
}
