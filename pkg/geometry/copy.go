package geometry

// CopyAxisInto copies origin into axis.
func CopyAxisInto(axis *Axis, origin Axis) {
	axis.Min = origin.Min
	axis.Max = origin.Max
}

// CopyBoxInto copies origin into box.
func CopyBoxInto(box *Box, origin Box) {
	CopyAxisInto(&box.X, origin.X)
	CopyAxisInto(&box.Y, origin.Y)
}

// CopyAxisDeltaInto copies origin into delta.
func CopyAxisDeltaInto(delta *AxisDelta, origin AxisDelta) {
	delta.Translate = origin.Translate
	delta.Scale = origin.Scale
	delta.Origin = origin.Origin
	delta.OriginPoint = origin.OriginPoint
}
