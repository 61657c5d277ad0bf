package geometry

// BoxFromBoundingBox converts edge-based measurements into a Box.
func BoxFromBoundingBox(b BoundingBox) Box {
	return Box{
		X: Axis{Min: b.Left, Max: b.Right},
		Y: Axis{Min: b.Top, Max: b.Bottom},
	}
}

// BoundingBoxFromBox converts a Box into edges.
func BoundingBoxFromBox(b Box) BoundingBox {
	return BoundingBox{Top: b.Y.Min, Right: b.X.Max, Bottom: b.Y.Max, Left: b.X.Min}
}

// TransformBoxPoints maps the top-left and bottom-right corners of b through
// transformPoint, which hosts use to convert between coordinate spaces.
func TransformBoxPoints(b BoundingBox, transformPoint func(Point) Point) BoundingBox {
	if transformPoint == nil {
		return b
	}
	topLeft := transformPoint(Point{X: b.Left, Y: b.Top})
	bottomRight := transformPoint(Point{X: b.Right, Y: b.Bottom})
	return BoundingBox{Top: topLeft.Y, Left: topLeft.X, Bottom: bottomRight.Y, Right: bottomRight.X}
}
