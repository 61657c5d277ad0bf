// Package geometry implements the box and delta math behind layout projection.
//
// An Axis is a 1-D interval and a Box is a pair of axes in some coordinate
// space (page, parent-relative or viewport). An AxisDelta describes how to
// move and scale one axis onto another around a pivot:
//
//	origin       normalized pivot inside the source axis (0-1)
//	originPoint  the pivot as an absolute coordinate
//	scale        multiplicative correction around originPoint
//	translate    additive correction applied after scaling
//
// Deltas that are within ScalePrecision of 1 or TranslatePrecision of 0 are
// snapped to identity so an animation settling on its target doesn't keep
// producing sub-pixel renders.
//
// All functions mutate their first argument in place. Callers that need to
// keep an input intact copy it first with CopyBoxInto.
package geometry
