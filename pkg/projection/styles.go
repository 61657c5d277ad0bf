package projection

import (
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/values"
)

// Styles are style declarations keyed by camelCase property name. An
// empty value resets the property to the element's own style.
type Styles map[string]string

// ProjectionStyles returns the style overrides that render the node at its
// projected position. It returns nil when the node has nothing to render
// through styles.
func (n *Node) ProjectionStyles() Styles {
	t := n.tree
	if n.instance == nil || (t.host != nil && t.host.IsSVG(n.instance)) {
		return nil
	}
	if !n.isVisible {
		return Styles{"visibility": "hidden"}
	}

	var props Props
	if ve := n.options.VisualElement; ve != nil {
		props = ve.Props()
	}
	styles := Styles{"visibility": ""}

	if n.needsReset {
		n.needsReset = false
		styles["opacity"] = ""
		styles["pointerEvents"] = props.PointerEvents
		if props.TransformTemplate != nil {
			styles["transform"] = props.TransformTemplate(n.latestValues, "")
		} else {
			styles["transform"] = TransformNone
		}
		return styles
	}

	lead := n.Lead()
	if n.projectionDelta == nil || n.layout == nil || lead.target == nil {
		empty := Styles{}
		if n.options.LayoutID != "" {
			empty["opacity"] = values.FormatNumber(n.latestValues.NumberOr("opacity", 1))
			empty["pointerEvents"] = props.PointerEvents
		}
		if n.hasProjected && !hasTransform(n.latestValues) {
			if props.TransformTemplate != nil {
				empty["transform"] = props.TransformTemplate(values.Values{}, "")
			} else {
				empty["transform"] = TransformNone
			}
			n.hasProjected = false
		}
		return empty
	}

	valuesToRender := lead.latestValues
	if lead.animationValues != nil {
		valuesToRender = lead.animationValues
	}
	n.applyTransformsToTarget()

	transform := BuildProjectionTransform(*n.projectionDeltaWithTransform, n.treeScale, valuesToRender)
	if props.TransformTemplate != nil {
		transform = props.TransformTemplate(valuesToRender, transform)
	}
	styles["transform"] = transform
	n.projectionTransform = transform

	styles["transformOrigin"] = values.FormatNumber(n.projectionDelta.X.Origin*100) + "% " +
		values.FormatNumber(n.projectionDelta.Y.Origin*100) + "% 0"

	switch {
	case lead.animationValues != nil && lead == n:
		if v, ok := valuesToRender.Number("opacity"); ok {
			styles["opacity"] = values.FormatNumber(v)
		} else {
			styles["opacity"] = values.FormatNumber(n.latestValues.NumberOr("opacity", 1))
		}
	case lead.animationValues != nil && n.preserveOpacity:
		if v, ok := n.latestValues.Number("opacity"); ok {
			styles["opacity"] = values.FormatNumber(v)
		}
	case lead.animationValues != nil:
		if v, ok := valuesToRender.Number("opacityExit"); ok {
			styles["opacity"] = values.FormatNumber(v)
		}
	case lead == n:
		styles["opacity"] = ""
		if v, ok := valuesToRender.Number("opacity"); ok {
			styles["opacity"] = values.FormatNumber(v)
		}
	default:
		styles["opacity"] = values.FormatNumber(valuesToRender.NumberOr("opacityExit", 0))
	}

	for _, c := range scaleCorrectors() {
		v, ok := valuesToRender.Get(c.Key)
		if !ok {
			continue
		}
		corrected := v.String()
		if transform != TransformNone {
			corrected = c.Correct(v, lead)
		}
		if len(c.ApplyTo) == 0 {
			styles[c.Key] = corrected
			continue
		}
		for _, key := range c.ApplyTo {
			styles[key] = corrected
		}
	}

	if n.options.LayoutID != "" {
		if lead == n {
			styles["pointerEvents"] = props.PointerEvents
		} else {
			styles["pointerEvents"] = "none"
		}
	}
	return styles
}

// ProjectionTransform returns the transform produced by the last
// ProjectionStyles call.
func (n *Node) ProjectionTransform() string {
	if n.projectionTransform == "" {
		return TransformNone
	}
	return n.projectionTransform
}

// applyTransformsToTarget projects the lead's target through the lead's
// own transform values so the node renders them on top of the layout
// animation.
func (n *Node) applyTransformsToTarget() {
	lead := n.Lead()
	if lead.targetWithTransforms == nil || lead.target == nil || lead.layout == nil || n.projectionDeltaWithTransform == nil {
		return
	}
	target := *lead.target
	if n != lead && n.layout != nil &&
		shouldAnimatePositionOnly(n.options.AnimationType, n.layout.LayoutBox, lead.layout.LayoutBox) {
		target.X.Max = target.X.Min + geometry.Length(n.layout.LayoutBox.X)
		target.Y.Max = target.Y.Min + geometry.Length(n.layout.LayoutBox.Y)
	}

	*lead.targetWithTransforms = target
	transformBox(lead.targetWithTransforms, lead.latestValues)
	calcBoxDeltaWithValues(n.projectionDeltaWithTransform, n.layoutCorrected, *lead.targetWithTransforms, lead.latestValues)
}
