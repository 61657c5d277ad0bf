package projection

import (
	"math"

	"github.com/vango-dev/motion/pkg/animation"
	"github.com/vango-dev/motion/pkg/values"
)

var (
	easeCrossfadeIn  = animation.Compress(0, 0.5, animation.CircOut)
	easeCrossfadeOut = animation.Compress(0.5, 0.95, animation.Linear)
)

var borderRadiusKeys = []string{
	"borderTopLeftRadius",
	"borderTopRightRadius",
	"borderBottomLeftRadius",
	"borderBottomRightRadius",
}

// mixValues blends the values a shared-element lead renders with while it
// animates from the follower's snapshot. When crossfading, the lead fades
// in over the first half and opacityExit fades the follower out.
func mixValues(target, follow, lead values.Values, progress float64, crossfade, isOnlyMember bool) {
	if crossfade {
		target["opacity"] = values.Num(animation.Mix(0, lead.NumberOr("opacity", 1), easeCrossfadeIn(progress)))
		target["opacityExit"] = values.Num(animation.Mix(follow.NumberOr("opacity", 1), 0, easeCrossfadeOut(progress)))
	} else if isOnlyMember {
		target["opacity"] = values.Num(animation.Mix(follow.NumberOr("opacity", 1), lead.NumberOr("opacity", 1), progress))
	}

	for _, key := range borderRadiusKeys {
		followRadius, hasFollow := radius(follow, key)
		leadRadius, hasLead := radius(lead, key)
		if !hasFollow && !hasLead {
			continue
		}
		if !hasFollow {
			followRadius = values.Num(0)
		}
		if !hasLead {
			leadRadius = values.Num(0)
		}

		canMix := followRadius.IsZero() || leadRadius.IsZero() || followRadius.IsPx() == leadRadius.IsPx()
		if !canMix || followRadius.IsText() || leadRadius.IsText() {
			target[key] = leadRadius
			continue
		}
		mixed := math.Max(animation.Mix(followRadius.Number, leadRadius.Number, progress), 0)
		if leadRadius.IsPercent() || followRadius.IsPercent() {
			target[key] = values.Percent(mixed)
		} else {
			target[key] = values.Px(mixed)
		}
	}

	if follow.NonZero("rotate") || lead.NonZero("rotate") {
		target["rotate"] = values.Num(animation.Mix(follow.NumberOr("rotate", 0), lead.NumberOr("rotate", 0), progress))
	}
}

// radius returns the corner radius, falling back to the shorthand.
func radius(vs values.Values, key string) (values.Value, bool) {
	if v, ok := vs.Get(key); ok {
		return v, true
	}
	return vs.Get("borderRadius")
}
