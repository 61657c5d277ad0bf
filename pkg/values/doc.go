// Package values holds the typed style and transform values that flow between
// a host visual element and the projection engine.
//
// A Value is a number with an optional unit (px, %, deg) or an opaque text
// value such as a box-shadow declaration. Values is the keyed bag a visual
// element exposes as its latest values:
//
//	vals := values.Values{
//	    "x":            values.Percent(50),
//	    "scale":        values.Num(1.2),
//	    "rotate":       values.Deg(45),
//	    "borderRadius": values.Px(8),
//	}
//
//	x, _ := vals.Number("x") // 50
package values
