package values

import (
	"strconv"
	"strings"
)

// Unit identifies how a Value's number is interpreted.
type Unit uint8

const (
	UnitNone    Unit = iota // Plain number (scale, opacity)
	UnitPx                  // Pixels
	UnitPercent             // Percentage of the owning axis or box
	UnitDeg                 // Degrees
	UnitText                // Opaque text, see Value.Text
)

// String returns the CSS suffix for the unit.
func (u Unit) String() string {
	switch u {
	case UnitPx:
		return "px"
	case UnitPercent:
		return "%"
	case UnitDeg:
		return "deg"
	default:
		return ""
	}
}

// Value is a single style or transform value.
type Value struct {
	Number float64
	Unit   Unit
	Text   string
}

// Num returns a unitless value.
func Num(n float64) Value { return Value{Number: n} }

// Px returns a pixel value.
func Px(n float64) Value { return Value{Number: n, Unit: UnitPx} }

// Percent returns a percentage value.
func Percent(n float64) Value { return Value{Number: n, Unit: UnitPercent} }

// Deg returns an angle in degrees.
func Deg(n float64) Value { return Value{Number: n, Unit: UnitDeg} }

// Text returns an opaque text value.
func Text(s string) Value { return Value{Unit: UnitText, Text: s} }

// IsText reports whether the value carries text rather than a number.
func (v Value) IsText() bool { return v.Unit == UnitText }

// IsPercent reports whether the value is a percentage.
func (v Value) IsPercent() bool { return v.Unit == UnitPercent }

// IsPx reports whether the value is a pixel length. Unitless numbers count
// as pixels, matching how hosts interpret bare lengths.
func (v Value) IsPx() bool { return v.Unit == UnitPx || v.Unit == UnitNone }

// IsZero reports whether the value is numerically zero. Text values are
// zero only when empty.
func (v Value) IsZero() bool {
	if v.Unit == UnitText {
		return v.Text == ""
	}
	return v.Number == 0
}

// String renders the value the way a style declaration expects it.
func (v Value) String() string {
	if v.Unit == UnitText {
		return v.Text
	}
	return FormatNumber(v.Number) + v.Unit.String()
}

// FormatNumber formats a float without trailing zeros.
func FormatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Parse reads a declaration value such as "12px", "50%", "45deg" or "0.5".
// Anything that doesn't parse as a number becomes a text value.
func Parse(s string) Value {
	s = strings.TrimSpace(s)
	unit := UnitNone
	num := s
	switch {
	case strings.HasSuffix(s, "px"):
		unit, num = UnitPx, strings.TrimSuffix(s, "px")
	case strings.HasSuffix(s, "%"):
		unit, num = UnitPercent, strings.TrimSuffix(s, "%")
	case strings.HasSuffix(s, "deg"):
		unit, num = UnitDeg, strings.TrimSuffix(s, "deg")
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Text(s)
	}
	return Value{Number: n, Unit: unit}
}

// Values maps a value name (x, scaleX, opacity, borderTopLeftRadius, ...)
// to its latest value.
type Values map[string]Value

// Get returns the value for key.
func (vs Values) Get(key string) (Value, bool) {
	if vs == nil {
		return Value{}, false
	}
	v, ok := vs[key]
	return v, ok
}

// Number returns the numeric part of key. Text values are not numbers.
func (vs Values) Number(key string) (float64, bool) {
	v, ok := vs.Get(key)
	if !ok || v.IsText() {
		return 0, false
	}
	return v.Number, true
}

// NumberOr returns the numeric part of key or def when absent.
func (vs Values) NumberOr(key string, def float64) float64 {
	if n, ok := vs.Number(key); ok {
		return n
	}
	return def
}

// NonZero reports whether key is present and not zero.
func (vs Values) NonZero(key string) bool {
	v, ok := vs.Get(key)
	return ok && !v.IsZero()
}

// Clone returns a shallow copy.
func (vs Values) Clone() Values {
	out := make(Values, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}
