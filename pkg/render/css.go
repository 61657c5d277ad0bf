package render

import (
	"sort"
	"strings"

	"github.com/vango-dev/motion/pkg/projection"
)

var vendorPrefixes = []string{"Webkit", "Moz", "ms"}

// Property converts a camelCase style key into its CSS property name:
// borderTopLeftRadius becomes border-top-left-radius, WebkitTransform
// becomes -webkit-transform. Custom properties (--x) pass through.
func Property(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, prefix := range vendorPrefixes {
		if strings.HasPrefix(key, prefix) && len(key) > len(prefix) && isUpper(key[len(prefix)]) {
			b.WriteByte('-')
			b.WriteString(strings.ToLower(prefix))
			key = key[len(prefix):]
			break
		}
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		if isUpper(c) {
			b.WriteByte('-')
			b.WriteByte(c + ('a' - 'A'))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}

// Declaration is one CSS property and value.
type Declaration struct {
	Property string
	Value    string
}

// Declarations returns the non-empty entries of styles sorted by key.
func Declarations(styles projection.Styles) []Declaration {
	keys := sortedKeys(styles)
	out := make([]Declaration, 0, len(keys))
	for _, key := range keys {
		if styles[key] == "" {
			continue
		}
		out = append(out, Declaration{Property: Property(key), Value: styles[key]})
	}
	return out
}

// InlineStyle renders styles as the value of a style attribute.
func InlineStyle(styles projection.Styles) string {
	decls := Declarations(styles)
	parts := make([]string, len(decls))
	for i, d := range decls {
		parts[i] = d.Property + ": " + d.Value
	}
	return strings.Join(parts, "; ")
}

func sortedKeys(styles projection.Styles) []string {
	keys := make([]string, 0, len(styles))
	for key := range styles {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
