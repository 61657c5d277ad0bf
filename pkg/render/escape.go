package render

import "strings"

var attrReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"\n", "&#10;",
	"\r", "&#13;",
	"\t", "&#9;",
)

// escapeAttr escapes s for a double-quoted attribute value.
func escapeAttr(s string) string {
	return attrReplacer.Replace(s)
}
