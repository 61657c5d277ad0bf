package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"strings"
)

const (
	ansiReset = "\033[0m"
	ansiRed   = "\033[31m"
	ansiBlue  = "\033[34m"
	ansiCyan  = "\033[36m"
	ansiGray  = "\033[90m"
	ansiBold  = "\033[1m"
)

// wrapWidth is the column at which details are wrapped.
const wrapWidth = 70

// painter applies ANSI styles when enabled.
type painter bool

func (p painter) paint(style, text string) string {
	if !p {
		return text
	}
	return style + text + ansiReset
}

// Format renders the error for a terminal, with ANSI colors.
func (e *MotionError) Format() string {
	return e.render(painter(true))
}

// FormatPlain renders the error like Format but without colors.
func (e *MotionError) FormatPlain() string {
	return e.render(painter(false))
}

func (e *MotionError) render(p painter) string {
	var b strings.Builder

	b.WriteString("\n")
	head := "ERROR: "
	if e.Code != "" {
		head = "ERROR " + e.Code + ": "
	}
	b.WriteString(p.paint(ansiRed+ansiBold, head))
	b.WriteString(e.Message)
	b.WriteString("\n\n")

	for _, line := range wrapText(e.detail(), wrapWidth) {
		b.WriteString("  " + line + "\n")
	}
	if e.detail() != "" {
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		b.WriteString("  " + p.paint(ansiCyan, "Hint: ") + e.Suggestion + "\n\n")
	}
	if e.Wrapped != nil {
		b.WriteString("  " + p.paint(ansiGray, "Cause: ") + e.Wrapped.Error() + "\n\n")
	}
	if e.DocURL != "" {
		b.WriteString("  " + p.paint(ansiGray, "Learn more: ") + p.paint(ansiBlue, e.DocURL) + "\n")
	}
	return b.String()
}

// detail returns the error's detail or the registered explanation.
func (e *MotionError) detail() string {
	if e.Detail != "" {
		return e.Detail
	}
	if t, ok := registry[e.Code]; ok {
		return t.Detail
	}
	return ""
}

// FormatCompact returns "CODE: message" on a single line.
func (e *MotionError) FormatCompact() string {
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// FormatJSON returns the error as a JSON object.
func (e *MotionError) FormatJSON() string {
	data, _ := json.Marshal(struct {
		Code       string   `json:"code,omitempty"`
		Category   Category `json:"category"`
		Message    string   `json:"message"`
		Detail     string   `json:"detail,omitempty"`
		Suggestion string   `json:"suggestion,omitempty"`
		DocURL     string   `json:"docUrl,omitempty"`
	}{e.Code, e.Category, e.Message, e.Detail, e.Suggestion, e.DocURL})
	return string(data)
}

// Fprint writes err to w. A MotionError anywhere in the chain is rendered
// in full so its hint survives wrapping; other errors get a one-line form.
func Fprint(w io.Writer, err error, color bool) {
	var me *MotionError
	if stderrors.As(err, &me) {
		fmt.Fprint(w, me.render(painter(color)))
		return
	}
	fmt.Fprintf(w, "\n%s%s\n\n", painter(color).paint(ansiRed+ansiBold, "ERROR: "), err)
}

// wrapText breaks text into lines of at most width columns.
func wrapText(text string, width int) []string {
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(text) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
