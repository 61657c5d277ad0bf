package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/motion/pkg/projection"
)

// Snapshot is an element tree captured at one frame.
type Snapshot struct {
	ID       string
	Tag      string
	Styles   projection.Styles
	Children []Snapshot
}

// HTMLConfig configures RenderHTML.
type HTMLConfig struct {
	// Pretty indents nested elements.
	Pretty bool

	// Indent is the string used per level in pretty mode. Default: two spaces.
	Indent string
}

// RenderHTML writes root and its descendants as HTML with inline styles.
func RenderHTML(w io.Writer, root Snapshot, cfg HTMLConfig) error {
	if cfg.Indent == "" {
		cfg.Indent = "  "
	}
	return renderElement(w, root, cfg, 0)
}

// RenderHTMLString is RenderHTML into a string.
func RenderHTMLString(root Snapshot, cfg HTMLConfig) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, root, cfg); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderElement(w io.Writer, el Snapshot, cfg HTMLConfig, depth int) error {
	tag := el.Tag
	if tag == "" {
		tag = "div"
	}
	indent := ""
	if cfg.Pretty {
		indent = strings.Repeat(cfg.Indent, depth)
	}

	if _, err := fmt.Fprintf(w, "%s<%s", indent, tag); err != nil {
		return err
	}
	if el.ID != "" {
		if _, err := fmt.Fprintf(w, ` id="%s"`, escapeAttr(el.ID)); err != nil {
			return err
		}
	}
	if style := InlineStyle(el.Styles); style != "" {
		if _, err := fmt.Fprintf(w, ` style="%s"`, escapeAttr(style)); err != nil {
			return err
		}
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	if len(el.Children) > 0 && cfg.Pretty {
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	for _, child := range el.Children {
		if err := renderElement(w, child, cfg, depth+1); err != nil {
			return err
		}
	}
	if len(el.Children) > 0 && cfg.Pretty {
		if _, err := io.WriteString(w, indent); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if cfg.Pretty {
		_, err := io.WriteString(w, "\n")
		return err
	}
	return nil
}
