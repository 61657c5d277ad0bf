package render

import (
	"strings"
	"testing"

	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/protocol"
)

func TestProperty(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"transform", "transform"},
		{"transformOrigin", "transform-origin"},
		{"borderTopLeftRadius", "border-top-left-radius"},
		{"pointerEvents", "pointer-events"},
		{"WebkitTransform", "-webkit-transform"},
		{"msTransform", "-ms-transform"},
		{"Mozilla", "-mozilla"},
		{"--card-scale", "--card-scale"},
	}
	for _, tc := range tests {
		if got := Property(tc.key); got != tc.want {
			t.Errorf("Property(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestInlineStyle(t *testing.T) {
	styles := projection.Styles{
		"transform":       "translate3d(10px, 0px, 0)",
		"transformOrigin": "50% 50% 0",
		"opacity":         "",
		"pointerEvents":   "none",
	}
	want := "pointer-events: none; transform: translate3d(10px, 0px, 0); transform-origin: 50% 50% 0"
	if got := InlineStyle(styles); got != want {
		t.Errorf("InlineStyle() = %q, want %q", got, want)
	}
	if got := InlineStyle(nil); got != "" {
		t.Errorf("InlineStyle(nil) = %q, want empty", got)
	}
}

func TestDiff(t *testing.T) {
	prev := projection.Styles{"transform": "none", "opacity": "0.5", "pointerEvents": "none"}
	next := projection.Styles{"transform": "translate3d(1px, 0px, 0)", "opacity": "0.5", "pointerEvents": ""}

	got := Diff("card", prev, next)
	want := []protocol.Patch{
		protocol.NewRemoveStylePatch("card", "pointerEvents"),
		protocol.NewSetStylePatch("card", "transform", "translate3d(1px, 0px, 0)"),
	}
	if len(got) != len(want) {
		t.Fatalf("Diff() = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Diff()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if patches := Diff("card", prev, nil); len(patches) != 1 || patches[0].Op != protocol.PatchClearStyles {
		t.Errorf("Diff(prev, nil) = %+v, want one ClearStyles", patches)
	}
	if patches := Diff("card", nil, nil); patches != nil {
		t.Errorf("Diff(nil, nil) = %+v, want nil", patches)
	}
	if patches := Diff("card", prev, prev); len(patches) != 0 {
		t.Errorf("Diff(prev, prev) = %+v, want none", patches)
	}
}

func TestDifferFrames(t *testing.T) {
	d := NewDiffer()

	first := d.Frame(16, map[string]projection.Styles{
		"a": {"transform": "none"},
		"b": {"opacity": "1"},
	})
	if first.Seq != 1 || len(first.Patches) != 2 {
		t.Fatalf("first frame = %+v", first)
	}

	second := d.Frame(32, map[string]projection.Styles{
		"a": {"transform": "none"},
	})
	if second.Seq != 2 {
		t.Errorf("Seq = %d, want 2", second.Seq)
	}
	if len(second.Patches) != 1 || second.Patches[0] != protocol.NewClearStylesPatch("b") {
		t.Errorf("second frame patches = %+v, want ClearStyles(b)", second.Patches)
	}
	if d.Applied("b") != nil {
		t.Error("cleared element still tracked")
	}

	third := d.Frame(48, map[string]projection.Styles{"a": nil})
	if len(third.Patches) != 1 || third.Patches[0].Op != protocol.PatchClearStyles {
		t.Errorf("third frame patches = %+v, want ClearStyles(a)", third.Patches)
	}
}

func TestDifferKeyframe(t *testing.T) {
	d := NewDiffer()
	d.Frame(16, map[string]projection.Styles{"a": {"transform": "none", "opacity": "1"}})

	kf := d.Keyframe(20)
	if kf.Seq != 1 {
		t.Errorf("Keyframe Seq = %d, want 1", kf.Seq)
	}
	want := []protocol.Patch{
		protocol.NewClearStylesPatch("a"),
		protocol.NewSetStylePatch("a", "opacity", "1"),
		protocol.NewSetStylePatch("a", "transform", "none"),
	}
	if len(kf.Patches) != len(want) {
		t.Fatalf("Keyframe patches = %+v, want %+v", kf.Patches, want)
	}
	for i := range want {
		if kf.Patches[i] != want[i] {
			t.Errorf("Keyframe patches[%d] = %+v, want %+v", i, kf.Patches[i], want[i])
		}
	}
}

func TestDifferCopiesStyles(t *testing.T) {
	d := NewDiffer()
	styles := projection.Styles{"transform": "none"}
	d.Frame(16, map[string]projection.Styles{"a": styles})
	styles["transform"] = "scale(2, 2)"

	next := d.Frame(32, map[string]projection.Styles{"a": styles})
	if len(next.Patches) != 1 || next.Patches[0].Value != "scale(2, 2)" {
		t.Errorf("mutated map was not diffed: %+v", next.Patches)
	}
}

func TestRenderHTML(t *testing.T) {
	root := Snapshot{
		ID: "root",
		Children: []Snapshot{
			{ID: "card", Tag: "section", Styles: projection.Styles{"transform": "none", "opacity": "0.5"}},
			{ID: `x"y`},
		},
	}

	got, err := RenderHTMLString(root, HTMLConfig{})
	if err != nil {
		t.Fatalf("RenderHTMLString() error = %v", err)
	}
	want := `<div id="root"><section id="card" style="opacity: 0.5; transform: none"></section><div id="x&quot;y"></div></div>`
	if got != want {
		t.Errorf("RenderHTMLString() =\n%s\nwant\n%s", got, want)
	}

	pretty, err := RenderHTMLString(root, HTMLConfig{Pretty: true})
	if err != nil {
		t.Fatalf("RenderHTMLString(pretty) error = %v", err)
	}
	if !strings.Contains(pretty, "\n  <section") {
		t.Errorf("pretty output not indented:\n%s", pretty)
	}
}
