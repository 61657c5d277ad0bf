package render

import (
	"sort"

	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/protocol"
)

// Diff returns the patches that turn prev into next on target. A nil next
// with a non-empty prev clears the element. Empty values count as absent.
func Diff(target string, prev, next projection.Styles) []protocol.Patch {
	if next == nil {
		if len(prev) == 0 {
			return nil
		}
		return []protocol.Patch{protocol.NewClearStylesPatch(target)}
	}

	var patches []protocol.Patch
	for _, key := range sortedKeys(prev) {
		if prev[key] != "" && next[key] == "" {
			patches = append(patches, protocol.NewRemoveStylePatch(target, key))
		}
	}
	for _, key := range sortedKeys(next) {
		if v := next[key]; v != "" && v != prev[key] {
			patches = append(patches, protocol.NewSetStylePatch(target, key, v))
		}
	}
	return patches
}

// Differ tracks the styles last emitted for each element so successive
// frames only carry changes. It is not safe for concurrent use.
type Differ struct {
	applied map[string]projection.Styles
	seq     uint64
}

// NewDiffer creates an empty Differ.
func NewDiffer() *Differ {
	return &Differ{applied: make(map[string]projection.Styles)}
}

// Frame diffs every element in current against what was last applied and
// returns the resulting styles frame. Elements missing from current are
// cleared and forgotten.
func (d *Differ) Frame(timestamp float64, current map[string]projection.Styles) *protocol.StylesFrame {
	d.seq++
	sf := &protocol.StylesFrame{Seq: d.seq, Timestamp: timestamp}

	for _, id := range sortedIDs(d.applied) {
		if _, ok := current[id]; !ok {
			sf.Patches = append(sf.Patches, protocol.NewClearStylesPatch(id))
			delete(d.applied, id)
		}
	}
	for _, id := range sortedIDs(current) {
		next := current[id]
		sf.Patches = append(sf.Patches, Diff(id, d.applied[id], next)...)
		if next == nil {
			delete(d.applied, id)
			continue
		}
		d.applied[id] = copyStyles(next)
	}
	return sf
}

// Keyframe returns a frame that sets every applied style from scratch.
// It does not advance the sequence number.
func (d *Differ) Keyframe(timestamp float64) *protocol.StylesFrame {
	sf := &protocol.StylesFrame{Seq: d.seq, Timestamp: timestamp}
	for _, id := range sortedIDs(d.applied) {
		sf.Patches = append(sf.Patches, protocol.NewClearStylesPatch(id))
		sf.Patches = append(sf.Patches, Diff(id, nil, d.applied[id])...)
	}
	return sf
}

// Applied returns the styles last emitted for id.
func (d *Differ) Applied(id string) projection.Styles {
	return d.applied[id]
}

func copyStyles(s projection.Styles) projection.Styles {
	out := make(projection.Styles, len(s))
	for k, v := range s {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func sortedIDs(m map[string]projection.Styles) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
