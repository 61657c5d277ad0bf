package headless

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/protocol"
	"github.com/vango-dev/motion/pkg/render"
)

// RecordedFrame is the style diff and pass counters of one frame.
type RecordedFrame struct {
	Seq       uint64                       `json:"seq"`
	Timestamp float64                      `json:"timestamp"`
	Patches   []RecordedPatch              `json:"patches,omitempty"`
	Metrics   projection.FrameMetrics      `json:"metrics"`
	Active    int                          `json:"activeAnimations"`
	Styles    map[string]projection.Styles `json:"styles,omitempty"`
}

// RecordedPatch is the JSON form of a protocol.Patch.
type RecordedPatch struct {
	Op     string `json:"op"`
	Target string `json:"target"`
	Key    string `json:"key,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Recording is a sequence of frames captured from a document.
type Recording struct {
	Name      string          `json:"name"`
	FrameRate float64         `json:"frameRate"`
	Frames    []RecordedFrame `json:"frames"`
}

// Recorder captures a document frame by frame.
type Recorder struct {
	doc        *Document
	differ     *render.Differ
	recording  Recording
	fullStyles bool
	onFrame    func(*protocol.StylesFrame, projection.FrameMetrics)
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithFullStyles stores every element's complete styles in each frame in
// addition to the diff.
func WithFullStyles() RecorderOption {
	return func(r *Recorder) { r.fullStyles = true }
}

// OnFrame calls fn with each captured styles frame and its counters.
func OnFrame(fn func(*protocol.StylesFrame, projection.FrameMetrics)) RecorderOption {
	return func(r *Recorder) { r.onFrame = fn }
}

// NewRecorder creates a recorder for doc.
func NewRecorder(doc *Document, name string, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		doc:       doc,
		differ:    render.NewDiffer(),
		recording: Recording{Name: name, FrameRate: doc.frameRate},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Capture diffs the document's current styles against the previous
// capture and appends a frame.
func (r *Recorder) Capture() *protocol.StylesFrame {
	current := r.doc.Styles()
	sf := r.differ.Frame(r.doc.Now(), current)
	metrics := r.doc.Metrics()

	rf := RecordedFrame{
		Seq:       sf.Seq,
		Timestamp: sf.Timestamp,
		Metrics:   metrics,
		Active:    r.doc.tree.ActiveAnimations(),
	}
	for _, p := range sf.Patches {
		rf.Patches = append(rf.Patches, RecordedPatch{Op: p.Op.String(), Target: p.Target, Key: p.Key, Value: p.Value})
	}
	if r.fullStyles {
		rf.Styles = current
	}
	r.recording.Frames = append(r.recording.Frames, rf)

	if r.onFrame != nil {
		r.onFrame(sf, metrics)
	}
	return sf
}

// Step advances the document one frame and captures it.
func (r *Recorder) Step(dt time.Duration) *protocol.StylesFrame {
	r.doc.Step(dt)
	return r.Capture()
}

// Keyframe returns a frame restating every applied style.
func (r *Recorder) Keyframe() *protocol.StylesFrame {
	return r.differ.Keyframe(r.doc.Now())
}

// Recording returns the frames captured so far.
func (r *Recorder) Recording() *Recording {
	return &r.recording
}

// WriteJSON writes the recording as indented JSON.
func (rec *Recording) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rec)
}

// ReadRecording decodes a recording written by WriteJSON.
func ReadRecording(r io.Reader) (*Recording, error) {
	var rec Recording
	if err := json.NewDecoder(r).Decode(&rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
