package headless

import (
	"encoding/json"
	"io"

	"github.com/vango-dev/motion/internal/config"
	merrors "github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/geometry"
	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/values"
)

// Rect is a box given by its top-left corner and size.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Box converts r into a geometry.Box.
func (r Rect) Box() geometry.Box {
	return geometry.NewBox(r.X, r.X+r.Width, r.Y, r.Y+r.Height)
}

// ScenarioElement declares an element.
type ScenarioElement struct {
	ID               string                   `json:"id"`
	Parent           string                   `json:"parent,omitempty"`
	Tag              string                   `json:"tag,omitempty"`
	Rect             Rect                     `json:"rect"`
	Layout           bool                     `json:"layout,omitempty"`
	LayoutID         string                   `json:"layoutId,omitempty"`
	AnimationType    string                   `json:"animationType,omitempty"`
	LayoutScroll     bool                     `json:"layoutScroll,omitempty"`
	LayoutRoot       bool                     `json:"layoutRoot,omitempty"`
	DisableCrossfade bool                     `json:"disableCrossfade,omitempty"`
	Transition       *config.TransitionConfig `json:"transition,omitempty"`
	Values           map[string]string        `json:"values,omitempty"`
}

// ScenarioStep is a change applied once the simulated clock reaches At.
type ScenarioStep struct {
	At     config.Duration              `json:"at"`
	Layout map[string]Rect              `json:"layout,omitempty"`
	Add    []ScenarioElement            `json:"add,omitempty"`
	Remove []string                     `json:"remove,omitempty"`
	Exit   []string                     `json:"exit,omitempty"`
	Scroll map[string]geometry.Point    `json:"scroll,omitempty"`
	Values map[string]map[string]string `json:"values,omitempty"`
	Resize *Rect                        `json:"resize,omitempty"`
}

// Scenario is a scripted sequence of layout changes.
type Scenario struct {
	Name     string            `json:"name"`
	Viewport Rect              `json:"viewport"`
	Elements []ScenarioElement `json:"elements"`
	Steps    []ScenarioStep    `json:"steps"`

	// Duration is the simulated time to record. Zero records until every
	// animation has settled after the last step.
	Duration config.Duration `json:"duration,omitempty"`
}

// ReadScenario decodes a scenario from JSON.
func ReadScenario(r io.Reader) (*Scenario, error) {
	var s Scenario
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, merrors.New("E160").Wrap(err)
	}
	if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
		return nil, merrors.New("E160").WithDetail("viewport must have a positive size")
	}
	return &s, nil
}

// Run plays s against a fresh document as fast as possible and returns
// the recording.
func (s *Scenario) Run(opts ...Option) (*Recording, error) {
	p, err := NewPlayer(s, opts)
	if err != nil {
		return nil, err
	}
	for {
		_, _, done, err := p.Advance()
		if err != nil {
			return nil, err
		}
		if done {
			return p.Recorder().Recording(), nil
		}
	}
}

func (e ScenarioElement) spec() ElementSpec {
	opts := projection.Options{
		Layout:           e.Layout,
		LayoutID:         e.LayoutID,
		AnimationType:    projection.ParseAnimationType(e.AnimationType),
		LayoutScroll:     e.LayoutScroll,
		LayoutRoot:       e.LayoutRoot,
		DisableCrossfade: e.DisableCrossfade,
	}
	if e.Transition != nil {
		if tr, err := e.Transition.Transition(); err == nil {
			opts.Transition = &tr
		}
	}
	vals := values.Values{}
	for k, v := range e.Values {
		vals[k] = values.Parse(v)
	}
	return ElementSpec{
		ID:      e.ID,
		Parent:  e.Parent,
		Tag:     e.Tag,
		Box:     e.Rect.Box(),
		Values:  vals,
		Options: opts,
	}
}

func (st ScenarioStep) apply(doc *Document) error {
	wrap := func(err error) error {
		return merrors.New("E160").WithDetailf("step at %v", st.At.Std()).Wrap(err)
	}

	if st.Resize != nil {
		doc.Resize(st.Resize.Box())
	}
	for id, p := range st.Scroll {
		if err := doc.ScrollTo(id, p); err != nil {
			return wrap(err)
		}
	}
	for id, vals := range st.Values {
		for k, v := range vals {
			if err := doc.SetValue(id, k, values.Parse(v)); err != nil {
				return wrap(err)
			}
		}
	}
	if len(st.Layout) == 0 && len(st.Add) == 0 && len(st.Remove) == 0 && len(st.Exit) == 0 {
		return nil
	}

	err := doc.Update(func() error {
		for _, id := range st.Exit {
			if err := doc.Exit(id); err != nil {
				return err
			}
		}
		for _, id := range st.Remove {
			if err := doc.Remove(id); err != nil {
				return err
			}
		}
		for _, el := range st.Add {
			if _, err := doc.Add(el.spec()); err != nil {
				return err
			}
		}
		for id, r := range st.Layout {
			if err := doc.SetLayout(id, r.Box()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrap(err)
	}
	return nil
}
