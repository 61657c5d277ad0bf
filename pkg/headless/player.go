package headless

import (
	"sort"
	"time"

	merrors "github.com/vango-dev/motion/internal/errors"
	"github.com/vango-dev/motion/pkg/projection"
	"github.com/vango-dev/motion/pkg/protocol"
)

// maxSettleFrames bounds playback of scenarios without an explicit duration.
const maxSettleFrames = 60 * 60

// Player steps a scenario frame by frame. Scenario.Run drives it as fast
// as possible; the devtools server drives it from a ticker.
type Player struct {
	scenario *Scenario
	doc      *Document
	rec      *Recorder
	steps    []ScenarioStep
	dt       time.Duration
	elapsed  time.Duration
	frames   int
	done     bool
}

// NewPlayer builds a fresh document for s and captures its initial state.
func NewPlayer(s *Scenario, opts []Option, recOpts ...RecorderOption) (*Player, error) {
	doc, err := NewDocument(s.Viewport.Box(), opts...)
	if err != nil {
		return nil, err
	}
	for _, el := range s.Elements {
		if _, err := doc.Add(el.spec()); err != nil {
			return nil, merrors.New("E160").WithDetailf("element %q", el.ID).Wrap(err)
		}
	}

	steps := append([]ScenarioStep(nil), s.Steps...)
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].At < steps[j].At })

	p := &Player{
		scenario: s,
		doc:      doc,
		rec:      NewRecorder(doc, s.Name, recOpts...),
		steps:    steps,
		dt:       time.Duration(float64(time.Second) / doc.frameRate),
	}
	if err := p.applyDue(); err != nil {
		return nil, err
	}
	p.rec.Capture()
	return p, nil
}

// Document returns the document being played.
func (p *Player) Document() *Document { return p.doc }

// Recorder returns the recorder capturing playback.
func (p *Player) Recorder() *Recorder { return p.rec }

// FrameDuration returns the simulated time of one frame.
func (p *Player) FrameDuration() time.Duration { return p.dt }

// Elapsed returns the simulated time played so far.
func (p *Player) Elapsed() time.Duration { return p.elapsed }

// Done reports whether playback has finished.
func (p *Player) Done() bool { return p.done }

// Advance plays one frame and returns its styles frame. It reports done
// once the scenario duration has elapsed or, without a duration, once the
// last step has run and every animation has settled.
func (p *Player) Advance() (*protocol.StylesFrame, projection.FrameMetrics, bool, error) {
	if p.done {
		return nil, p.doc.Metrics(), true, nil
	}
	if p.finished() {
		p.done = true
		return nil, p.doc.Metrics(), true, nil
	}
	if p.scenario.Duration == 0 && p.frames >= maxSettleFrames {
		return nil, p.doc.Metrics(), false, merrors.New("E160").WithDetail("scenario did not settle")
	}

	sf := p.rec.Step(p.dt)
	p.elapsed += p.dt
	p.frames++
	if err := p.applyDue(); err != nil {
		return sf, p.doc.Metrics(), false, err
	}
	p.done = p.finished()
	return sf, p.doc.Metrics(), p.done, nil
}

func (p *Player) finished() bool {
	if d := p.scenario.Duration; d > 0 {
		return p.elapsed >= d.Std()
	}
	return len(p.steps) == 0 && !p.doc.sched.Pending()
}

func (p *Player) applyDue() error {
	for len(p.steps) > 0 && p.steps[0].At.Std() <= p.elapsed {
		if err := p.steps[0].apply(p.doc); err != nil {
			return err
		}
		p.steps = p.steps[1:]
	}
	return nil
}
