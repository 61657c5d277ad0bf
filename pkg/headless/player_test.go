package headless

import (
	"strings"
	"testing"
	"time"
)

func TestPlayerAdvance(t *testing.T) {
	sc, err := ReadScenario(strings.NewReader(cardScenario))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPlayer(sc, []Option{quietLogger()})
	if err != nil {
		t.Fatalf("NewPlayer() error = %v", err)
	}
	if p.Done() || p.Elapsed() != 0 {
		t.Fatalf("new player done = %v, elapsed = %v", p.Done(), p.Elapsed())
	}
	if got := len(p.Recorder().Recording().Frames); got != 1 {
		t.Errorf("initial frames = %d, want 1", got)
	}

	frames := 0
	for !p.Done() {
		sf, _, _, err := p.Advance()
		if err != nil {
			t.Fatalf("Advance() error = %v", err)
		}
		if sf != nil {
			frames++
		}
		if frames > 1000 {
			t.Fatal("player never finished")
		}
	}
	if p.Elapsed() < 200*time.Millisecond {
		t.Errorf("elapsed = %v, want at least step time plus transition", p.Elapsed())
	}
	if p.Document().Tree().ActiveAnimations() != 0 {
		t.Error("animations still active after playback")
	}

	sf, _, done, err := p.Advance()
	if sf != nil || !done || err != nil {
		t.Errorf("Advance() after done = %v, %v, %v", sf, done, err)
	}
}

func TestPlayerFrameDuration(t *testing.T) {
	sc, err := ReadScenario(strings.NewReader(cardScenario))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPlayer(sc, []Option{quietLogger(), WithFrameRate(30)})
	if err != nil {
		t.Fatal(err)
	}
	fps := 30.0
	want := time.Duration(float64(time.Second) / fps)
	if p.FrameDuration() != want {
		t.Errorf("FrameDuration() = %v, want %v", p.FrameDuration(), want)
	}
}
