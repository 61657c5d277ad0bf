package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/motion/pkg/headless"
)

const scenarioJSON = `{
  "name": "card move",
  "viewport": {"width": 800, "height": 600},
  "elements": [
    {"id": "card", "rect": {"x": 0, "y": 0, "width": 100, "height": 100}, "layout": true,
     "transition": {"type": "tween", "duration": "100ms"}}
  ],
  "steps": [
    {"at": "20ms", "layout": {"card": {"x": 300, "y": 0, "width": 100, "height": 100}}}
  ]
}`

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath = ""
	noColor = false
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeScenario(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "card.json")
	if err := os.WriteFile(path, []byte(scenarioJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "motion.json")
	if err := os.WriteFile(path, []byte(`{"logLevel": "error"}`), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSimulateWritesRecording(t *testing.T) {
	out, err := execute(t, "--config", writeConfig(t), "simulate", writeScenario(t))
	if err != nil {
		t.Fatalf("simulate error = %v", err)
	}
	rec, err := headless.ReadRecording(strings.NewReader(out))
	if err != nil {
		t.Fatalf("ReadRecording() error = %v\n%s", err, out)
	}
	if rec.Name != "card move" || len(rec.Frames) < 2 {
		t.Errorf("recording = %q with %d frames", rec.Name, len(rec.Frames))
	}
}

func TestSimulateHTML(t *testing.T) {
	out, err := execute(t, "--config", writeConfig(t), "simulate", "--html", writeScenario(t))
	if err != nil {
		t.Fatalf("simulate --html error = %v", err)
	}
	if !strings.Contains(out, `id="card"`) {
		t.Errorf("snapshot missing card element:\n%s", out)
	}
}

func TestSimulateStoreAndList(t *testing.T) {
	cfg := writeConfig(t)
	store := t.TempDir()
	outFile := filepath.Join(t.TempDir(), "card.rec.json")

	if _, err := execute(t, "--config", cfg, "simulate", "-o", outFile, "--store", store, writeScenario(t)); err != nil {
		t.Fatalf("simulate --store error = %v", err)
	}
	if _, err := os.Stat(outFile); err != nil {
		t.Fatalf("output file missing: %v", err)
	}

	out, err := execute(t, "--config", cfg, "recordings", "list", "--store", store)
	if err != nil {
		t.Fatalf("recordings list error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[1], "card_move-") {
		t.Fatalf("list output = %q", out)
	}
	key := strings.Fields(lines[1])[0]

	out, err = execute(t, "--config", cfg, "recordings", "get", "--store", store, key)
	if err != nil {
		t.Fatalf("recordings get error = %v", err)
	}
	if _, err := headless.ReadRecording(strings.NewReader(out)); err != nil {
		t.Errorf("fetched recording is invalid: %v", err)
	}
}

func TestSimulateUploadRequiresBucket(t *testing.T) {
	_, err := execute(t, "--config", writeConfig(t), "simulate", "--upload", "-o", filepath.Join(t.TempDir(), "x.json"), writeScenario(t))
	if err == nil || !strings.Contains(err.Error(), "archive.bucket") {
		t.Errorf("error = %v, want missing bucket", err)
	}
}

func TestPrintErrorShowsHint(t *testing.T) {
	_, err := execute(t, "--no-color", "--config", writeConfig(t), "simulate", "--upload", "-o", filepath.Join(t.TempDir(), "x.json"), writeScenario(t))
	if err == nil {
		t.Fatal("expected missing bucket error")
	}
	var b bytes.Buffer
	printError(&b, err)
	out := b.String()
	for _, want := range []string{"ERROR E122:", "Hint: Set archive.bucket in motion.json or use --store"} {
		if !strings.Contains(out, want) {
			t.Errorf("printError() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("--no-color output contains escape codes: %q", out)
	}
}

func TestColorEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	noColor = false
	if colorEnabled() {
		t.Error("colorEnabled() = true with NO_COLOR set")
	}
}

func TestSimulateMissingScenario(t *testing.T) {
	if _, err := execute(t, "--config", writeConfig(t), "simulate", filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing scenario file")
	}
}

func TestVersionShort(t *testing.T) {
	out, err := execute(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != version {
		t.Errorf("version = %q, want %q", out, version)
	}
}
