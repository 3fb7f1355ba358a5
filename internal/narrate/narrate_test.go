// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package narrate

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/pkg/types"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runErr        error
	ranBin        string
	ranArgs       []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) Run(name string, args ...string) error {
	m.ranBin = name
	m.ranArgs = args
	return m.runErr
}

func TestDetectEngine(t *testing.T) {
	tests := []struct {
		name     string
		bins     map[string]bool
		wantName string
		wantErr  bool
	}{
		{
			name:     "espeak-ng preferred",
			bins:     map[string]bool{"espeak-ng": true, "espeak": true, "flite": true},
			wantName: "espeak-ng",
		},
		{
			name:     "espeak fallback",
			bins:     map[string]bool{"espeak": true, "flite": true},
			wantName: "espeak",
		},
		{
			name:     "flite last",
			bins:     map[string]bool{"flite": true},
			wantName: "flite",
		},
		{
			name:    "none available",
			bins:    map[string]bool{},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, err := detectEngine(&mockExecutor{availableBins: tt.bins})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("detectEngine: %v", err)
			}
			if eng.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", eng.Name(), tt.wantName)
			}
		})
	}
}

func TestEngineCommandShapes(t *testing.T) {
	mock := &mockExecutor{availableBins: map[string]bool{"espeak-ng": true, "flite": true}}

	e := newEspeakEngine(binEspeakNG, mock)
	if err := e.Synthesize("hello", "/tmp/out.wav"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if mock.ranBin != "espeak-ng" {
		t.Errorf("ran %q, want espeak-ng", mock.ranBin)
	}
	if len(mock.ranArgs) != 3 || mock.ranArgs[0] != "-w" || mock.ranArgs[1] != "/tmp/out.wav" || mock.ranArgs[2] != "hello" {
		t.Errorf("espeak args = %v", mock.ranArgs)
	}

	f := newFliteEngine(mock)
	if err := f.Synthesize("hello", "/tmp/out.wav"); err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if len(mock.ranArgs) != 4 || mock.ranArgs[0] != "-t" || mock.ranArgs[2] != "-o" {
		t.Errorf("flite args = %v", mock.ranArgs)
	}
}

// fakeEngine writes a fixed payload, or fails, or silently produces nothing.
type fakeEngine struct {
	failErr   error
	writeFile bool
	gotText   string
	gotPath   string
}

func (f *fakeEngine) Name() string    { return "fake" }
func (f *fakeEngine) Available() bool { return true }

func (f *fakeEngine) Synthesize(text, wavPath string) error {
	f.gotText = text
	f.gotPath = wavPath
	if f.failErr != nil {
		return f.failErr
	}
	if f.writeFile {
		return os.WriteFile(wavPath, []byte("RIFFdata"), 0o644)
	}
	return nil
}

func newTestNarrator(eng Engine, detectErr error) *Narrator {
	return &Narrator{
		detect: func() (Engine, error) { return eng, detectErr },
		log:    zerolog.Nop(),
	}
}

func TestSpeakSuccess(t *testing.T) {
	eng := &fakeEngine{writeFile: true}
	n := newTestNarrator(eng, nil)

	out := filepath.Join(t.TempDir(), "sub", "dir", "summary.wav")
	if !n.Speak("some narration", out) {
		t.Fatal("Speak = false, want true")
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
	if eng.gotText != "some narration" {
		t.Errorf("text = %q", eng.gotText)
	}
}

func TestSpeakForcesWavExtension(t *testing.T) {
	eng := &fakeEngine{writeFile: true}
	n := newTestNarrator(eng, nil)

	out := filepath.Join(t.TempDir(), "summary.mp3")
	if !n.Speak("text", out) {
		t.Fatal("Speak = false, want true")
	}
	if !strings.HasSuffix(eng.gotPath, ".wav") {
		t.Errorf("synthesized path = %q, want .wav", eng.gotPath)
	}
	if _, err := os.Stat(strings.TrimSuffix(out, ".mp3") + ".wav"); err != nil {
		t.Errorf("wav file missing: %v", err)
	}
}

func TestSpeakNoEngineStaysDisabled(t *testing.T) {
	n := newTestNarrator(nil, errors.New("no speech engine available"))

	out := filepath.Join(t.TempDir(), "summary.wav")
	for i := 0; i < 3; i++ {
		if n.Speak("text", out) {
			t.Fatal("Speak = true without an engine")
		}
	}
}

func TestSpeakSynthesisFailure(t *testing.T) {
	n := newTestNarrator(&fakeEngine{failErr: errors.New("boom")}, nil)

	if n.Speak("text", filepath.Join(t.TempDir(), "summary.wav")) {
		t.Fatal("Speak = true on synthesis error")
	}
}

func TestSpeakMissingOutputFile(t *testing.T) {
	// Engine claims success but writes nothing.
	n := newTestNarrator(&fakeEngine{}, nil)

	if n.Speak("text", filepath.Join(t.TempDir(), "summary.wav")) {
		t.Fatal("Speak = true when no file was produced")
	}
}

func TestNarrationText(t *testing.T) {
	item := types.LiteratureItem{
		Title:     "A Paper",
		Authors:   "B. Author",
		Published: "2024",
		Source:    "arxiv",
		Abstract:  "The abstract.",
	}
	text := NarrationText(item)
	for _, want := range []string{"A Paper", "B. Author", "2024", "arxiv", "The abstract."} {
		if !strings.Contains(text, want) {
			t.Errorf("NarrationText missing %q in %q", want, text)
		}
	}
}
