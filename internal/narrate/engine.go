// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package narrate synthesizes spoken WAV summaries of literature items
// with whatever speech engine is installed on the host.
package narrate

import (
	"fmt"
	"os/exec"
)

const (
	binEspeakNG = "espeak-ng"
	binEspeak   = "espeak"
	binFlite    = "flite"
)

// Engine renders text into a WAV file.
type Engine interface {
	// Name returns the engine binary name.
	Name() string

	// Available reports whether the engine binary exists on PATH.
	Available() bool

	// Synthesize renders text as speech into the WAV file at wavPath.
	Synthesize(text, wavPath string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// engine implements Engine for a specific speech binary. The supported
// engines share the same logic and differ only in how the output file and
// input text are passed on the command line.
type engine struct {
	bin  string
	args func(text, wavPath string) []string
	exec executor
}

func (e *engine) Name() string { return e.bin }

func (e *engine) Available() bool {
	_, err := e.exec.LookPath(e.bin)
	return err == nil
}

func (e *engine) Synthesize(text, wavPath string) error {
	if err := e.exec.Run(e.bin, e.args(text, wavPath)...); err != nil {
		return fmt.Errorf("running %s: %w", e.bin, err)
	}
	return nil
}

func newEspeakEngine(bin string, exec executor) *engine {
	return &engine{
		bin: bin,
		args: func(text, wavPath string) []string {
			return []string{"-w", wavPath, text}
		},
		exec: exec,
	}
}

func newFliteEngine(exec executor) *engine {
	return &engine{
		bin: binFlite,
		args: func(text, wavPath string) []string {
			return []string{"-t", text, "-o", wavPath}
		},
		exec: exec,
	}
}

var defaultExec = &osExecutor{}

// DetectEngine tries espeak-ng, espeak, then flite. Returns an error if
// none is available.
func DetectEngine() (Engine, error) {
	return detectEngine(defaultExec)
}

func detectEngine(exec executor) (Engine, error) {
	candidates := []*engine{
		newEspeakEngine(binEspeakNG, exec),
		newEspeakEngine(binEspeak, exec),
		newFliteEngine(exec),
	}
	for _, e := range candidates {
		if e.Available() {
			return e, nil
		}
	}
	return nil, fmt.Errorf(
		"no speech engine available: none of %s, %s, %s found on PATH",
		binEspeakNG, binEspeak, binFlite,
	)
}
