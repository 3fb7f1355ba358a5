// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progress defines the typed notification contract between the
// pipeline's background stages and whatever layer renders them. Stages emit
// Events on a channel; consumers decide how (or whether) to display them.
package progress

// Kind distinguishes the two observable signals a stage emits.
type Kind int

const (
	// KindStatus is a free-text status line.
	KindStatus Kind = iota

	// KindProgress is an integer percentage, 0-100, monotonic within a run.
	KindProgress
)

// Event is one notification from a background stage.
type Event struct {
	Kind    Kind
	Percent int
	Status  string
}

// Func receives percentage updates. Implementations must tolerate repeated
// values; monotonicity within one run is the emitter's responsibility.
type Func func(percent int)

// StatusFunc receives free-text status lines.
type StatusFunc func(line string)

// Emitter sends typed events to a channel, dropping nothing: the channel
// must be drained by the consumer. A nil Emitter discards all events, which
// lets library callers skip progress wiring entirely.
type Emitter struct {
	ch chan<- Event
}

// NewEmitter wraps ch in an Emitter.
func NewEmitter(ch chan<- Event) *Emitter {
	return &Emitter{ch: ch}
}

// Status emits a free-text status line.
func (e *Emitter) Status(line string) {
	if e == nil || e.ch == nil {
		return
	}
	e.ch <- Event{Kind: KindStatus, Status: line}
}

// Percent emits a progress percentage.
func (e *Emitter) Percent(p int) {
	if e == nil || e.ch == nil {
		return
	}
	e.ch <- Event{Kind: KindProgress, Percent: p}
}
