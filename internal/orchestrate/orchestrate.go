// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orchestrate runs literature searches as background jobs. It
// resolves keywords from the requested domain, dispatches to the matching
// source client, and reports status and progress through a typed event
// channel that the caller drains.
package orchestrate

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-harvester/internal/progress"
	"github.com/pdiddy/paper-harvester/internal/source"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// defaultRampDelay spaces the steps of the synthetic progress ramp emitted
// after a search completes.
const defaultRampDelay = 20 * time.Millisecond

// Request describes one search run.
type Request struct {
	// Domain selects a preset keyword set; ignored when Keywords is set.
	Domain string

	// Source names the registered source client to query.
	Source string

	// MaxResults caps the result count; sources apply their own ceilings
	// on top.
	MaxResults int

	// Keywords, when non-blank, overrides the domain preset.
	Keywords string
}

// Job is a running search. Events delivers status lines and the progress
// ramp; Wait blocks until the search finishes and returns its items.
type Job struct {
	events chan progress.Event
	done   chan struct{}
	items  []types.LiteratureItem
}

// Events returns the job's event channel. It is closed when the job ends.
func (j *Job) Events() <-chan progress.Event { return j.events }

// Wait blocks until the job completes and returns the found items. The
// event channel is buffered for a full run, so Wait may be called without
// draining Events.
func (j *Job) Wait() []types.LiteratureItem {
	<-j.done
	return j.items
}

// Orchestrator dispatches search requests to registered source clients.
type Orchestrator struct {
	registry  *source.Registry
	rampDelay time.Duration
	log       zerolog.Logger
}

// New creates an orchestrator over the given source registry.
func New(registry *source.Registry, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		registry:  registry,
		rampDelay: defaultRampDelay,
		log:       log.With().Str("component", "orchestrate").Logger(),
	}
}

// Run starts a search in the background and returns its Job immediately.
// An unknown source is not an error: the job reports it as a status line
// and completes with no items. Cancelling ctx stops the search and cuts
// the progress ramp short.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Job {
	// 101 ramp steps plus a handful of status lines.
	job := &Job{
		events: make(chan progress.Event, 128),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(job.done)
		defer close(job.events)

		emitter := progress.NewEmitter(job.events)
		emitter.Status(fmt.Sprintf("searching %s for relevant papers...", req.Source))

		client, ok := o.registry.Lookup(req.Source)
		if !ok {
			o.log.Warn().Str("source", req.Source).Msg("unknown source requested")
			emitter.Status(fmt.Sprintf("source %s is not available", req.Source))
			emitter.Status(fmt.Sprintf("found 0 papers from %s", req.Source))
			return
		}

		keywords := ResolveKeywords(req.Domain, req.Keywords)
		o.log.Info().
			Str("source", req.Source).
			Str("keywords", keywords).
			Int("max_results", req.MaxResults).
			Msg("search started")

		job.items = client.Search(ctx, keywords, req.MaxResults)
		emitter.Status(fmt.Sprintf("found %d papers from %s", len(job.items), req.Source))

		for p := 0; p <= 100; p++ {
			select {
			case <-ctx.Done():
				return
			default:
			}
			emitter.Percent(p)
			if o.rampDelay > 0 {
				time.Sleep(o.rampDelay)
			}
		}
	}()

	return job
}
