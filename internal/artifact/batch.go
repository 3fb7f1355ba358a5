// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package artifact

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/pdiddy/paper-harvester/internal/progress"
	"github.com/pdiddy/paper-harvester/pkg/types"
)

// defaultItemDelay paces consecutive items so batch runs do not hammer the
// publishers' servers.
const defaultItemDelay = 500 * time.Millisecond

// statusTitleLen caps the title length quoted in status lines.
const statusTitleLen = 50

// Processor resolves artifacts for whole result sets, strictly
// sequentially and with per-item failure isolation: one bad item never
// stops the batch.
type Processor struct {
	resolver *Resolver
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// NewProcessor creates a batch processor over resolver, pacing items by
// cfg.ItemDelay.
func NewProcessor(resolver *Resolver, cfg types.ArtifactConfig, log zerolog.Logger) *Processor {
	delay := cfg.ItemDelay
	if delay <= 0 {
		delay = defaultItemDelay
	}
	return &Processor{
		resolver: resolver,
		limiter:  rate.NewLimiter(rate.Every(delay), 1),
		log:      log.With().Str("component", "batch").Logger(),
	}
}

// ProcessAll resolves every item in order. Per-item download progress is
// scaled into the item's slice of the overall range; completing item i of
// n lands overall progress exactly on (i+1)*100/n. Cancelling ctx stops
// the batch between items; outcomes already produced are returned.
func (p *Processor) ProcessAll(ctx context.Context, items []types.LiteratureItem, onProgress progress.Func, onStatus progress.StatusFunc) (types.RunSummary, []types.ArtifactOutcome) {
	summary := types.RunSummary{Total: len(items)}
	outcomes := make([]types.ArtifactOutcome, 0, len(items))

	n := len(items)
	for i, item := range items {
		if err := p.limiter.Wait(ctx); err != nil {
			p.log.Warn().Err(err).Int("processed", i).Msg("batch cancelled")
			break
		}

		emitStatus(onStatus, fmt.Sprintf("processing: %s...", truncateTitle(item.Title)))

		itemBase := i * 100
		inner := func(pct int) {
			if onProgress == nil {
				return
			}
			if pct > 100 {
				pct = 100
			}
			onProgress((itemBase + pct) / n)
		}

		outcome := p.resolver.Resolve(ctx, item, inner)
		outcomes = append(outcomes, outcome)

		switch {
		case outcome.Succeeded && outcome.UsedFallbackLink:
			summary.FallbackCount++
			emitStatus(onStatus, fmt.Sprintf("saved link page: %s", outcome.ArtifactPath))
		case outcome.Succeeded:
			summary.PDFCount++
			emitStatus(onStatus, fmt.Sprintf("saved PDF: %s", outcome.ArtifactPath))
		default:
			emitStatus(onStatus, fmt.Sprintf("failed: %s (%s)", truncateTitle(item.Title), outcome.Error))
		}

		if onProgress != nil {
			onProgress((i + 1) * 100 / n)
		}
	}

	emitStatus(onStatus, fmt.Sprintf(
		"batch complete: %d PDFs, %d link pages, %d failed (total: %d)",
		summary.PDFCount, summary.FallbackCount, summary.Failed(), summary.Total,
	))
	return summary, outcomes
}

// Run is a batch executing in the background.
type Run struct {
	events   chan progress.Event
	done     chan struct{}
	summary  types.RunSummary
	outcomes []types.ArtifactOutcome
}

// Events returns the run's event channel. It must be drained; it is closed
// when the run ends.
func (r *Run) Events() <-chan progress.Event { return r.events }

// Wait blocks until the run completes and returns its summary and per-item
// outcomes.
func (r *Run) Wait() (types.RunSummary, []types.ArtifactOutcome) {
	<-r.done
	return r.summary, r.outcomes
}

// Start runs ProcessAll in the background, reporting through the returned
// Run's event channel.
func (p *Processor) Start(ctx context.Context, items []types.LiteratureItem) *Run {
	run := &Run{
		events: make(chan progress.Event),
		done:   make(chan struct{}),
	}
	go func() {
		defer close(run.done)
		defer close(run.events)

		emitter := progress.NewEmitter(run.events)
		run.summary, run.outcomes = p.ProcessAll(ctx, items, emitter.Percent, emitter.Status)
	}()
	return run
}

func emitStatus(onStatus progress.StatusFunc, line string) {
	if onStatus != nil {
		onStatus(line)
	}
}

func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= statusTitleLen {
		return title
	}
	return string(runes[:statusTitleLen])
}
