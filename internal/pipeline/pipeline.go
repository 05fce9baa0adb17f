package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/aomarket/aom-harvest/internal/artifact"
	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/event"
	"github.com/aomarket/aom-harvest/internal/fetch"
	"github.com/aomarket/aom-harvest/internal/filter"
	"github.com/aomarket/aom-harvest/internal/logger"
	"github.com/aomarket/aom-harvest/internal/source"
)

// Runner orchestrates one harvest run.
type Runner struct {
	cfg    config.Config
	client *fetch.Client
	now    func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithClock overrides the wall-clock source. Tests use this to drive the
// soft budget deterministically.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New creates a Runner for the resolved configuration.
func New(cfg config.Config, client *fetch.Client, opts ...Option) *Runner {
	r := &Runner{cfg: cfg, client: client, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full pipeline and always returns a valid payload. Any
// unexpected panic escaping the stages is caught here and substituted
// with a minimal artifact carrying a diagnostic note.
func (r *Runner) Run(ctx context.Context) (payload artifact.Payload) {
	start := r.now()
	sources, regNotes := Registry(r.cfg, r.client)

	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Name())
	}
	meta := artifact.NewMeta(start, r.cfg, names)

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("harvest failed unexpectedly", logger.Fields{"panic": fmt.Sprint(rec)}, nil)
			payload = artifact.New(meta, nil, []string{fmt.Sprintf("harvest aborted: %v", rec)})
		}
	}()

	payload = r.run(ctx, start, meta, sources, regNotes)
	return payload
}

// run is the happy(ish) path: adapters in declared order under the soft
// budget, then the shared normalize/filter/dedupe/assemble stages.
func (r *Runner) run(ctx context.Context, start time.Time, meta artifact.Meta, sources []source.Source, notes []string) artifact.Payload {
	var merged source.Result
	merged.Notes = append(merged.Notes, notes...)

	for _, src := range sources {
		if elapsed := r.now().Sub(start); elapsed > r.cfg.SoftBudget {
			merged.Notef("soft time budget exhausted after %s, skipping remaining sources", elapsed.Round(time.Second))
			break
		}

		res := fetchIsolated(ctx, src)
		merged.Merge(res)

		logger.Info("source finished", logger.Fields{
			"source":  src.Name(),
			"records": len(res.Records),
			"notes":   len(res.Notes),
		})
	}

	events := normalize(merged.Records)
	events = filter.Apply(events,
		filter.Window(start.UTC(), r.cfg.WindowDays),
		filter.Keywords(r.cfg.Keywords),
	)
	events = Dedupe(events)

	return artifact.New(meta, events, merged.Notes)
}

// fetchIsolated invokes one adapter with its own panic isolation, so a
// defect in a single adapter degrades to a note instead of reaching the
// outermost boundary.
func fetchIsolated(ctx context.Context, src source.Source) (res source.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			res.Notef("%s: adapter panicked: %v", src.Name(), rec)
		}
	}()
	return src.Fetch(ctx)
}

// normalize maps raw records to canonical events, dropping only records
// with no usable title.
func normalize(records []event.Raw) []event.Event {
	events := make([]event.Event, 0, len(records))
	for _, raw := range records {
		evt, ok := event.Normalize(raw)
		if !ok {
			continue
		}
		events = append(events, evt)
	}
	return events
}
