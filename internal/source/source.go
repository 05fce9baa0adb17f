package source

import (
	"context"
	"fmt"

	"github.com/aomarket/aom-harvest/internal/event"
)

// Result is the complete outcome of one adapter invocation. Failure is a
// value here, not an error: a failed adapter contributes zero or partial
// records plus one or more notes.
type Result struct {
	Records []event.Raw
	Notes   []string
}

// Merge appends another result's records and notes in order.
func (r *Result) Merge(other Result) {
	r.Records = append(r.Records, other.Records...)
	r.Notes = append(r.Notes, other.Notes...)
}

// Notef appends a formatted diagnostic note.
func (r *Result) Notef(format string, args ...interface{}) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}

// Source is one provider adapter. Fetch must never panic past its own
// boundary and must honor ctx cancellation on its network calls.
type Source interface {
	// Name returns the source tag recorded on every event this adapter
	// produces, e.g. "ics", "api", "html:eventbrite".
	Name() string

	// Fetch collects raw records for the run. It returns partial results
	// plus notes on any internal failure.
	Fetch(ctx context.Context) Result
}
