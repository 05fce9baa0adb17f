package artifact

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/event"
)

// Meta is the run metadata snapshot embedded in the payload.
type Meta struct {
	TsUTC       string   `json:"ts_utc"`
	Keywords    []string `json:"keywords"`
	City        *string  `json:"city"`
	State       *string  `json:"state"`
	Country     *string  `json:"country"`
	WithinMiles *int     `json:"within_miles"`
	WindowDays  int      `json:"window_days"`
	Sources     []string `json:"sources"`
	Count       int      `json:"count"`
}

// Payload is the artifact written at the end of every run. An empty
// events list with populated notes is a valid terminal state, not a
// failure signal.
type Payload struct {
	Meta   Meta          `json:"meta"`
	Events []event.Event `json:"events"`
	Notes  []string      `json:"notes"`
}

// NewMeta builds the metadata snapshot for a run starting at ts.
func NewMeta(ts time.Time, cfg config.Config, sources []string) Meta {
	meta := Meta{
		TsUTC:      ts.UTC().Format(time.RFC3339),
		Keywords:   cfg.Keywords,
		City:       optional(cfg.City),
		State:      optional(cfg.State),
		Country:    optional(cfg.Country),
		WindowDays: cfg.WindowDays,
		Sources:    sources,
	}
	if cfg.WithinMiles > 0 {
		within := cfg.WithinMiles
		meta.WithinMiles = &within
	}
	if meta.Keywords == nil {
		meta.Keywords = []string{}
	}
	if meta.Sources == nil {
		meta.Sources = []string{}
	}
	return meta
}

// New builds a payload, guaranteeing events and notes marshal as arrays
// rather than null and that meta.count matches the event list.
func New(meta Meta, events []event.Event, notes []string) Payload {
	if events == nil {
		events = []event.Event{}
	}
	if notes == nil {
		notes = []string{}
	}
	meta.Count = len(events)
	return Payload{Meta: meta, Events: events, Notes: notes}
}

// WriteJSON writes the payload to w as indented JSON.
func (p Payload) WriteJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(p)
}

// WriteFile persists the payload to path as indented JSON.
func (p Payload) WriteFile(path string) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing artifact: %w", err)
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
