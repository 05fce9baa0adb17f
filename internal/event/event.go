package event

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Event is the canonical, provider-agnostic record produced by Normalize.
// It is never mutated after construction; pipeline stages that need a
// changed value build a new Event.
type Event struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Venue       *string    `json:"venue"`
	Organizer   *string    `json:"organizer"`
	URL         *string    `json:"url"`
	Start       *time.Time `json:"start"`
	End         *time.Time `json:"end"`
	DateText    string     `json:"date_text,omitempty"`
	Source      string     `json:"source"`
	Tags        []string   `json:"tags"`
}

// Raw is a provider record as collected by a source adapter, before
// normalization. String fields may be empty; timestamps may be nil when
// the provider did not supply one or it could not be parsed.
type Raw struct {
	Title       string
	Description string
	Location    string
	Venue       string
	Organizer   string
	URL         string
	Start       *time.Time
	End         *time.Time
	DateText    string
	Source      string
	Tags        []string
}

// GenerateID creates a deterministic id for an event based on its
// normalized title, start timestamp and source tag. Events with no start
// hash the empty string in its place.
func GenerateID(title string, start *time.Time, source string) string {
	normalized := strings.ToLower(strings.TrimSpace(title))
	stamp := ""
	if start != nil {
		stamp = start.UTC().Format(time.RFC3339)
	}
	h := sha1.New()
	h.Write([]byte(normalized + "|" + stamp + "|" + source))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// Key returns the dedup key for an event: lowercased trimmed title, start
// or empty, location or empty.
func (e Event) Key() string {
	stamp := ""
	if e.Start != nil {
		stamp = e.Start.UTC().Format(time.RFC3339)
	}
	loc := ""
	if e.Location != nil {
		loc = *e.Location
	}
	return strings.ToLower(strings.TrimSpace(e.Title)) + "|" + stamp + "|" + loc
}

// Normalize maps a raw provider record into a canonical Event. It trims
// strings, nulls out empties, resolves timestamps to UTC and derives the
// id. The second return value is false when the record has no usable
// title and must be dropped.
func Normalize(raw Raw) (Event, bool) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return Event{}, false
	}

	start := toUTC(raw.Start)
	end := toUTC(raw.End)

	evt := Event{
		ID:          GenerateID(title, start, raw.Source),
		Title:       title,
		Description: optional(raw.Description),
		Location:    optional(raw.Location),
		Venue:       optional(raw.Venue),
		Organizer:   optional(raw.Organizer),
		URL:         optional(raw.URL),
		Start:       start,
		End:         end,
		DateText:    strings.TrimSpace(raw.DateText),
		Source:      raw.Source,
		Tags:        tagSet(raw.Tags, raw.Source),
	}
	return evt, true
}

// toUTC rebinds a timestamp to UTC without changing the instant.
func toUTC(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// optional trims a provider string and converts the empty result to nil.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// tagSet merges the adapter-supplied tags with the source tag, dropping
// blanks and duplicates. The result is sorted so identical inputs always
// produce an identical event value.
func tagSet(tags []string, source string) []string {
	seen := make(map[string]bool, len(tags)+1)
	out := make([]string, 0, len(tags)+1)
	for _, t := range append([]string{source}, tags...) {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
