package filter

import (
	"strings"
	"time"

	"github.com/aomarket/aom-harvest/internal/event"
)

// Predicate decides whether a canonical event survives a filter stage.
type Predicate func(event.Event) bool

// Window keeps events whose start falls inside [now, now+days]. Events
// with no start are always kept; unknown-date events are retained for
// manual review, never silently dropped.
func Window(now time.Time, days int) Predicate {
	cutoff := now.AddDate(0, 0, days)
	return func(e event.Event) bool {
		if e.Start == nil {
			return true
		}
		start := e.Start.UTC()
		return !start.Before(now) && !start.After(cutoff)
	}
}

// Keywords keeps events where any configured keyword appears
// case-insensitively in the title, description or location. With no
// keywords configured, every event passes.
func Keywords(words []string) Predicate {
	lowered := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			lowered = append(lowered, w)
		}
	}
	return func(e event.Event) bool {
		if len(lowered) == 0 {
			return true
		}
		haystack := strings.ToLower(e.Title + " " + deref(e.Description) + " " + deref(e.Location))
		for _, w := range lowered {
			if strings.Contains(haystack, w) {
				return true
			}
		}
		return false
	}
}

// Apply runs events through every predicate, keeping those that pass all
// of them. Input order is preserved.
func Apply(events []event.Event, preds ...Predicate) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		keep := true
		for _, pred := range preds {
			if !pred(e) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, e)
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
