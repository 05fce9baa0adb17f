package pipeline

import "github.com/aomarket/aom-harvest/internal/event"

// Dedupe reduces the merged event list to first occurrences, keyed by
// (lowercased trimmed title, start or null, location or null). The input
// arrives in adapter declaration order, so the first occurrence is the
// one from the earliest-declared adapter. Later duplicates are discarded
// silently; duplication across sources is expected, not anomalous.
//
// Dedupe is idempotent: applying it to its own output returns an equal
// list.
func Dedupe(events []event.Event) []event.Event {
	seen := make(map[string]bool, len(events))
	unique := make([]event.Event, 0, len(events))
	for _, e := range events {
		key := e.Key()
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, e)
	}
	return unique
}
