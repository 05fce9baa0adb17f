// Package htmlsearch implements the HTML link source adapter.
//
// Extraction is heuristic: anchors whose target path looks like an event
// detail page become candidate events, with the anchor text as the title.
// Dates are best-effort raw strings found near the anchor, never
// fabricated timestamps; machine-readable datetime attributes are
// preferred over free text. Each provider exposes an ordered list of
// search URL variants (city-scoped, country-scoped, global) that are
// attempted independently and unioned.
package htmlsearch
