// Package filter provides the pure predicates applied to canonical events
// after normalization: a time-window check and a keyword check.
//
// Both predicates are conservative. An event with no start timestamp is
// never excluded by the window, and an empty keyword list passes
// everything.
package filter
