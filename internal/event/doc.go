// Package event provides the canonical event model shared by every source
// adapter and pipeline stage.
//
// The event package handles normalization of raw provider records into
// canonical events and deterministic identification. Each event is assigned
// a SHA1-based id derived from its normalized title, start timestamp and
// source tag, so re-running the pipeline against unchanged input yields
// identical ids.
package event
