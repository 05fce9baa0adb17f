// Package pipeline sequences the source adapters and the shared stages
// that follow them: normalization, window and keyword filtering,
// deduplication and artifact assembly.
//
// The pipeline's core guarantee is total robustness: every run produces a
// syntactically valid artifact. Adapter failures become notes, a soft
// wall-clock budget stops scheduling further adapters without cancelling
// in-flight work, and a single outermost recover converts even programmer
// error into a minimal valid payload.
package pipeline
