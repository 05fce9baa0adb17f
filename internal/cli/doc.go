// Package cli implements the aom-harvest command line interface.
//
// The command resolves configuration from environment variables, an
// optional YAML file and flag overrides, runs the harvest pipeline and
// writes the JSON artifact. The process exits zero whenever the artifact
// was written, regardless of how much data it contains; partial and even
// empty harvests are reported through the artifact's notes, not the exit
// code.
package cli
