// Package source defines the contract implemented by every event source
// adapter: calendar feeds, the paginated search API and scraped HTML
// result pages.
//
// An adapter never returns an error and never lets a failure escape its
// boundary. Whatever goes wrong inside (transport, auth, parsing) is
// converted into diagnostic notes on the Result, alongside any records
// that were collected before the failure.
package source
