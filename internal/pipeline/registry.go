package pipeline

import (
	"fmt"

	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/fetch"
	"github.com/aomarket/aom-harvest/internal/source"
	"github.com/aomarket/aom-harvest/internal/source/htmlsearch"
	"github.com/aomarket/aom-harvest/internal/source/ics"
	"github.com/aomarket/aom-harvest/internal/source/pagedapi"
)

// Registry builds the closed, ordered set of adapters for a run. The
// declaration order here fixes the "first occurrence wins" order of the
// deduplicator. Enabled names that match no known adapter are reported as
// notes, never silently dropped.
func Registry(cfg config.Config, client *fetch.Client) ([]source.Source, []string) {
	known := map[string]bool{
		config.SourceICS:          true,
		config.SourceAPI:          true,
		config.SourceEventbrite:   true,
		config.SourceTicketTailor: true,
	}

	var notes []string
	for _, name := range cfg.Sources {
		if !known[name] {
			notes = append(notes, fmt.Sprintf("config: unknown source %q ignored", name))
		}
	}

	var sources []source.Source
	if cfg.SourceEnabled(config.SourceICS) && len(cfg.Feeds) > 0 {
		sources = append(sources, ics.New(client, cfg.Feeds))
	}
	if cfg.SourceEnabled(config.SourceAPI) && cfg.APIBaseURL != "" {
		sources = append(sources, pagedapi.New(client, cfg))
	}
	if cfg.SourceEnabled(config.SourceEventbrite) {
		sources = append(sources, htmlsearch.New(client, cfg, htmlsearch.Eventbrite))
	}
	if cfg.SourceEnabled(config.SourceTicketTailor) {
		sources = append(sources, htmlsearch.New(client, cfg, htmlsearch.TicketTailor))
	}
	return sources, notes
}
