package htmlsearch

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/aomarket/aom-harvest/internal/config"
)

// Variant is one search page to attempt, paired with the location that
// page is scoped to. Only city-scoped pages carry a location: a country
// or global results page says nothing about where an individual result
// takes place, so its candidates keep an empty location rather than
// inheriting the configured city.
type Variant struct {
	URL      string
	Location string
}

// Provider describes one scraped site: how its event-detail links look
// and which search pages to try, most specific first.
type Provider struct {
	Label      string
	DetailPath *regexp.Regexp

	// SearchURLs returns the ordered URL variants for one keyword:
	// city-scoped, then country-scoped, then a global fallback. Variants
	// whose location parts are not configured are omitted.
	SearchURLs func(cfg config.Config, keyword string) []Variant
}

// Eventbrite matches detail links like /e/steampunk-soiree-tickets-123.
var Eventbrite = Provider{
	Label:      "eventbrite",
	DetailPath: regexp.MustCompile(`(^|/)e/[^/]+`),
	SearchURLs: func(cfg config.Config, keyword string) []Variant {
		kw := slug(keyword)
		var variants []Variant
		if cfg.City != "" && cfg.State != "" {
			variants = append(variants, Variant{
				URL:      fmt.Sprintf("https://www.eventbrite.com/d/%s--%s/%s/", slug(cfg.State), slug(cfg.City), kw),
				Location: cfg.City,
			})
		}
		if cfg.Country != "" {
			variants = append(variants, Variant{URL: fmt.Sprintf("https://www.eventbrite.com/d/%s/%s/", slug(cfg.Country), kw)})
		}
		variants = append(variants, Variant{URL: fmt.Sprintf("https://www.eventbrite.com/d/online/%s/", kw)})
		return variants
	},
}

// TicketTailor matches detail links like /events/aethercon/1234.
var TicketTailor = Provider{
	Label:      "tickettailor",
	DetailPath: regexp.MustCompile(`(^|/)events/[^/]+`),
	SearchURLs: func(cfg config.Config, keyword string) []Variant {
		base := "https://www.tickettailor.com/search/?q=" + url.QueryEscape(keyword)
		var variants []Variant
		if cfg.City != "" {
			variants = append(variants, Variant{URL: base + "&location=" + url.QueryEscape(cfg.City), Location: cfg.City})
		}
		if cfg.Country != "" {
			variants = append(variants, Variant{URL: base + "&location=" + url.QueryEscape(cfg.Country)})
		}
		variants = append(variants, Variant{URL: base})
		return variants
	},
}

// slug lowercases a phrase and joins its words with dashes, the form both
// providers use in their path segments.
func slug(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "-")
}
