package htmlsearch

import (
	"bytes"
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/event"
	"github.com/aomarket/aom-harvest/internal/fetch"
	"github.com/aomarket/aom-harvest/internal/logger"
	"github.com/aomarket/aom-harvest/internal/source"
)

// ancestorDepth bounds how far up the DOM we look for a date hint near a
// candidate anchor.
const ancestorDepth = 3

// Adapter scrapes one provider's public search result pages.
type Adapter struct {
	client   *fetch.Client
	cfg      config.Config
	provider Provider
}

// New creates an HTML adapter for one provider.
func New(client *fetch.Client, cfg config.Config, provider Provider) *Adapter {
	return &Adapter{client: client, cfg: cfg, provider: provider}
}

// Name returns the adapter's source tag, e.g. "html:eventbrite".
func (a *Adapter) Name() string { return "html:" + a.provider.Label }

// Fetch tries every search URL variant for every configured keyword. A
// failed variant contributes a note and the remaining variants are still
// attempted; results are unioned.
func (a *Adapter) Fetch(ctx context.Context) source.Result {
	var res source.Result
	first := true
	for _, keyword := range a.cfg.Keywords {
		for _, variant := range a.provider.SearchURLs(a.cfg, keyword) {
			if !first {
				a.client.Pause()
			}
			first = false

			status, body, err := a.client.Get(ctx, variant.URL)
			if err != nil {
				res.Notef("%s: fetch %s: %v", a.Name(), variant.URL, err)
				continue
			}
			if status != http.StatusOK {
				res.Notef("%s: fetch %s: status %d", a.Name(), variant.URL, status)
				continue
			}

			records, err := a.parsePage(variant, body)
			if err != nil {
				res.Notef("%s: parse %s: %v", a.Name(), variant.URL, err)
				continue
			}
			res.Records = append(res.Records, records...)

			logger.Debug("html page parsed", logger.Fields{
				"source":  a.Name(),
				"url":     variant.URL,
				"records": len(records),
			})
		}
	}
	return res
}

// parsePage extracts candidate events from one result page. Candidates are
// de-duplicated by (normalized link path, lowercase title) so the same
// anchor counted twice from nested DOM matches is returned once. Each
// record gets the variant's location scope, which is empty for pages
// broader than the configured city.
func (a *Adapter) parsePage(variant Variant, body []byte) ([]event.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(variant.URL)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	records := make([]event.Raw, 0)

	doc.Find("a[href]").Each(func(i int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		link := resolveLink(base, href)
		if link == nil || !a.provider.DetailPath.MatchString(link.Path) {
			return
		}

		title := collapseSpace(sel.Text())
		if len(title) < 3 {
			return
		}

		key := strings.TrimRight(link.Path, "/") + "|" + strings.ToLower(title)
		if seen[key] {
			return
		}
		seen[key] = true

		records = append(records, event.Raw{
			Title:    title,
			URL:      link.String(),
			DateText: dateHint(sel),
			Location: variant.Location,
			Source:   a.Name(),
		})
	})

	return records, nil
}

// resolveLink turns an anchor href into an absolute URL, discarding
// anchors that are not http(s) links.
func resolveLink(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" {
		return nil
	}
	u, err := base.Parse(href)
	if err != nil {
		return nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil
	}
	return u
}

// dateHintPattern matches the date-like fragments providers render next
// to their event cards, e.g. "Sat, Mar 14", "March 14, 2026", "14/03/2026"
// or "2026-03-14".
var dateHintPattern = regexp.MustCompile(
	`(?i)\b(?:(?:mon|tue|wed|thu|fri|sat|sun)[a-z]*,?\s+)?` +
		`(?:(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2}(?:,?\s+\d{4})?` +
		`|\d{1,2}/\d{1,2}/\d{2,4}` +
		`|\d{4}-\d{2}-\d{2})\b`)

// dateHint walks a few ancestors of a candidate anchor looking for a
// date-like hint. A machine-readable <time datetime="..."> attribute is
// preferred; otherwise the first date-like fragment of the surrounding
// text is kept as raw text. Dates are never fabricated: no hint means an
// empty string.
func dateHint(sel *goquery.Selection) string {
	node := sel
	for depth := 0; depth <= ancestorDepth; depth++ {
		// Stop before a container holding several result anchors: a hint
		// found there would belong to a sibling card, not this candidate.
		if depth > 0 && node.Find("a[href]").Length() > 1 {
			break
		}
		if t := node.Find("time[datetime]").First(); t.Length() > 0 {
			if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
				return strings.TrimSpace(dt)
			}
		}
		if match := dateHintPattern.FindString(node.Text()); match != "" {
			return collapseSpace(match)
		}
		node = node.Parent()
		if node.Length() == 0 {
			break
		}
	}
	return ""
}

// collapseSpace trims a string and folds internal whitespace runs into
// single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
