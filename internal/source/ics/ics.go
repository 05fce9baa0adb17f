package ics

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/aomarket/aom-harvest/internal/event"
	"github.com/aomarket/aom-harvest/internal/fetch"
	"github.com/aomarket/aom-harvest/internal/logger"
	"github.com/aomarket/aom-harvest/internal/source"
)

// SourceName is the tag recorded on every event this adapter produces.
const SourceName = "ics"

// Adapter harvests events from a list of calendar feed URLs.
type Adapter struct {
	client *fetch.Client
	feeds  []string
}

// New creates a calendar adapter for the given feed URLs.
func New(client *fetch.Client, feeds []string) *Adapter {
	return &Adapter{client: client, feeds: feeds}
}

// Name returns the adapter's source tag.
func (a *Adapter) Name() string { return SourceName }

// Fetch collects raw records from every configured feed. A failing feed
// contributes a note and the remaining feeds are still attempted.
func (a *Adapter) Fetch(ctx context.Context) source.Result {
	var res source.Result
	for i, url := range a.feeds {
		if i > 0 {
			a.client.Pause()
		}

		status, body, err := a.client.Get(ctx, url)
		if err != nil {
			res.Notef("ics: fetch %s: %v", url, err)
			continue
		}
		if status != http.StatusOK {
			res.Notef("ics: fetch %s: status %d", url, status)
			continue
		}

		records, notes := ParseFeed(url, body)
		res.Records = append(res.Records, records...)
		res.Notes = append(res.Notes, notes...)

		logger.Debug("ics feed parsed", logger.Fields{
			"url":     url,
			"records": len(records),
		})
	}
	return res
}

// ParseFeed parses one calendar body into raw records. A malformed block
// is skipped without aborting the feed; a wholly unparseable body yields
// zero records and one note.
func ParseFeed(url string, body []byte) ([]event.Raw, []string) {
	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, []string{"ics: parse " + url + ": " + err.Error()}
	}

	blocks := cal.Events()
	records := make([]event.Raw, 0, len(blocks))
	for _, block := range blocks {
		raw, ok := parseBlock(block)
		if !ok {
			continue
		}
		records = append(records, raw)
	}

	var notes []string
	if len(records) == 0 && len(blocks) > 0 {
		notes = append(notes, "ics: "+url+": no usable events")
	}
	return records, notes
}

// parseBlock extracts one raw record from a VEVENT. It returns false for
// blocks with no summary and for the defensive end-before-start case;
// everything else passes through for the shared pipeline to judge.
func parseBlock(block *ical.VEvent) (event.Raw, bool) {
	props := lastWins(block)

	title := props["SUMMARY"]
	if title == "" {
		return event.Raw{}, false
	}

	start := parseStamp(props["DTSTART"])
	end := parseStamp(props["DTEND"])
	if start != nil && end != nil && end.Before(*start) {
		return event.Raw{}, false
	}

	return event.Raw{
		Title:       title,
		Description: props["DESCRIPTION"],
		Location:    props["LOCATION"],
		Organizer:   props["ORGANIZER"],
		URL:         props["URL"],
		Start:       start,
		End:         end,
		Source:      SourceName,
	}, true
}

// lastWins flattens a block's property list into a map where a duplicated
// key keeps its last occurrence.
func lastWins(block *ical.VEvent) map[string]string {
	props := make(map[string]string, len(block.Properties))
	for _, p := range block.Properties {
		props[p.IANAToken] = p.Value
	}
	return props
}

const (
	layoutUTC      = "20060102T150405Z"
	layoutFloating = "20060102T150405"
	layoutDate     = "20060102"
)

// parseStamp parses the three accepted timestamp forms. Floating times
// are read as UTC so identical input parses identically on any machine;
// date-only values map to that date's midnight UTC. Anything else yields
// nil.
func parseStamp(v string) *time.Time {
	if v == "" {
		return nil
	}

	var t time.Time
	var err error
	switch {
	case v[len(v)-1] == 'Z':
		t, err = time.Parse(layoutUTC, v)
	case strings.ContainsRune(v, 'T'):
		t, err = time.Parse(layoutFloating, v)
	default:
		t, err = time.Parse(layoutDate, v)
	}
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
