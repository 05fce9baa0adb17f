package artifact

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// Format selects a rendering of the final event list.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatICS      Format = "ics"
)

// ValidFormat reports whether f names a known rendering.
func ValidFormat(f Format) bool {
	switch f {
	case FormatJSON, FormatCSV, FormatMarkdown, FormatICS:
		return true
	}
	return false
}

// Write renders the payload to w in the requested format.
func (p Payload) Write(w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		return p.WriteJSON(w)
	case FormatCSV:
		return p.WriteCSV(w)
	case FormatMarkdown:
		return p.WriteMarkdown(w)
	case FormatICS:
		return p.WriteICS(w)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

var csvHeader = []string{"id", "title", "start", "end", "location", "venue", "organizer", "url", "source", "tags"}

// WriteCSV renders the event list as CSV with a fixed header row.
func (p Payload) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, e := range p.Events {
		row := []string{
			e.ID,
			e.Title,
			stamp(e.Start),
			stamp(e.End),
			deref(e.Location),
			deref(e.Venue),
			deref(e.Organizer),
			deref(e.URL),
			e.Source,
			strings.Join(e.Tags, ";"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMarkdown renders the event list as a Markdown table preceded by a
// short run summary.
func (p Payload) WriteMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# Harvested events\n\n")
	fmt.Fprintf(w, "Run %s: %d event(s)\n\n", p.Meta.TsUTC, p.Meta.Count)

	if len(p.Events) == 0 {
		fmt.Fprintln(w, "No events matched this run.")
	} else {
		fmt.Fprintln(w, "| Title | Start | Location | Source |")
		fmt.Fprintln(w, "| --- | --- | --- | --- |")
		for _, e := range p.Events {
			title := e.Title
			if e.URL != nil {
				title = fmt.Sprintf("[%s](%s)", e.Title, *e.URL)
			}
			start := stamp(e.Start)
			if start == "" && e.DateText != "" {
				start = e.DateText
			}
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
				mdCell(title), mdCell(start), mdCell(deref(e.Location)), e.Source)
		}
	}

	if len(p.Notes) > 0 {
		fmt.Fprintf(w, "\n## Notes\n\n")
		for _, note := range p.Notes {
			fmt.Fprintf(w, "- %s\n", note)
		}
	}
	return nil
}

// WriteICS renders the events that have a start timestamp as an
// iCalendar feed, so a harvest can be subscribed to directly.
func (p Payload) WriteICS(w io.Writer) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//aomarket//aom-harvest//EN")

	for _, e := range p.Events {
		if e.Start == nil {
			continue
		}
		ve := cal.AddEvent(e.ID + "@aom-harvest")
		ve.SetDtStampTime(time.Now().UTC())
		ve.SetStartAt(e.Start.UTC())
		if e.End != nil {
			ve.SetEndAt(e.End.UTC())
		}
		ve.SetSummary(e.Title)
		if e.Description != nil {
			ve.SetDescription(*e.Description)
		}
		if e.Location != nil {
			ve.SetLocation(*e.Location)
		}
		if e.URL != nil {
			ve.SetURL(*e.URL)
		}
	}
	return cal.SerializeTo(w)
}

func stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// mdCell escapes pipe characters so cell content cannot break the table.
func mdCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
