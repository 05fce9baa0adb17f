package htmlsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/event"
	"github.com/aomarket/aom-harvest/internal/fetch"
)

func loadFixture(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile("testdata/results.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	return data
}

func findByTitle(records []event.Raw, title string) *event.Raw {
	for i := range records {
		if records[i].Title == title {
			return &records[i]
		}
	}
	return nil
}

func TestParsePage(t *testing.T) {
	adapter := New(fetch.New(fetch.WithDelay(0)), config.Config{City: "Portland"}, Eventbrite)

	variant := Variant{URL: "https://www.eventbrite.com/d/or--portland/steampunk/", Location: "Portland"}
	records, err := adapter.parsePage(variant, loadFixture(t))
	if err != nil {
		t.Fatalf("parsePage failed: %v", err)
	}

	// Three usable candidates: the nested duplicate collapses and the
	// one-character title is skipped.
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d: %+v", len(records), records)
	}

	for _, rec := range records {
		if rec.Source != "html:eventbrite" {
			t.Errorf("source = %q, expected html:eventbrite", rec.Source)
		}
		if !strings.HasPrefix(rec.URL, "https://www.eventbrite.com/e/") {
			t.Errorf("url = %q, expected an absolute detail link", rec.URL)
		}
		if rec.Start != nil {
			t.Error("html candidates must never carry a parsed timestamp")
		}
		if rec.Location != "Portland" {
			t.Errorf("location = %q, expected the city-scoped page's city", rec.Location)
		}
	}
}

func TestParsePageFallbackVariantsCarryNoLocation(t *testing.T) {
	adapter := New(fetch.New(fetch.WithDelay(0)), config.Config{City: "Portland"}, Eventbrite)

	variant := Variant{URL: "https://www.eventbrite.com/d/online/steampunk/"}
	records, err := adapter.parsePage(variant, loadFixture(t))
	if err != nil {
		t.Fatalf("parsePage failed: %v", err)
	}
	if len(records) == 0 {
		t.Fatal("expected candidates from the fixture")
	}
	for _, rec := range records {
		if rec.Location != "" {
			t.Errorf("location = %q, a global results page does not evidence the configured city", rec.Location)
		}
	}
}

func TestParsePagePrefersMachineReadableDates(t *testing.T) {
	adapter := New(fetch.New(fetch.WithDelay(0)), config.Config{}, Eventbrite)
	records, err := adapter.parsePage(Variant{URL: "https://www.eventbrite.com/d/online/steampunk/"}, loadFixture(t))
	if err != nil {
		t.Fatalf("parsePage failed: %v", err)
	}

	tests := []struct {
		title string
		want  string
	}{
		{"Grand Aether Exposition", "2026-03-14T19:00:00Z"}, // <time datetime> wins
		{"Tesla Night Market", "Sat, Apr 4"},                // free-text hint kept raw
		{"Mystery Soiree", ""},                              // never fabricated
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			rec := findByTitle(records, tt.title)
			if rec == nil {
				t.Fatalf("candidate %q not extracted", tt.title)
			}
			if rec.DateText != tt.want {
				t.Errorf("date hint = %q, expected %q", rec.DateText, tt.want)
			}
		})
	}
}

func TestFetchUnionsIndependentVariants(t *testing.T) {
	var urls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		urls = append(urls, r.URL.Path)
		if strings.HasPrefix(r.URL.Path, "/city") {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write(loadFixture(t))
	}))
	defer server.Close()

	provider := Provider{
		Label:      "eventbrite",
		DetailPath: regexp.MustCompile(`(^|/)e/[^/]+`),
		SearchURLs: func(cfg config.Config, keyword string) []Variant {
			return []Variant{
				{URL: server.URL + "/city", Location: "Portland"},
				{URL: server.URL + "/global"},
			}
		},
	}

	cfg := config.Config{Keywords: []string{"steampunk"}}
	adapter := New(fetch.New(fetch.WithDelay(0)), cfg, provider)

	res := adapter.Fetch(context.Background())
	if len(urls) != 2 {
		t.Fatalf("expected both variants attempted, saw %v", urls)
	}
	if len(res.Records) != 3 {
		t.Errorf("records = %d, expected the surviving variant's candidates", len(res.Records))
	}
	if len(res.Notes) != 1 || !strings.Contains(res.Notes[0], "status 500") {
		t.Errorf("expected one note for the failed variant, got %v", res.Notes)
	}
}

func TestEventbriteSearchURLOrder(t *testing.T) {
	cfg := config.Config{City: "Portland", State: "OR", Country: "US"}
	variants := Eventbrite.SearchURLs(cfg, "steampunk")

	want := []string{
		"https://www.eventbrite.com/d/or--portland/steampunk/",
		"https://www.eventbrite.com/d/us/steampunk/",
		"https://www.eventbrite.com/d/online/steampunk/",
	}
	if len(variants) != len(want) {
		t.Fatalf("variants = %v", variants)
	}
	for i := range want {
		if variants[i].URL != want[i] {
			t.Errorf("variants[%d].URL = %q, expected %q", i, variants[i].URL, want[i])
		}
	}

	// Only the city-scoped page evidences the city.
	if variants[0].Location != "Portland" {
		t.Errorf("city variant location = %q", variants[0].Location)
	}
	for _, v := range variants[1:] {
		if v.Location != "" {
			t.Errorf("broader variant %q must not claim a location, got %q", v.URL, v.Location)
		}
	}
}

func TestEventbriteSearchURLOmitsUnconfiguredScopes(t *testing.T) {
	variants := Eventbrite.SearchURLs(config.Config{}, "tesla coil")
	if len(variants) != 1 {
		t.Fatalf("variants = %v, expected only the global fallback", variants)
	}
	if variants[0].URL != "https://www.eventbrite.com/d/online/tesla-coil/" {
		t.Errorf("global fallback = %q", variants[0].URL)
	}
	if variants[0].Location != "" {
		t.Errorf("global fallback location = %q", variants[0].Location)
	}
}

func TestTicketTailorSearchURLs(t *testing.T) {
	cfg := config.Config{City: "Portland", Country: "US"}
	variants := TicketTailor.SearchURLs(cfg, "steampunk")
	if len(variants) != 3 {
		t.Fatalf("variants = %v", variants)
	}
	if !strings.Contains(variants[0].URL, "location=Portland") {
		t.Errorf("city variant = %q", variants[0].URL)
	}
	if variants[0].Location != "Portland" {
		t.Errorf("city variant location = %q", variants[0].Location)
	}
	if !strings.Contains(variants[2].URL, "q=steampunk") || strings.Contains(variants[2].URL, "location=") {
		t.Errorf("global variant = %q", variants[2].URL)
	}
	if variants[1].Location != "" || variants[2].Location != "" {
		t.Error("broader variants must not claim a location")
	}
}
