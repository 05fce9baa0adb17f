package event

import (
	"testing"
	"time"
)

func TestNormalizeDropsEmptyTitles(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \t ", false},
		{"usable", "Tesla Night Market", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Normalize(Raw{Title: tt.title, Source: "ics"})
			if ok != tt.want {
				t.Errorf("Normalize(title=%q) ok = %v, expected %v", tt.title, ok, tt.want)
			}
		})
	}
}

func TestNormalizeTrimsAndNullsOut(t *testing.T) {
	evt, ok := Normalize(Raw{
		Title:       "  Aether Expo  ",
		Description: "   ",
		Location:    " Portland ",
		Source:      "api",
	})
	if !ok {
		t.Fatal("expected record to normalize")
	}

	if evt.Title != "Aether Expo" {
		t.Errorf("title = %q, expected trimmed", evt.Title)
	}
	if evt.Description != nil {
		t.Errorf("blank description should be nil, got %q", *evt.Description)
	}
	if evt.Location == nil || *evt.Location != "Portland" {
		t.Errorf("location = %v, expected Portland", evt.Location)
	}
	if evt.Venue != nil || evt.Organizer != nil || evt.URL != nil {
		t.Error("omitted optional fields should be nil")
	}
}

func TestNormalizeResolvesUTC(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	start := time.Date(2026, 1, 30, 9, 0, 0, 0, loc)

	evt, ok := Normalize(Raw{Title: "Faire", Start: &start, Source: "ics"})
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if evt.Start.Location() != time.UTC {
		t.Errorf("start location = %v, expected UTC", evt.Start.Location())
	}
	if !evt.Start.Equal(start) {
		t.Error("UTC conversion must not change the instant")
	}
}

func TestNormalizeTagsIncludeSource(t *testing.T) {
	evt, _ := Normalize(Raw{Title: "Faire", Source: "html:eventbrite", Tags: []string{"scraped", "html:eventbrite", " "}})

	want := map[string]bool{"html:eventbrite": true, "scraped": true}
	if len(evt.Tags) != len(want) {
		t.Fatalf("tags = %v, expected %d unique tags", evt.Tags, len(want))
	}
	for _, tag := range evt.Tags {
		if !want[tag] {
			t.Errorf("unexpected tag %q", tag)
		}
	}
}

func TestGenerateIDDeterministic(t *testing.T) {
	start := time.Date(2026, 1, 30, 17, 0, 0, 0, time.UTC)

	a := GenerateID("Tesla Night Market", &start, "ics")
	b := GenerateID("  TESLA night market ", &start, "ics")
	if a != b {
		t.Error("id must be stable under case and surrounding whitespace")
	}

	if GenerateID("Tesla Night Market", nil, "ics") == a {
		t.Error("id must distinguish null start from a concrete start")
	}
	if GenerateID("Tesla Night Market", &start, "api") == a {
		t.Error("id must distinguish source tags")
	}
}

func TestNormalizeIDStableAcrossRuns(t *testing.T) {
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	raw := Raw{Title: "Steampunk Soiree", Start: &start, Source: "api"}

	first, _ := Normalize(raw)
	second, _ := Normalize(raw)
	if first.ID != second.ID {
		t.Errorf("ids differ across runs: %s vs %s", first.ID, second.ID)
	}
}

func TestKeyUsesTitleStartLocation(t *testing.T) {
	start := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	loc := "Seattle"

	a := Event{Title: "Faire", Start: &start, Location: &loc}
	b := Event{Title: "FAIRE ", Start: &start, Location: &loc}
	if a.Key() != b.Key() {
		t.Error("key must normalize title case and whitespace")
	}

	c := Event{Title: "Faire", Location: &loc}
	if a.Key() == c.Key() {
		t.Error("key must distinguish null start")
	}
}
