// Package config resolves the harvester configuration from environment
// variables, an optional YAML file and CLI flag overrides.
//
// Resolution is tolerant by design: an unparseable integer falls back to
// its default and a missing value falls back to a curated default, so a
// misconfigured run still harvests with sane settings instead of failing.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source names accepted in the enabled-sources list. The set is closed;
// unknown names are reported as notes by the pipeline, not silently
// ignored.
const (
	SourceICS          = "ics"
	SourceAPI          = "api"
	SourceEventbrite   = "html:eventbrite"
	SourceTicketTailor = "html:tickettailor"
)

// Defaults restored from the production deployment.
var (
	DefaultKeywords = []string{"steampunk", "victorian", "renaissance", "faire", "aether", "tesla", "edison"}
	DefaultSources  = []string{SourceICS, SourceAPI, SourceEventbrite, SourceTicketTailor}
)

const (
	DefaultWindowDays = 180
	DefaultOutput     = "aom-events.json"
	DefaultSoftBudget = 240 * time.Second
	DefaultAPIBaseURL = "https://api.aomarket.io"
)

// Config is the resolved, read-only configuration for one run.
type Config struct {
	Keywords    []string `yaml:"keywords"`
	City        string   `yaml:"city"`
	State       string   `yaml:"state"`
	Country     string   `yaml:"country"`
	WithinMiles int      `yaml:"within_miles"` // 0 means no radius filter
	WindowDays  int      `yaml:"window_days"`
	Feeds       []string `yaml:"ics_feeds"`
	Sources     []string `yaml:"sources"`
	APIBaseURL  string   `yaml:"api_base_url"`
	APIKey      string   `yaml:"api_key"`
	Output      string   `yaml:"output"`

	SoftBudget time.Duration `yaml:"-"`
}

// FromEnv resolves a configuration from the process environment, applying
// defaults for anything absent or unparseable.
func FromEnv() Config {
	cfg := Config{
		Keywords:    SplitList(envStr("KEYWORDS", strings.Join(DefaultKeywords, ","))),
		City:        envStr("CITY", ""),
		State:       envStr("STATE", ""),
		Country:     envStr("COUNTRY", ""),
		WithinMiles: envInt("WITHIN_MILES", 0),
		WindowDays:  envInt("WINDOW_DAYS", DefaultWindowDays),
		Feeds:       SplitList(envStr("ICS_FEEDS", "")),
		Sources:     SplitList(envStr("SOURCES", strings.Join(DefaultSources, ","))),
		APIBaseURL:  envStr("EVENTS_API_URL", DefaultAPIBaseURL),
		APIKey:      envStr("EVENTS_API_KEY", ""),
		Output:      envStr("OUTPUT", DefaultOutput),
		SoftBudget:  DefaultSoftBudget,
	}
	return cfg
}

// LoadFile overlays values from a YAML file onto the configuration.
// Only keys present in the file replace resolved values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	var overlay Config
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if len(overlay.Keywords) > 0 {
		c.Keywords = overlay.Keywords
	}
	if overlay.City != "" {
		c.City = overlay.City
	}
	if overlay.State != "" {
		c.State = overlay.State
	}
	if overlay.Country != "" {
		c.Country = overlay.Country
	}
	if overlay.WithinMiles > 0 {
		c.WithinMiles = overlay.WithinMiles
	}
	if overlay.WindowDays > 0 {
		c.WindowDays = overlay.WindowDays
	}
	if len(overlay.Feeds) > 0 {
		c.Feeds = overlay.Feeds
	}
	if len(overlay.Sources) > 0 {
		c.Sources = overlay.Sources
	}
	if overlay.APIBaseURL != "" {
		c.APIBaseURL = overlay.APIBaseURL
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if overlay.Output != "" {
		c.Output = overlay.Output
	}
	return nil
}

// SourceEnabled reports whether a source name appears in the enabled list.
func (c Config) SourceEnabled(name string) bool {
	for _, s := range c.Sources {
		if s == name {
			return true
		}
	}
	return false
}

// envStr reads a trimmed environment variable, falling back to a default
// when unset or blank.
func envStr(name, fallback string) string {
	val := strings.TrimSpace(os.Getenv(name))
	if val == "" {
		return fallback
	}
	return val
}

// envInt reads an integer environment variable, falling back on any parse
// failure rather than erroring.
func envInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

var listSeparators = regexp.MustCompile(`[,\n]+`)

// SplitList splits a comma- or newline-separated string into trimmed,
// non-empty parts.
func SplitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := listSeparators.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
