package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aomarket/aom-harvest/internal/artifact"
	"github.com/aomarket/aom-harvest/internal/config"
	"github.com/aomarket/aom-harvest/internal/fetch"
	"github.com/aomarket/aom-harvest/internal/logger"
	"github.com/aomarket/aom-harvest/internal/pipeline"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig      string
	flagOut         string
	flagFormat      string
	flagKeywords    string
	flagCity        string
	flagState       string
	flagCountry     string
	flagWithinMiles int
	flagWindowDays  int
	flagFeeds       string
	flagSources     string
	flagVerbose     bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aom-harvest",
		Short: "Harvest event listings into one normalized JSON artifact",
		Long: `Harvest event listings from calendar feeds, a paginated search API and
scraped HTML result pages, then normalize, filter, dedupe and write one
{meta, events, notes} JSON artifact.

A valid artifact is written on every run: source failures become notes,
never a missing file.`,
		SilenceUsage: true,
		RunE:         runHarvest,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "Optional YAML config file")
	cmd.Flags().StringVar(&flagOut, "out", "", "Artifact output path (default from OUTPUT env or aom-events.json)")
	cmd.Flags().StringVar(&flagFormat, "format", "json", "Stdout rendering: json, csv, markdown or ics")
	cmd.Flags().StringVar(&flagKeywords, "keywords", "", "Comma-separated keywords (overrides KEYWORDS env)")
	cmd.Flags().StringVar(&flagCity, "city", "", "City filter")
	cmd.Flags().StringVar(&flagState, "state", "", "State filter")
	cmd.Flags().StringVar(&flagCountry, "country", "", "Country filter")
	cmd.Flags().IntVar(&flagWithinMiles, "within-miles", 0, "Radius for the location filter")
	cmd.Flags().IntVar(&flagWindowDays, "window-days", 0, "Harvest window length in days")
	cmd.Flags().StringVar(&flagFeeds, "feeds", "", "Comma-separated calendar feed URLs")
	cmd.Flags().StringVar(&flagSources, "sources", "", "Comma-separated enabled sources")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runHarvest is the main command logic
func runHarvest(cmd *cobra.Command, args []string) error {
	format := artifact.Format(strings.ToLower(flagFormat))
	if !artifact.ValidFormat(format) {
		return fmt.Errorf("invalid format: %s (must be json, csv, markdown or ics)", flagFormat)
	}

	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	client := fetch.New()
	runner := pipeline.New(cfg, client)
	payload := runner.Run(cmd.Context())

	// The artifact file is written no matter what the run collected; a
	// failure to persist it is the only fatal outcome.
	if err := payload.WriteFile(cfg.Output); err != nil {
		return err
	}

	logger.Info("artifact written", logger.Fields{
		"path":   cfg.Output,
		"events": payload.Meta.Count,
		"notes":  len(payload.Notes),
	})

	if err := payload.Write(cmd.OutOrStdout(), format); err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}
	return nil
}

// resolveConfig layers env, optional file and flag overrides.
func resolveConfig() (config.Config, error) {
	cfg := config.FromEnv()

	if flagConfig != "" {
		if err := cfg.LoadFile(flagConfig); err != nil {
			return cfg, err
		}
	}

	if flagKeywords != "" {
		cfg.Keywords = config.SplitList(flagKeywords)
	}
	if flagCity != "" {
		cfg.City = flagCity
	}
	if flagState != "" {
		cfg.State = flagState
	}
	if flagCountry != "" {
		cfg.Country = flagCountry
	}
	if flagWithinMiles > 0 {
		cfg.WithinMiles = flagWithinMiles
	}
	if flagWindowDays > 0 {
		cfg.WindowDays = flagWindowDays
	}
	if flagFeeds != "" {
		cfg.Feeds = config.SplitList(flagFeeds)
	}
	if flagSources != "" {
		cfg.Sources = config.SplitList(flagSources)
	}
	if flagOut != "" {
		cfg.Output = flagOut
	}
	return cfg, nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
