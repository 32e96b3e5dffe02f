// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/litscout/internal/aggregate"
	"github.com/pdiddy/litscout/internal/archive"
	"github.com/pdiddy/litscout/internal/export"
	"github.com/pdiddy/litscout/internal/provider"
	"github.com/pdiddy/litscout/internal/state"
	"github.com/pdiddy/litscout/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search academic APIs for papers and rank the merged results",
	Long: `Search queries the selected academic APIs in parallel, merges duplicate
papers by DOI and normalized title, scores the merged set against the query,
and prints the ranked results.

A failing source never aborts the run; its error appears in the per-source
diagnostics. Use --save to keep the run as a YAML query file and --archive
to store it in the local SQLite archive.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}

	searchCfg, dedupeCfg, weights := searchConfigFromFlags(cmd)
	filter, sortMode, err := filterFromFlags(cmd)
	if err != nil {
		return err
	}

	// A saved setup provides defaults; explicit flags still win.
	if label, _ := cmd.Flags().GetString("saved"); label != "" {
		setup, ok := loadState(cmd).FindSavedSearch(label)
		if !ok {
			return fmt.Errorf("no saved setup named %q", label)
		}
		applySavedSetup(cmd, setup, &query, &searchCfg, &dedupeCfg, &filter, &sortMode)
	}

	backends, err := provider.ForSources(searchCfg)
	if err != nil {
		return err
	}

	progress := func(fraction float64) {
		fmt.Fprintf(os.Stderr, "progress: %3.0f%%\n", fraction*100)
	}

	records, stats, err := aggregate.RunSearch(
		context.Background(), query, backends, searchCfg, dedupeCfg, weights,
		progress, os.Stderr,
	)
	if err != nil {
		return err
	}
	rawCount := 0
	for _, s := range stats {
		rawCount += s.Count
	}

	ranked := aggregate.FilterAndSort(records, filter, sortMode)
	if maxRows, _ := cmd.Flags().GetInt("max-rows"); maxRows > 0 && len(ranked) > maxRows {
		ranked = ranked[:maxRows]
	}

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := aggregate.WriteQueryFile(savePath, query, searchCfg, dedupeCfg, weights, ranked, stats, rawCount); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved query file: %s\n", savePath)
	}

	if doArchive, _ := cmd.Flags().GetBool("archive"); doArchive {
		archiveDir, _ := cmd.Flags().GetString("archive-dir")
		store, err := archive.NewStore(types.ArchiveConfig{ArchiveDir: archiveDir})
		if err != nil {
			return err
		}
		defer store.Close()
		runID, err := store.ArchiveRun(context.Background(), query, ranked)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Archived run %d (%d records)\n", runID, len(ranked))
	}

	format, _ := cmd.Flags().GetString("format")
	return writeResults(ranked, stats, query, format)
}

// writeResults dispatches on the output format. Unknown formats are an error.
func writeResults(ranked []types.ScoredRecord, stats []types.SourceStat, query, format string) error {
	switch format {
	case "table", "":
		export.FormatTable(ranked, stats, os.Stdout)
		return nil
	case "json":
		return export.FormatJSON(ranked, os.Stdout)
	case "csv":
		return export.FormatCSV(ranked, os.Stdout)
	case "bibtex":
		return export.FormatBibTeX(ranked, os.Stdout)
	case "ris":
		return export.FormatRIS(ranked, os.Stdout)
	case "csl":
		return export.FormatCSL(ranked, os.Stdout)
	case "brief":
		_, err := fmt.Fprintln(os.Stdout, export.MarkdownBrief(ranked, query, stats, 10))
		return err
	default:
		return fmt.Errorf("unsupported format %q: use table, json, csv, bibtex, ris, csl, or brief", format)
	}
}

// searchConfigFromFlags builds the fetch, dedupe, and weight settings.
// API keys and the contact email fall back to .secrets/ files and the
// config file when the flag is empty.
func searchConfigFromFlags(cmd *cobra.Command) (types.SearchConfig, types.DedupeConfig, types.ScoreWeights) {
	sources, _ := cmd.Flags().GetStringSlice("sources")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	interval, _ := cmd.Flags().GetDuration("request-interval")

	ssKey, _ := cmd.Flags().GetString("semantic-scholar-api-key")
	googleKey, _ := cmd.Flags().GetString("google-api-key")
	cseID, _ := cmd.Flags().GetString("google-cse-id")
	email, _ := cmd.Flags().GetString("email")

	cfg := types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   timeout,
			UserAgent: fmt.Sprintf("litscout/%s", version),
		},
		MaxResults:            maxResults,
		Sources:               sources,
		MaxRetries:            maxRetries,
		RequestInterval:       interval,
		SemanticScholarAPIKey: secretDefault("semantic-scholar-api-key", ssKey),
		GoogleAPIKey:          secretDefault("google-api-key", googleKey),
		GoogleCSEID:           secretDefault("google-cse-id", cseID),
		ContactEmail:          secretDefault("contact-email", email),
	}
	if cfg.ContactEmail == "" {
		cfg.ContactEmail = viper.GetString("search.contact_email")
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = viper.GetStringSlice("search.sources")
	}

	fuzzy, _ := cmd.Flags().GetBool("fuzzy-title")
	threshold, _ := cmd.Flags().GetFloat64("fuzzy-threshold")
	dedupeCfg := types.DedupeConfig{FuzzyTitle: fuzzy, FuzzyThreshold: threshold}

	wText, _ := cmd.Flags().GetFloat64("w-text")
	wCite, _ := cmd.Flags().GetFloat64("w-citation")
	wRecency, _ := cmd.Flags().GetFloat64("w-recency")
	weights := types.ScoreWeights{Text: wText, Citation: wCite, Recency: wRecency}

	return cfg, dedupeCfg, weights
}

func filterFromFlags(cmd *cobra.Command) (types.FilterConfig, types.SortMode, error) {
	yearFrom, _ := cmd.Flags().GetInt("year-from")
	yearTo, _ := cmd.Flags().GetInt("year-to")
	minCitations, _ := cmd.Flags().GetInt("min-citations")
	oaOnly, _ := cmd.Flags().GetBool("oa-only")
	minSources, _ := cmd.Flags().GetInt("min-sources")
	titleContains, _ := cmd.Flags().GetString("title-contains")
	authorContains, _ := cmd.Flags().GetString("author-contains")
	venueContains, _ := cmd.Flags().GetString("venue-contains")

	f := types.FilterConfig{
		YearFrom:       yearFrom,
		YearTo:         yearTo,
		MinCitations:   minCitations,
		OpenAccessOnly: oaOnly,
		MinSources:     minSources,
		TitleContains:  titleContains,
		AuthorContains: authorContains,
		VenueContains:  venueContains,
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	mode, err := parseSortMode(sortFlag)
	return f, mode, err
}

func parseSortMode(s string) (types.SortMode, error) {
	switch s {
	case "", "relevance":
		return types.SortRelevance, nil
	case "cited":
		return types.SortMostCited, nil
	case "newest":
		return types.SortNewest, nil
	case "oldest":
		return types.SortOldest, nil
	case "title":
		return types.SortTitleAsc, nil
	}
	return "", fmt.Errorf("unsupported sort %q: use relevance, cited, newest, oldest, or title", s)
}

// applySavedSetup copies saved values into settings the user did not
// override on the command line.
func applySavedSetup(cmd *cobra.Command, setup state.SearchSetup, query *string, cfg *types.SearchConfig, dedupeCfg *types.DedupeConfig, filter *types.FilterConfig, mode *types.SortMode) {
	if *query == "" {
		*query = setup.Query
	}
	if !cmd.Flags().Changed("sources") && len(setup.Sources) > 0 {
		cfg.Sources = setup.Sources
	}
	if !cmd.Flags().Changed("max-results") && setup.MaxResults > 0 {
		cfg.MaxResults = setup.MaxResults
	}
	if !cmd.Flags().Changed("fuzzy-title") {
		dedupeCfg.FuzzyTitle = setup.FuzzyTitle
	}
	if !cmd.Flags().Changed("fuzzy-threshold") && setup.FuzzyThreshold > 0 {
		dedupeCfg.FuzzyThreshold = setup.FuzzyThreshold
	}
	if !cmd.Flags().Changed("year-from") && setup.YearFrom > 0 {
		filter.YearFrom = setup.YearFrom
	}
	if !cmd.Flags().Changed("year-to") && setup.YearTo > 0 {
		filter.YearTo = setup.YearTo
	}
	if !cmd.Flags().Changed("min-citations") && setup.MinCitations > 0 {
		filter.MinCitations = setup.MinCitations
	}
	if !cmd.Flags().Changed("oa-only") {
		filter.OpenAccessOnly = setup.OpenAccessOnly
	}
	if !cmd.Flags().Changed("sort") && setup.SortMode != "" {
		if m, err := parseSortMode(setup.SortMode); err == nil {
			*mode = m
		}
	}
}

// loadState reads the persisted state named by the --state flag.
func loadState(cmd *cobra.Command) *state.State {
	path, _ := cmd.Flags().GetString("state")
	return state.Load(path)
}

// statePath returns the --state flag value.
func statePath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("state")
	return path
}

func init() {
	searchCmd.Flags().String("query", "", "free-text research question")
	searchCmd.Flags().StringSlice("sources", nil, "providers to query: semantic_scholar, openalex, arxiv, crossref, google")
	searchCmd.Flags().Int("max-results", 10, "maximum results per source")
	searchCmd.Flags().Int("max-rows", 0, "cap on displayed rows (0 = no cap)")
	searchCmd.Flags().Int("max-retries", 3, "retry count for rate-limited requests")
	searchCmd.Flags().Duration("timeout", 30*time.Second, "per-source fetch timeout")
	searchCmd.Flags().Duration("request-interval", 0, "minimum spacing between calls to one provider")

	searchCmd.Flags().String("semantic-scholar-api-key", "", "Semantic Scholar API key (default: .secrets/semantic-scholar-api-key)")
	searchCmd.Flags().String("google-api-key", "", "Google API key (default: .secrets/google-api-key)")
	searchCmd.Flags().String("google-cse-id", "", "Google Custom Search engine ID (default: .secrets/google-cse-id)")
	searchCmd.Flags().String("email", "", "contact email for OpenAlex/Crossref polite pools (default: .secrets/contact-email)")

	searchCmd.Flags().Bool("fuzzy-title", false, "merge near-duplicate titles in a second pass")
	searchCmd.Flags().Float64("fuzzy-threshold", 0, "title similarity threshold in [0,1] (0 = default 0.90)")

	searchCmd.Flags().Float64("w-text", 0.55, "weight of the text-match score term")
	searchCmd.Flags().Float64("w-citation", 0.25, "weight of the citation score term")
	searchCmd.Flags().Float64("w-recency", 0.20, "weight of the recency score term")

	searchCmd.Flags().Int("year-from", 0, "earliest publication year (0 = no bound)")
	searchCmd.Flags().Int("year-to", 0, "latest publication year (0 = no bound)")
	searchCmd.Flags().Int("min-citations", 0, "minimum citation count")
	searchCmd.Flags().Bool("oa-only", false, "keep only open-access records")
	searchCmd.Flags().Int("min-sources", 0, "minimum number of agreeing providers")
	searchCmd.Flags().String("title-contains", "", "case-insensitive title substring filter")
	searchCmd.Flags().String("author-contains", "", "case-insensitive author substring filter")
	searchCmd.Flags().String("venue-contains", "", "case-insensitive venue substring filter")

	searchCmd.Flags().String("sort", "relevance", "sort mode: relevance, cited, newest, oldest, title")
	searchCmd.Flags().String("format", "table", "output format: table, json, csv, bibtex, ris, csl, brief")
	searchCmd.Flags().String("save", "", "write the run to a YAML query file")
	searchCmd.Flags().Bool("archive", false, "store the run in the local SQLite archive")
	searchCmd.Flags().String("archive-dir", "archive", "base directory for the archive database")
	searchCmd.Flags().String("saved", "", "load defaults from a saved setup by label")

	rootCmd.AddCommand(searchCmd)
}
