// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export renders scored records for humans and reference
// managers: console table, JSON, CSV, BibTeX, RIS, CSL-YAML, and a
// Markdown research brief. Encoders are pure formatting; no dedupe or
// scoring logic lives here.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// FormatTable writes records as a human-readable table to w.
func FormatTable(records []types.ScoredRecord, stats []types.SourceStat, w io.Writer) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-56s  %-24s  %-4s  %-6s  %-5s  %s\n",
		"Rank", "Title", "Authors", "Year", "Score", "Cites", "Sources")
	fmt.Fprintln(w, strings.Repeat("-", 118))

	for i, r := range records {
		title := truncate(r.Title, 56)
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(w, "%-4d  %-56s  %-24s  %-4s  %-6.3f  %-5d  %s\n",
			i+1, title, truncate(r.Authors, 24), year, r.Score, r.Citations,
			strings.Join(r.Sources, ","))
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))

	if len(stats) > 0 {
		fmt.Fprintln(w)
		for _, s := range stats {
			line := fmt.Sprintf("%s: %d results in %.2fs", s.Source, s.Count, s.Duration)
			if s.Err != "" {
				line += " (" + s.Err + ")"
			}
			fmt.Fprintln(w, line)
		}
	}
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(records []types.ScoredRecord, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
