// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/litscout/pkg/types"
)

// stopwords are common English and boilerplate academic tokens excluded
// from keyword extraction.
var stopwords = map[string]bool{
	"about": true, "after": true, "again": true, "also": true,
	"among": true, "been": true, "being": true, "between": true,
	"both": true, "can": true, "could": true, "data": true,
	"during": true, "each": true, "from": true, "have": true,
	"into": true, "more": true, "most": true, "much": true,
	"paper": true, "results": true, "study": true, "than": true,
	"that": true, "their": true, "there": true, "these": true,
	"this": true, "those": true, "using": true, "with": true,
	"without": true,
}

var keywordRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

// Count pairs a label with its frequency.
type Count struct {
	Label string
	N     int
}

// TopKeywords tallies title tokens of three or more letters, skipping
// stopwords, and returns the topN most frequent. Ties break
// alphabetically so output is deterministic.
func TopKeywords(records []types.ScoredRecord, topN int) []Count {
	counter := map[string]int{}
	for _, r := range records {
		for _, token := range keywordRe.FindAllString(strings.ToLower(r.Title), -1) {
			if !stopwords[token] {
				counter[token]++
			}
		}
	}
	return topCounts(counter, topN)
}

// AuthorCounts tallies individual author names (split on commas and
// semicolons) and returns the topN most frequent.
func AuthorCounts(records []types.ScoredRecord, topN int) []Count {
	counter := map[string]int{}
	for _, r := range records {
		for _, part := range strings.FieldsFunc(r.Authors, func(c rune) bool {
			return c == ',' || c == ';'
		}) {
			name := strings.TrimSpace(part)
			if name != "" {
				counter[name]++
			}
		}
	}
	return topCounts(counter, topN)
}

// SourceCounts tallies how many merged records each source contributed to.
func SourceCounts(records []types.ScoredRecord) []Count {
	counter := map[string]int{}
	for _, r := range records {
		for _, s := range r.Sources {
			if s != "" {
				counter[s]++
			}
		}
	}
	return topCounts(counter, len(counter))
}

func topCounts(counter map[string]int, topN int) []Count {
	counts := make([]Count, 0, len(counter))
	for label, n := range counter {
		counts = append(counts, Count{Label: label, N: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].N != counts[j].N {
			return counts[i].N > counts[j].N
		}
		return counts[i].Label < counts[j].Label
	})
	if topN >= 0 && len(counts) > topN {
		counts = counts[:topN]
	}
	return counts
}

// medianCitations returns the median citation count of the records,
// averaging the two middle values for even lengths.
func medianCitations(records []types.ScoredRecord) int {
	if len(records) == 0 {
		return 0
	}
	cites := make([]int, len(records))
	for i, r := range records {
		cites[i] = r.Citations
	}
	sort.Ints(cites)
	if len(cites)%2 == 1 {
		return cites[len(cites)/2]
	}
	return (cites[len(cites)/2-1] + cites[len(cites)/2]) / 2
}

func openAccessRatio(records []types.ScoredRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	oa := 0
	for _, r := range records {
		if r.OpenAccess {
			oa++
		}
	}
	return float64(oa) / float64(len(records)) * 100.0
}

// ResearchBrief returns a one-paragraph prose summary of the result set.
func ResearchBrief(records []types.ScoredRecord, query string) string {
	if len(records) == 0 {
		return "No dataset summary is available yet."
	}

	topSource := "N/A"
	if counts := SourceCounts(records); len(counts) > 0 {
		topSource = counts[0].Label
	}

	venueCounter := map[string]int{}
	for _, r := range records {
		if r.Venue != "" {
			venueCounter[r.Venue]++
		}
	}
	topVenue := "N/A"
	if counts := topCounts(venueCounter, 1); len(counts) > 0 {
		topVenue = counts[0].Label
	}

	keywordText := "none"
	if keywords := TopKeywords(records, 5); len(keywords) > 0 {
		labels := make([]string, len(keywords))
		for i, k := range keywords {
			labels[i] = k.Label
		}
		keywordText = strings.Join(labels, ", ")
	}

	return fmt.Sprintf(
		"Query '%s' returned %d filtered papers. Most represented source: %s. "+
			"Top venue: %s. Median citations: %d. Open-access share: %.1f%%. "+
			"Recurring title keywords: %s.",
		query, len(records), topSource, topVenue,
		medianCitations(records), openAccessRatio(records), keywordText)
}

// MarkdownBrief returns a downloadable Markdown research brief: summary
// metrics, per-source diagnostics, and the topN papers with links.
func MarkdownBrief(records []types.ScoredRecord, query string, stats []types.SourceStat, topN int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Research Brief: %s\n\n", query)
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04"))

	b.WriteString("## Summary\n")
	fmt.Fprintf(&b, "- Filtered papers: %d\n", len(records))
	fmt.Fprintf(&b, "- Open-access ratio: %.1f%%\n", openAccessRatio(records))
	fmt.Fprintf(&b, "- Median citations: %d\n\n", medianCitations(records))

	if len(stats) > 0 {
		b.WriteString("## Source Diagnostics\n")
		for _, s := range stats {
			status := "ok"
			if s.Err != "" {
				status = "error"
			}
			fmt.Fprintf(&b, "- %s: %d results, %.2fs, status=%s\n",
				s.Source, s.Count, s.Duration, status)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Top Papers\n")
	top := records
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}
	for _, r := range top {
		year := "n.d."
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		fmt.Fprintf(&b, "- **%s** (%s) | Score=%.3f | Cites=%d | Source=%s\n",
			r.Title, year, r.Score, r.Citations, strings.Join(r.Sources, " | "))
		if r.URL != "" {
			fmt.Fprintf(&b, "  - Link: %s\n", r.URL)
		}
	}
	b.WriteString("\n## Notes\n")
	b.WriteString("- Ranking combines text relevance, citation signal, recency, and open-access bonus.\n")
	b.WriteString("- Dedupe merges repeated entries across sources by DOI/title.\n")
	return b.String()
}
