// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the litscout pipeline.
// See docs/ARCHITECTURE.md § Data Structures.
package types

// Source tags identify the originating provider of a Record.
const (
	SourceSemanticScholar = "semantic_scholar"
	SourceOpenAlex        = "openalex"
	SourceArxiv           = "arxiv"
	SourceCrossref        = "crossref"
	SourceGoogle          = "google"
)

// DefaultSources lists the providers queried when no explicit selection is
// made. Google is excluded because it requires credentials.
var DefaultSources = []string{
	SourceSemanticScholar,
	SourceOpenAlex,
	SourceArxiv,
	SourceCrossref,
}

// Record is one normalized hit from one provider. Every field except Source
// and Title may be empty; absent numerics are zero, never null, so the
// scoring stage never sees missing values.
type Record struct {
	// Source identifies which provider returned this record.
	Source string `json:"source" yaml:"source"`

	// Title is the publication title.
	Title string `json:"title" yaml:"title"`

	// Authors is a flattened display string ("Name1, Name2, Name3"),
	// capped at the first three real names by the provider client.
	Authors string `json:"authors" yaml:"authors"`

	// Venue is the journal, conference, or hosting site.
	Venue string `json:"venue" yaml:"venue"`

	// Year is the publication year, 1900..current. Zero means unknown.
	Year int `json:"year" yaml:"year"`

	// Citations is the citation count reported by the provider.
	Citations int `json:"citations" yaml:"citations"`

	// DOI is the lowercase DOI with any resolver-host prefix stripped.
	DOI string `json:"doi" yaml:"doi"`

	// URL is the landing page for the publication.
	URL string `json:"url" yaml:"url"`

	// PDFURL links to a readable full-text copy, when known.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Abstract is the abstract or summary text.
	Abstract string `json:"abstract" yaml:"abstract"`

	// OpenAccess reports whether a freely readable copy is known to exist.
	OpenAccess bool `json:"open_access" yaml:"open_access"`
}

// MergedRecord is the result of deduplicating one or more Records believed
// to describe the same publication.
type MergedRecord struct {
	Record `yaml:",inline"`

	// RecordID is a stable identity derived from DOI, title fingerprint,
	// URL, or title+authors, in that order. It keys bookmarks.
	RecordID string `json:"record_id" yaml:"record_id"`

	// Sources lists the distinct provider tags that contributed to this
	// record, sorted. Its length is the source agreement count.
	Sources []string `json:"sources" yaml:"sources"`
}

// SourceCount returns the number of distinct providers that returned this
// record independently.
func (m MergedRecord) SourceCount() int {
	if len(m.Sources) == 0 {
		return 1
	}
	return len(m.Sources)
}

// ScoredRecord is a MergedRecord with its composite relevance score.
type ScoredRecord struct {
	MergedRecord `yaml:",inline"`

	// Score is the composite relevance score, rounded to 4 decimals.
	Score float64 `json:"score" yaml:"score"`
}

// SourceStat records the outcome of one provider fetch. Diagnostic only;
// it never affects ranking.
type SourceStat struct {
	// Source is the provider tag.
	Source string `json:"source" yaml:"source"`

	// Count is the number of records the provider returned.
	Count int `json:"result_count" yaml:"result_count"`

	// Duration is the fetch wall time in seconds.
	Duration float64 `json:"duration_sec" yaml:"duration_sec"`

	// Err is the failure message, empty on success.
	Err string `json:"error" yaml:"error"`

	// Status is "OK" or "Error".
	Status string `json:"status" yaml:"status"`
}

// SortMode selects the final result ordering.
type SortMode string

const (
	SortRelevance SortMode = "relevance"
	SortMostCited SortMode = "cited"
	SortNewest    SortMode = "newest"
	SortOldest    SortMode = "oldest"
	SortTitleAsc  SortMode = "title"
)
