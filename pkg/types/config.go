// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the provider clients.
type HTTPConfig struct {
	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "litscout/0.1 (mailto:user@example.com)").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// SearchConfig holds settings for the fetch stage.
type SearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// MaxResults is the per-source result limit (default 10).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// Sources selects which providers to query. Empty means DefaultSources.
	Sources []string `json:"sources" yaml:"sources"`

	// MaxRetries bounds the retry count on HTTP 429/503 responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RequestInterval is the minimum spacing between calls to the same
	// provider, enforced client-side as a politeness limiter.
	RequestInterval time.Duration `json:"request_interval" yaml:"request_interval"`

	// SemanticScholarAPIKey raises the Semantic Scholar rate limit. Optional.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`

	// GoogleAPIKey and GoogleCSEID enable the Google Custom Search source.
	// When either is missing that source is skipped, not an error.
	GoogleAPIKey string `json:"google_api_key,omitempty" yaml:"google_api_key,omitempty"`
	GoogleCSEID  string `json:"google_cse_id,omitempty" yaml:"google_cse_id,omitempty"`

	// ContactEmail is sent as the mailto parameter for polite-pool access
	// to OpenAlex and Crossref.
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`
}

// DedupeConfig controls the deduplication stage.
type DedupeConfig struct {
	// FuzzyTitle enables the approximate-title second pass.
	FuzzyTitle bool `json:"fuzzy_title" yaml:"fuzzy_title"`

	// FuzzyThreshold is the minimum token-set Jaccard similarity, in
	// [0,1], for two DOI-less titles to merge (default 0.90).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
}

// DefaultFuzzyThreshold is used when DedupeConfig.FuzzyThreshold is zero.
const DefaultFuzzyThreshold = 0.90

// ScoreWeights holds the relative weights of the three score terms. The
// scorer renormalizes them to sum to 1 before use.
type ScoreWeights struct {
	Text     float64 `json:"text" yaml:"text"`
	Citation float64 `json:"citation" yaml:"citation"`
	Recency  float64 `json:"recency" yaml:"recency"`
}

// DefaultScoreWeights returns the standard weighting.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{Text: 0.55, Citation: 0.25, Recency: 0.20}
}

// Normalized returns weights scaled to sum to 1. A non-positive sum falls
// back to the defaults.
func (w ScoreWeights) Normalized() ScoreWeights {
	total := w.Text + w.Citation + w.Recency
	if total <= 0 {
		return DefaultScoreWeights()
	}
	return ScoreWeights{
		Text:     w.Text / total,
		Citation: w.Citation / total,
		Recency:  w.Recency / total,
	}
}

// FilterConfig holds the user filters applied before sorting. Zero values
// disable the corresponding filter.
type FilterConfig struct {
	// YearFrom and YearTo bound the publication year, inclusive. Records
	// with an unknown year always pass.
	YearFrom int `json:"year_from" yaml:"year_from"`
	YearTo   int `json:"year_to" yaml:"year_to"`

	// MinCitations excludes records cited fewer times.
	MinCitations int `json:"min_citations" yaml:"min_citations"`

	// OpenAccessOnly keeps only records with a known free copy.
	OpenAccessOnly bool `json:"open_access_only" yaml:"open_access_only"`

	// MinSources requires at least this many distinct providers to agree.
	MinSources int `json:"min_sources" yaml:"min_sources"`

	// Case-insensitive substring filters.
	TitleContains  string `json:"title_contains" yaml:"title_contains"`
	AuthorContains string `json:"author_contains" yaml:"author_contains"`
	VenueContains  string `json:"venue_contains" yaml:"venue_contains"`
}

// ArchiveConfig holds settings for the local search archive.
type ArchiveConfig struct {
	// ArchiveDir is the base directory for the archive database.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups the stage configurations.
type PipelineConfig struct {
	Search  SearchConfig  `json:"search" yaml:"search"`
	Dedupe  DedupeConfig  `json:"dedupe" yaml:"dedupe"`
	Weights ScoreWeights  `json:"weights" yaml:"weights"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// StatePath is the JSON file holding saved searches and bookmarks.
	StatePath string `json:"state_path" yaml:"state_path"`
}
