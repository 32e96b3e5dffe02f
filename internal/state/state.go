// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package state persists the reading list and saved search setups as a
// small JSON file. Loading is tolerant: a missing or corrupt file yields
// an empty state rather than an error, so a damaged file never blocks a
// search session.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// maxSavedSearches caps the saved setup list; oldest entries fall off.
const maxSavedSearches = 20

// SearchSetup captures everything needed to replay a search.
type SearchSetup struct {
	Query          string   `json:"query"`
	Sources        []string `json:"sources,omitempty"`
	MaxResults     int      `json:"max_results,omitempty"`
	FuzzyTitle     bool     `json:"fuzzy_title,omitempty"`
	FuzzyThreshold float64  `json:"fuzzy_threshold,omitempty"`
	SortMode       string   `json:"sort_mode,omitempty"`
	YearFrom       int      `json:"year_from,omitempty"`
	YearTo         int      `json:"year_to,omitempty"`
	MinCitations   int      `json:"min_citations,omitempty"`
	OpenAccessOnly bool     `json:"open_access_only,omitempty"`
}

// SavedSearch is a labelled setup in the saved list.
type SavedSearch struct {
	Label  string      `json:"label"`
	Config SearchSetup `json:"config"`
}

// State holds everything persisted between sessions. Bookmarks map a
// record ID to a flattened record of primitive values.
type State struct {
	SavedSearches []SavedSearch             `json:"saved_searches"`
	Bookmarks     map[string]map[string]any `json:"bookmarks"`
}

// New returns an empty state.
func New() *State {
	return &State{Bookmarks: map[string]map[string]any{}}
}

// Load reads the state file at path. Missing or unparsable files return
// an empty state.
func Load(path string) *State {
	s := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var loaded State
	if err := json.Unmarshal(data, &loaded); err != nil {
		return s
	}
	if loaded.SavedSearches != nil {
		s.SavedSearches = loaded.SavedSearches
	}
	if loaded.Bookmarks != nil {
		s.Bookmarks = loaded.Bookmarks
	}
	return s
}

// Save writes the state to path. Bookmark values are coerced to JSON
// primitives (string, number, bool, null); anything else is stringified.
func (s *State) Save(path string) error {
	safe := map[string]map[string]any{}
	for id, row := range s.Bookmarks {
		safeRow := map[string]any{}
		for k, v := range row {
			switch v.(type) {
			case string, int, int64, float64, bool, nil:
				safeRow[k] = v
			default:
				safeRow[k] = fmt.Sprint(v)
			}
		}
		safe[id] = safeRow
	}

	payload := State{SavedSearches: s.SavedSearches, Bookmarks: safe}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}

// AddBookmark stores a flattened copy of the record under its ID.
func (s *State) AddBookmark(r types.ScoredRecord) {
	if s.Bookmarks == nil {
		s.Bookmarks = map[string]map[string]any{}
	}
	s.Bookmarks[r.RecordID] = Flatten(r)
}

// RemoveBookmark deletes the bookmark and reports whether it existed.
func (s *State) RemoveBookmark(recordID string) bool {
	if _, ok := s.Bookmarks[recordID]; !ok {
		return false
	}
	delete(s.Bookmarks, recordID)
	return true
}

// BookmarkIDs returns the bookmarked record IDs in sorted order.
func (s *State) BookmarkIDs() []string {
	ids := make([]string, 0, len(s.Bookmarks))
	for id := range s.Bookmarks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AddSavedSearch prepends a labelled setup, keeping the newest
// maxSavedSearches entries.
func (s *State) AddSavedSearch(label string, cfg SearchSetup) {
	s.SavedSearches = append([]SavedSearch{{Label: label, Config: cfg}}, s.SavedSearches...)
	if len(s.SavedSearches) > maxSavedSearches {
		s.SavedSearches = s.SavedSearches[:maxSavedSearches]
	}
}

// DeleteSavedSearch removes the entry at index and reports success.
func (s *State) DeleteSavedSearch(index int) bool {
	if index < 0 || index >= len(s.SavedSearches) {
		return false
	}
	s.SavedSearches = append(s.SavedSearches[:index], s.SavedSearches[index+1:]...)
	return true
}

// FindSavedSearch looks a setup up by label.
func (s *State) FindSavedSearch(label string) (SearchSetup, bool) {
	for _, item := range s.SavedSearches {
		if item.Label == label {
			return item.Config, true
		}
	}
	return SearchSetup{}, false
}

// Flatten converts a scored record to a map of primitive values, the
// shape stored under bookmarks.
func Flatten(r types.ScoredRecord) map[string]any {
	return map[string]any{
		"record_id":   r.RecordID,
		"source":      strings.Join(r.Sources, " | "),
		"title":       r.Title,
		"authors":     r.Authors,
		"venue":       r.Venue,
		"year":        r.Year,
		"citations":   r.Citations,
		"doi":         r.DOI,
		"url":         r.URL,
		"pdf_url":     r.PDFURL,
		"abstract":    r.Abstract,
		"open_access": r.OpenAccess,
		"score":       r.Score,
	}
}

// Unflatten rebuilds a scored record from a bookmark row. Numeric fields
// arrive as float64 after a JSON round trip.
func Unflatten(row map[string]any) types.ScoredRecord {
	var r types.ScoredRecord
	r.RecordID = asString(row["record_id"])
	r.Title = asString(row["title"])
	r.Authors = asString(row["authors"])
	r.Venue = asString(row["venue"])
	r.DOI = asString(row["doi"])
	r.URL = asString(row["url"])
	r.PDFURL = asString(row["pdf_url"])
	r.Abstract = asString(row["abstract"])
	r.Year = asInt(row["year"])
	r.Citations = asInt(row["citations"])
	if oa, ok := row["open_access"].(bool); ok {
		r.OpenAccess = oa
	}
	if score, ok := row["score"].(float64); ok {
		r.Score = score
	}
	if src := asString(row["source"]); src != "" {
		for _, part := range strings.Split(src, "|") {
			if part = strings.TrimSpace(part); part != "" {
				r.Sources = append(r.Sources, part)
			}
		}
	}
	return r
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}
