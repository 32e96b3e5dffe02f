// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/litscout/pkg/types"
)

func sampleRecord() types.ScoredRecord {
	return types.ScoredRecord{
		MergedRecord: types.MergedRecord{
			Record: types.Record{
				Title:      "Attention Is All You Need",
				Authors:    "Ashish Vaswani, Noam Shazeer",
				Venue:      "NeurIPS",
				Year:       2017,
				Citations:  90000,
				DOI:        "10.5555/3295222",
				URL:        "https://example.com/attn",
				OpenAccess: true,
			},
			RecordID: "doi:10.5555/3295222",
			Sources:  []string{"arxiv", "semantic_scholar"},
		},
		Score: 0.8123,
	}
}

func TestLoadMissingFileReturnsEmptyState(t *testing.T) {
	s := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NotNil(t, s)
	assert.Empty(t, s.SavedSearches)
	assert.Empty(t, s.Bookmarks)
}

func TestLoadCorruptFileReturnsEmptyState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := Load(path)
	assert.Empty(t, s.SavedSearches)
	assert.Empty(t, s.Bookmarks)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New()
	s.AddBookmark(sampleRecord())
	s.AddSavedSearch("weekly transformers", SearchSetup{
		Query:      "transformer models",
		Sources:    []string{"arxiv", "openalex"},
		MaxResults: 25,
		SortMode:   "cited",
	})
	require.NoError(t, s.Save(path))

	loaded := Load(path)
	require.Len(t, loaded.SavedSearches, 1)
	assert.Equal(t, "weekly transformers", loaded.SavedSearches[0].Label)
	assert.Equal(t, "transformer models", loaded.SavedSearches[0].Config.Query)
	assert.Equal(t, 25, loaded.SavedSearches[0].Config.MaxResults)

	require.Len(t, loaded.Bookmarks, 1)
	r := Unflatten(loaded.Bookmarks["doi:10.5555/3295222"])
	assert.Equal(t, "Attention Is All You Need", r.Title)
	assert.Equal(t, 2017, r.Year)
	assert.Equal(t, 90000, r.Citations)
	assert.True(t, r.OpenAccess)
	assert.Equal(t, 0.8123, r.Score)
	assert.Equal(t, []string{"arxiv", "semantic_scholar"}, r.Sources)
}

func TestSaveCoercesNonPrimitiveValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New()
	s.Bookmarks["x"] = map[string]any{
		"title":  "ok",
		"weird":  []string{"a", "b"},
		"absent": nil,
	}
	require.NoError(t, s.Save(path))

	loaded := Load(path)
	row := loaded.Bookmarks["x"]
	assert.Equal(t, "ok", row["title"])
	// Non-primitive values arrive as their string form.
	assert.Equal(t, "[a b]", row["weird"])
	assert.Nil(t, row["absent"])
}

func TestRemoveBookmark(t *testing.T) {
	s := New()
	s.AddBookmark(sampleRecord())

	assert.True(t, s.RemoveBookmark("doi:10.5555/3295222"))
	assert.False(t, s.RemoveBookmark("doi:10.5555/3295222"))
	assert.Empty(t, s.Bookmarks)
}

func TestBookmarkIDsSorted(t *testing.T) {
	s := New()
	for _, id := range []string{"row:zzz", "doi:10.1/a", "title:abc"} {
		r := sampleRecord()
		r.RecordID = id
		s.AddBookmark(r)
	}
	assert.Equal(t, []string{"doi:10.1/a", "row:zzz", "title:abc"}, s.BookmarkIDs())
}

func TestAddSavedSearchCapsAtTwenty(t *testing.T) {
	s := New()
	for i := 0; i < 25; i++ {
		s.AddSavedSearch("label", SearchSetup{Query: "q"})
	}
	assert.Len(t, s.SavedSearches, 20)
}

func TestAddSavedSearchPrepends(t *testing.T) {
	s := New()
	s.AddSavedSearch("first", SearchSetup{Query: "a"})
	s.AddSavedSearch("second", SearchSetup{Query: "b"})

	require.Len(t, s.SavedSearches, 2)
	assert.Equal(t, "second", s.SavedSearches[0].Label)
}

func TestDeleteSavedSearch(t *testing.T) {
	s := New()
	s.AddSavedSearch("keep", SearchSetup{})
	s.AddSavedSearch("drop", SearchSetup{})

	assert.True(t, s.DeleteSavedSearch(0))
	require.Len(t, s.SavedSearches, 1)
	assert.Equal(t, "keep", s.SavedSearches[0].Label)

	assert.False(t, s.DeleteSavedSearch(5))
}

func TestFindSavedSearch(t *testing.T) {
	s := New()
	s.AddSavedSearch("mine", SearchSetup{Query: "graph networks"})

	setup, ok := s.FindSavedSearch("mine")
	require.True(t, ok)
	assert.Equal(t, "graph networks", setup.Query)

	_, ok = s.FindSavedSearch("other")
	assert.False(t, ok)
}
