// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"sort"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// FilterAndSort applies the user filters as a predicate conjunction and
// orders the survivors by the given sort mode. The input slice is not
// modified. Every mode is a stable multi-key sort with a final ascending
// title tie-break, so repeated runs over the same input yield the same
// order.
func FilterAndSort(records []types.ScoredRecord, f types.FilterConfig, mode types.SortMode) []types.ScoredRecord {
	out := make([]types.ScoredRecord, 0, len(records))
	for _, r := range records {
		if keep(r, f) {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, lessFunc(out, mode))
	return out
}

// keep reports whether a record passes every filter. A record with an
// unknown year passes the year-range filter.
func keep(r types.ScoredRecord, f types.FilterConfig) bool {
	if r.Year > 0 {
		if f.YearFrom > 0 && r.Year < f.YearFrom {
			return false
		}
		if f.YearTo > 0 && r.Year > f.YearTo {
			return false
		}
	}
	if r.Citations < f.MinCitations {
		return false
	}
	if f.OpenAccessOnly && !r.OpenAccess {
		return false
	}
	if f.MinSources > 0 && r.SourceCount() < f.MinSources {
		return false
	}
	if !containsFold(r.Title, f.TitleContains) {
		return false
	}
	if !containsFold(r.Authors, f.AuthorContains) {
		return false
	}
	if !containsFold(r.Venue, f.VenueContains) {
		return false
	}
	return true
}

// containsFold is a case-insensitive substring test; an empty needle
// always matches.
func containsFold(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func lessFunc(rs []types.ScoredRecord, mode types.SortMode) func(i, j int) bool {
	switch mode {
	case types.SortMostCited:
		return func(i, j int) bool {
			if rs[i].Citations != rs[j].Citations {
				return rs[i].Citations > rs[j].Citations
			}
			if rs[i].Score != rs[j].Score {
				return rs[i].Score > rs[j].Score
			}
			return rs[i].Title < rs[j].Title
		}
	case types.SortNewest:
		return func(i, j int) bool {
			if c := compareYear(rs[i].Year, rs[j].Year, true); c != 0 {
				return c < 0
			}
			if rs[i].Score != rs[j].Score {
				return rs[i].Score > rs[j].Score
			}
			return rs[i].Title < rs[j].Title
		}
	case types.SortOldest:
		return func(i, j int) bool {
			if c := compareYear(rs[i].Year, rs[j].Year, false); c != 0 {
				return c < 0
			}
			if rs[i].Score != rs[j].Score {
				return rs[i].Score > rs[j].Score
			}
			return rs[i].Title < rs[j].Title
		}
	case types.SortTitleAsc:
		return func(i, j int) bool {
			return rs[i].Title < rs[j].Title
		}
	default: // relevance
		return func(i, j int) bool {
			if rs[i].Score != rs[j].Score {
				return rs[i].Score > rs[j].Score
			}
			if rs[i].Citations != rs[j].Citations {
				return rs[i].Citations > rs[j].Citations
			}
			return rs[i].Title < rs[j].Title
		}
	}
}

// compareYear orders two years with unknown (zero) years last regardless
// of direction. Returns -1 when a sorts before b, 1 when after, 0 on tie.
func compareYear(a, b int, newestFirst bool) int {
	switch {
	case a == b:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	}
	if newestFirst == (a > b) {
		return -1
	}
	return 1
}
