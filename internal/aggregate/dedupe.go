// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"

	"github.com/pdiddy/litscout/internal/record"
	"github.com/pdiddy/litscout/pkg/types"
)

// Dedupe merges Records that describe the same publication. The exact pass
// keys on DOI, then on the title fingerprint; records with neither get a
// per-record key that never collides. An optional fuzzy pass re-scans the
// output and merges DOI-less records whose fingerprint token sets have
// Jaccard similarity at or above the threshold.
//
// DOI is authoritative: two records with the same fingerprint but
// different DOIs stay separate, and a record with a DOI never fuzzy-merges
// with one without. Output order is unspecified beyond first-seen order;
// sorting is the ranker's job.
func Dedupe(records []types.Record, cfg types.DedupeConfig) []types.MergedRecord {
	seen := make(map[string]int) // identity key → index into merged
	var merged []types.MergedRecord

	for i, r := range records {
		r = record.Normalize(r)
		key := dedupeKey(r, i)

		if idx, ok := seen[key]; ok {
			mergeInto(&merged[idx], r)
			continue
		}

		seen[key] = len(merged)
		m := types.MergedRecord{Record: r}
		if r.Source != "" {
			m.Sources = []string{r.Source}
		}
		merged = append(merged, m)
	}

	if cfg.FuzzyTitle {
		merged = fuzzyPass(merged, cfg.FuzzyThreshold)
	}

	for i := range merged {
		merged[i].RecordID = record.ID(merged[i].Record)
	}
	return merged
}

// dedupeKey returns the exact-pass identity key for a record. The index
// keeps unkeyable records distinct.
func dedupeKey(r types.Record, index int) string {
	if r.DOI != "" {
		return "doi:" + r.DOI
	}
	if fp := record.TitleFingerprint(r.Title); fp != "" {
		return "title:" + fp
	}
	return fmt.Sprintf("row:%d", index)
}

// fuzzyPass greedily folds near-duplicate titles into the first
// sufficiently similar record already accepted. Greedy matching is
// order-dependent; clusters larger than two may split depending on input
// order.
func fuzzyPass(input []types.MergedRecord, threshold float64) []types.MergedRecord {
	if threshold <= 0 {
		threshold = types.DefaultFuzzyThreshold
	}

	var accepted []types.MergedRecord
	for _, m := range input {
		tokens := record.TokenSet(m.Title)
		absorbed := false

		for i := range accepted {
			if !shouldFuzzyMerge(&accepted[i], m, tokens, threshold) {
				continue
			}
			mergeInto(&accepted[i], m.Record)
			for _, src := range m.Sources {
				accepted[i].Sources = addSource(accepted[i].Sources, src)
			}
			absorbed = true
			break
		}

		if !absorbed {
			accepted = append(accepted, m)
		}
	}
	return accepted
}

func shouldFuzzyMerge(existing *types.MergedRecord, incoming types.MergedRecord, incomingTokens map[string]struct{}, threshold float64) bool {
	if existing.DOI != "" && incoming.DOI != "" {
		return existing.DOI == incoming.DOI
	}
	if existing.DOI != "" || incoming.DOI != "" {
		return false
	}
	return record.Jaccard(record.TokenSet(existing.Title), incomingTokens) >= threshold
}

// mergeInto folds an incoming record into an existing merged record.
// Numerics merge by max, open access by OR, the abstract keeps the longer
// text, and the remaining text fields keep the already-populated value.
func mergeInto(dst *types.MergedRecord, src types.Record) {
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
	}
	if dst.Authors == "" && src.Authors != "" {
		dst.Authors = src.Authors
	}
	if dst.Venue == "" && src.Venue != "" {
		dst.Venue = src.Venue
	}
	if dst.DOI == "" && src.DOI != "" {
		dst.DOI = src.DOI
	}
	if dst.URL == "" && src.URL != "" {
		dst.URL = src.URL
	}
	if dst.PDFURL == "" && src.PDFURL != "" {
		dst.PDFURL = src.PDFURL
	}

	if src.Citations > dst.Citations {
		dst.Citations = src.Citations
	}
	if src.Year > dst.Year {
		dst.Year = src.Year
	}
	dst.OpenAccess = dst.OpenAccess || src.OpenAccess

	if len(src.Abstract) > len(dst.Abstract) {
		dst.Abstract = src.Abstract
	}

	if src.Source != "" {
		dst.Sources = addSource(dst.Sources, src.Source)
	}
}

// addSource inserts a source tag into a sorted set of tags. Re-adding an
// existing tag is a no-op.
func addSource(sources []string, tag string) []string {
	for i, s := range sources {
		if s == tag {
			return sources
		}
		if s > tag {
			sources = append(sources, "")
			copy(sources[i+1:], sources[i:])
			sources[i] = tag
			return sources
		}
	}
	return append(sources, tag)
}
