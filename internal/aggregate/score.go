// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/pdiddy/litscout/pkg/types"
)

// openAccessBonus is added to the weighted score when a free copy of the
// publication is known. It can push the score slightly above 1.
const openAccessBonus = 0.08

// recencyHorizonYears is the age at which the recency term reaches zero.
const recencyHorizonYears = 20.0

// neutralRecency is the recency term for records with an unknown year.
const neutralRecency = 0.3

var queryTokenRe = regexp.MustCompile(`[a-z0-9]+`)

// queryTokens extracts lowercase alphanumeric query tokens of length > 2.
func queryTokens(query string) []string {
	var tokens []string
	for _, tok := range queryTokenRe.FindAllString(strings.ToLower(query), -1) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// Score computes the composite relevance score of a merged record for a
// query: a weighted sum of text overlap, citation signal, and recency,
// plus an open-access bonus, rounded to 4 decimals. The function is pure;
// identical inputs always produce identical output.
func Score(query string, rec types.MergedRecord, weights types.ScoreWeights) float64 {
	return scoreAt(query, rec, weights, time.Now().Year())
}

// scoreAt is Score with an explicit current year, so tests pin the
// recency term.
func scoreAt(query string, rec types.MergedRecord, weights types.ScoreWeights, currentYear int) float64 {
	tokens := queryTokens(query)
	textScore := 0.0
	if len(tokens) > 0 {
		searchable := strings.ToLower(rec.Title + " " + rec.Abstract)
		found := 0
		for _, tok := range tokens {
			if strings.Contains(searchable, tok) {
				found++
			}
		}
		textScore = float64(found) / float64(len(tokens))
	}

	// log10 saturation: ~1000 citations max out the term.
	cites := rec.Citations
	if cites < 0 {
		cites = 0
	}
	citationScore := math.Min(math.Log10(float64(cites)+1)/3.0, 1.0)

	recencyScore := neutralRecency
	if rec.Year > 0 {
		recencyScore = math.Max(0, 1.0-float64(currentYear-rec.Year)/recencyHorizonYears)
	}

	w := weights.Normalized()
	score := textScore*w.Text + citationScore*w.Citation + recencyScore*w.Recency
	if rec.OpenAccess {
		score += openAccessBonus
	}
	return math.Round(score*10000) / 10000
}

// ScoreAll scores every merged record. The record set and order are left
// untouched; scores are recomputed from scratch on every call.
func ScoreAll(query string, records []types.MergedRecord, weights types.ScoreWeights) []types.ScoredRecord {
	scored := make([]types.ScoredRecord, len(records))
	for i, m := range records {
		scored[i] = types.ScoredRecord{
			MergedRecord: m,
			Score:        Score(query, m, weights),
		}
	}
	return scored
}
