// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package record normalizes provider metadata into canonical form and
// derives stable record identities for deduplication and bookmarking.
// See docs/ARCHITECTURE.md § Normalization.
package record

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/litscout/pkg/types"
)

// minYear is the oldest publication year accepted during normalization.
const minYear = 1900

// CleanText collapses all runs of whitespace to single spaces and trims
// the ends, so titles and abstracts survive CSV and table output intact.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// doiPrefixes are resolver-host prefixes stripped from DOI values.
var doiPrefixes = []string{
	"https://doi.org/",
	"http://doi.org/",
	"https://dx.doi.org/",
	"http://dx.doi.org/",
	"doi:",
}

// NormalizeDOI lowercases a DOI and strips any leading resolver-host
// prefix. An empty or whitespace-only input returns "".
func NormalizeDOI(s string) string {
	doi := strings.ToLower(CleanText(s))
	for _, prefix := range doiPrefixes {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return doi
}

// ClampYear validates a publication year. Values outside 1900..current
// year are treated as unknown and become zero.
func ClampYear(year int) int {
	if year < minYear || year > time.Now().Year() {
		return 0
	}
	return year
}

// TitleFingerprint returns the normalized token form of a title: lowercase,
// punctuation replaced by spaces, tokens of length <= 2 dropped, remaining
// tokens joined by single spaces.
func TitleFingerprint(title string) string {
	return strings.Join(FingerprintTokens(title), " ")
}

// FingerprintTokens returns the fingerprint tokens of a title in order.
func FingerprintTokens(title string) []string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) > 2 {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// TokenSet returns the fingerprint tokens of a title as a set.
func TokenSet(title string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range FingerprintTokens(title) {
		set[tok] = struct{}{}
	}
	return set
}

// Jaccard returns the token-set similarity |a∩b| / |a∪b|. Two empty sets
// have similarity 0.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if _, ok := b[tok]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// hash16 returns the first 16 hex characters of the MD5 digest of s.
// MD5 is used as a short stable fingerprint, not for security.
func hash16(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])[:16]
}

// ID derives the stable identity string for a record. Priority: DOI, then
// title fingerprint hash, then URL hash, then a hash of title and authors.
func ID(r types.Record) string {
	if doi := NormalizeDOI(r.DOI); doi != "" {
		return "doi:" + doi
	}
	if fp := TitleFingerprint(r.Title); fp != "" {
		return "title:" + hash16(fp)
	}
	if u := strings.ToLower(CleanText(r.URL)); u != "" {
		return "url:" + hash16(u)
	}
	return "row:" + hash16(CleanText(r.Title)+"|"+CleanText(r.Authors))
}

// FormatAuthors flattens a list of author names into a display string,
// keeping the first three non-empty names.
func FormatAuthors(names []string) string {
	var kept []string
	for _, name := range names {
		name = CleanText(name)
		if name == "" {
			continue
		}
		kept = append(kept, name)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, ", ")
}

// Normalize cleans a record's text fields and coerces absent values to
// their defaults. Provider clients call this on every record they emit.
func Normalize(r types.Record) types.Record {
	r.Title = CleanText(r.Title)
	r.Authors = CleanText(r.Authors)
	r.Venue = CleanText(r.Venue)
	r.Abstract = CleanText(r.Abstract)
	r.URL = CleanText(r.URL)
	r.PDFURL = CleanText(r.PDFURL)
	r.DOI = NormalizeDOI(r.DOI)
	r.Year = ClampYear(r.Year)
	if r.Citations < 0 {
		r.Citations = 0
	}
	return r
}
