// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/pdiddy/litscout/pkg/types"
)

// BibTeXEntry renders one @article entry from a merged record. It reads
// only documented metadata fields (title, authors, year, DOI, URL), never
// merge bookkeeping. The citation key is the first author's last name
// concatenated with the year ("Vaswani2017"); unknown pieces degrade to
// "Unknown" and "n.d.".
func BibTeXEntry(r types.MergedRecord) string {
	year := "n.d."
	if r.Year > 0 {
		year = fmt.Sprintf("%d", r.Year)
	}

	first := "Unknown"
	if r.Authors != "" {
		name := r.Authors
		if idx := strings.Index(name, ","); idx >= 0 {
			name = name[:idx]
		}
		if idx := strings.LastIndex(strings.TrimSpace(name), " "); idx >= 0 {
			name = name[idx+1:]
		}
		if cleaned := keepAlnum(name); cleaned != "" {
			first = cleaned
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "@article{%s%s,\n", first, year)
	fmt.Fprintf(&b, "  title = {%s},\n", r.Title)
	if r.Authors != "" {
		fmt.Fprintf(&b, "  author = {%s},\n", r.Authors)
	}
	fmt.Fprintf(&b, "  year = {%s},\n", year)
	if r.DOI != "" {
		fmt.Fprintf(&b, "  doi = {%s},\n", r.DOI)
	}
	if r.URL != "" {
		fmt.Fprintf(&b, "  url = {%s},\n", r.URL)
	}
	b.WriteString("}\n")
	return b.String()
}

// FormatBibTeX writes one BibTeX entry per record to w.
func FormatBibTeX(records []types.ScoredRecord, w io.Writer) error {
	entries := make([]string, len(records))
	for i, r := range records {
		entries[i] = BibTeXEntry(r.MergedRecord)
	}
	_, err := io.WriteString(w, strings.Join(entries, "\n"))
	return err
}

func keepAlnum(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
