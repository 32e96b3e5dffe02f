// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// RISEntry renders one RIS record (journal article type). Authors are
// emitted as one AU line per name. Like the other encoders it reads only
// documented metadata fields.
func RISEntry(r types.MergedRecord) string {
	var b strings.Builder
	b.WriteString("TY  - JOUR\n")
	fmt.Fprintf(&b, "TI  - %s\n", r.Title)
	for _, name := range strings.Split(r.Authors, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			fmt.Fprintf(&b, "AU  - %s\n", name)
		}
	}
	if r.Year > 0 {
		fmt.Fprintf(&b, "PY  - %d\n", r.Year)
	}
	if r.Venue != "" {
		fmt.Fprintf(&b, "JO  - %s\n", r.Venue)
	}
	if r.DOI != "" {
		fmt.Fprintf(&b, "DO  - %s\n", r.DOI)
	}
	if r.URL != "" {
		fmt.Fprintf(&b, "UR  - %s\n", r.URL)
	}
	b.WriteString("ER  - \n")
	return b.String()
}

// FormatRIS writes one RIS record per result to w.
func FormatRIS(records []types.ScoredRecord, w io.Writer) error {
	entries := make([]string, len(records))
	for i, r := range records {
		entries[i] = RISEntry(r.MergedRecord)
	}
	_, err := io.WriteString(w, strings.Join(entries, "\n"))
	return err
}
