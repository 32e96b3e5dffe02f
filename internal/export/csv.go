// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// csvHeader lists the exported columns in order.
var csvHeader = []string{
	"RecordId", "Source", "Title", "Authors", "Year", "Venue",
	"DOI", "OpenAccess", "Cites", "Score", "PDF", "URL",
}

// FormatCSV writes records as CSV with a header row. Absent years are
// written as empty cells rather than zeros.
func FormatCSV(records []types.ScoredRecord, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range records {
		year := ""
		if r.Year > 0 {
			year = fmt.Sprintf("%d", r.Year)
		}
		row := []string{
			r.RecordID,
			strings.Join(r.Sources, " | "),
			r.Title,
			r.Authors,
			year,
			r.Venue,
			r.DOI,
			fmt.Sprintf("%t", r.OpenAccess),
			fmt.Sprintf("%d", r.Citations),
			fmt.Sprintf("%.4f", r.Score),
			r.PDFURL,
			r.URL,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
