// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pdiddy/litscout/pkg/types"
)

// QueryOptions holds parameters for archive queries.
type QueryOptions struct {
	// Query is the FTS5 full-text search string over titles and abstracts.
	Query string

	// RunID restricts results to one archived run. Zero means all runs.
	RunID int64

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// ArchivedRecord is a scored record with the provenance of the run that
// stored it.
type ArchivedRecord struct {
	types.ScoredRecord
	RunID    int64  `json:"run_id"`
	RunQuery string `json:"run_query"`
	Archived string `json:"archived"`
}

// Search queries the archive with optional full-text search and run
// filter. Full-text queries are ranked by relevance; structured-only
// queries come back newest run first, score descending.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]ArchivedRecord, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(
			`SELECT rec.record_id, rec.title, rec.authors, rec.year, rec.venue,
				rec.doi, rec.url, rec.pdf_url, rec.abstract, rec.citations,
				rec.open_access, rec.sources, rec.score,
				run.id, run.query, run.created
			FROM records_fts
			JOIN records rec ON rec.rowid = records_fts.rowid
			JOIN runs run ON rec.run_id = run.id
			WHERE records_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(
			`SELECT rec.record_id, rec.title, rec.authors, rec.year, rec.venue,
				rec.doi, rec.url, rec.pdf_url, rec.abstract, rec.citations,
				rec.open_access, rec.sources, rec.score,
				run.id, run.query, run.created
			FROM records rec
			JOIN runs run ON rec.run_id = run.id
			WHERE 1=1`)
	}

	if opts.RunID > 0 {
		qb.WriteString(` AND rec.run_id = ?`)
		args = append(args, opts.RunID)
	}

	if useFTS {
		qb.WriteString(` ORDER BY records_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY run.id DESC, rec.score DESC`)
	}

	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archive: %w", err)
	}
	defer rows.Close()

	var results []ArchivedRecord
	for rows.Next() {
		var (
			ar          ArchivedRecord
			sourcesJSON sql.NullString
		)
		if err := rows.Scan(
			&ar.RecordID, &ar.Title, &ar.Authors, &ar.Year, &ar.Venue,
			&ar.DOI, &ar.URL, &ar.PDFURL, &ar.Abstract, &ar.Citations,
			&ar.OpenAccess, &sourcesJSON, &ar.Score,
			&ar.RunID, &ar.RunQuery, &ar.Archived,
		); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if sourcesJSON.Valid {
			json.Unmarshal([]byte(sourcesJSON.String), &ar.Sources)
		}
		results = append(results, ar)
	}

	return results, rows.Err()
}
