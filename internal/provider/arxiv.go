// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litscout/internal/httputil"
	"github.com/pdiddy/litscout/internal/record"
	"github.com/pdiddy/litscout/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

// ArxivBackend queries the arXiv Atom API. Preprints carry no DOI or
// citation count; every hit is open access by construction.
type ArxivBackend struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	Limiter    *rate.Limiter
}

// Name returns the source tag.
func (b *ArxivBackend) Name() string { return types.SourceArxiv }

// Fetch queries the arXiv API and normalizes the feed entries.
func (b *ArxivBackend) Fetch(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{
		"search_query": {"all:" + query},
		"start":        {"0"},
		"max_results":  {fmt.Sprintf("%d", limit)},
		"sortBy":       {"relevance"},
		"sortOrder":    {"descending"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv API returned HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var records []types.Record
	for _, entry := range feed.Entries {
		title := record.CleanText(entry.Title)
		if title == "" {
			continue
		}

		var names []string
		for _, a := range entry.Authors {
			names = append(names, a.Name)
		}

		year := 0
		if len(entry.Published) >= 4 {
			if y, convErr := strconv.Atoi(entry.Published[:4]); convErr == nil {
				year = y
			}
		}

		pdf := ""
		for _, link := range entry.Links {
			if link.Title == "pdf" {
				pdf = link.Href
			}
		}

		records = append(records, record.Normalize(types.Record{
			Source:     types.SourceArxiv,
			Title:      title,
			Authors:    record.FormatAuthors(names),
			Venue:      "arXiv",
			Year:       year,
			URL:        entry.ID,
			PDFURL:     pdf,
			Abstract:   entry.Summary,
			OpenAccess: true,
		}))
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Title string `xml:"title,attr"`
	Rel   string `xml:"rel,attr"`
}

// ExtractArxivID pulls the arXiv ID from an abs URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func ExtractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := idURL[idx+len(prefix):]

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
