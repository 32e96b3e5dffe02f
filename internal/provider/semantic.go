// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litscout/internal/httputil"
	"github.com/pdiddy/litscout/internal/record"
	"github.com/pdiddy/litscout/pkg/types"
)

// semanticAPIBase is the Semantic Scholar paper search endpoint. Declared
// as a var so tests can substitute an httptest server.
var semanticAPIBase = "https://api.semanticscholar.org/graph/v1/paper/search"

const semanticFields = "title,authors,year,venue,url,externalIds,citationCount,abstract,isOpenAccess,openAccessPdf"

// SemanticScholarBackend queries the Semantic Scholar Graph API.
type SemanticScholarBackend struct {
	Client     *http.Client
	APIKey     string
	UserAgent  string
	MaxRetries int
	Limiter    *rate.Limiter
}

// Name returns the source tag.
func (b *SemanticScholarBackend) Name() string { return types.SourceSemanticScholar }

// Fetch queries the Semantic Scholar API and normalizes the hits.
func (b *SemanticScholarBackend) Fetch(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprintf("%d", limit)},
		"fields": {semanticFields},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, semanticAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)
	if b.APIKey != "" {
		req.Header.Set("x-api-key", b.APIKey)
	}

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Semantic Scholar API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Semantic Scholar API returned HTTP %d", resp.StatusCode)
	}

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("parsing Semantic Scholar response: %w", err)
	}

	var records []types.Record
	for _, paper := range sr.Data {
		if paper.Title == "" {
			continue
		}

		var names []string
		for _, a := range paper.Authors {
			names = append(names, a.Name)
		}

		pdf := ""
		if paper.OpenAccessPdf != nil {
			pdf = paper.OpenAccessPdf.URL
		}

		records = append(records, record.Normalize(types.Record{
			Source:     types.SourceSemanticScholar,
			Title:      paper.Title,
			Authors:    record.FormatAuthors(names),
			Venue:      paper.Venue,
			Year:       paper.Year,
			Citations:  paper.CitationCount,
			DOI:        paper.ExternalIDs.DOI,
			URL:        paper.URL,
			PDFURL:     pdf,
			Abstract:   paper.Abstract,
			OpenAccess: paper.IsOpenAccess || pdf != "",
		}))
	}
	return records, nil
}

// Semantic Scholar API JSON structures.
type semanticResponse struct {
	Total  int             `json:"total"`
	Offset int             `json:"offset"`
	Data   []semanticPaper `json:"data"`
}

type semanticPaper struct {
	PaperID       string              `json:"paperId"`
	Title         string              `json:"title"`
	Abstract      string              `json:"abstract"`
	Venue         string              `json:"venue"`
	Year          int                 `json:"year"`
	URL           string              `json:"url"`
	CitationCount int                 `json:"citationCount"`
	IsOpenAccess  bool                `json:"isOpenAccess"`
	OpenAccessPdf *semanticOpenAccess `json:"openAccessPdf"`
	Authors       []semanticAuthor    `json:"authors"`
	ExternalIDs   semanticExternalIDs `json:"externalIds"`
}

type semanticOpenAccess struct {
	URL string `json:"url"`
}

type semanticAuthor struct {
	AuthorID string `json:"authorId"`
	Name     string `json:"name"`
}

type semanticExternalIDs struct {
	DOI   string `json:"DOI"`
	ArXiv string `json:"ArXiv"`
}
