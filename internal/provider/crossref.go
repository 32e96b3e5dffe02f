// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litscout/internal/httputil"
	"github.com/pdiddy/litscout/internal/record"
	"github.com/pdiddy/litscout/pkg/types"
)

// crossrefAPIBase is the Crossref works endpoint. Declared as a var so
// tests can substitute an httptest server.
var crossrefAPIBase = "https://api.crossref.org/works"

// CrossrefBackend queries the Crossref REST API.
type CrossrefBackend struct {
	Client *http.Client
	// Email is sent as mailto parameter for polite pool access.
	Email      string
	UserAgent  string
	MaxRetries int
	Limiter    *rate.Limiter
}

// Name returns the source tag.
func (b *CrossrefBackend) Name() string { return types.SourceCrossref }

// Fetch queries the Crossref API and normalizes the hits.
func (b *CrossrefBackend) Fetch(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	params := url.Values{
		"query": {query},
		"rows":  {fmt.Sprintf("%d", limit)},
	}
	if b.Email != "" {
		params.Set("mailto", b.Email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crossrefAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Crossref API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Crossref API returned HTTP %d", resp.StatusCode)
	}

	var cr crossrefResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return nil, fmt.Errorf("parsing Crossref response: %w", err)
	}

	var records []types.Record
	for _, item := range cr.Message.Items {
		if len(item.Title) == 0 || item.Title[0] == "" {
			continue
		}

		var names []string
		for _, a := range item.Author {
			names = append(names, strings.TrimSpace(a.Given+" "+a.Family))
		}

		venue := "Crossref"
		if len(item.ContainerTitle) > 0 && item.ContainerTitle[0] != "" {
			venue = item.ContainerTitle[0]
		}

		year := 0
		if len(item.Issued.DateParts) > 0 && len(item.Issued.DateParts[0]) > 0 {
			year = item.Issued.DateParts[0][0]
		}

		records = append(records, record.Normalize(types.Record{
			Source:    types.SourceCrossref,
			Title:     item.Title[0],
			Authors:   record.FormatAuthors(names),
			Venue:     venue,
			Year:      year,
			Citations: item.IsReferencedByCount,
			DOI:       item.DOI,
			URL:       item.URL,
		}))
	}
	return records, nil
}

// Crossref API JSON structures.
type crossrefResponse struct {
	Message crossrefMessage `json:"message"`
}

type crossrefMessage struct {
	Items []crossrefItem `json:"items"`
}

type crossrefItem struct {
	Title               []string       `json:"title"`
	ContainerTitle      []string       `json:"container-title"`
	DOI                 string         `json:"DOI"`
	URL                 string         `json:"URL"`
	IsReferencedByCount int            `json:"is-referenced-by-count"`
	Author              []crossrefName `json:"author"`
	Issued              crossrefDate   `json:"issued"`
}

type crossrefName struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

type crossrefDate struct {
	DateParts [][]int `json:"date-parts"`
}
