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

// googleCSEAPIBase is the Google Custom Search endpoint. Declared as a
// var so tests can substitute an httptest server.
var googleCSEAPIBase = "https://www.googleapis.com/customsearch/v1"

// googleCSEMaxResults is the hard per-request cap of the CSE API.
const googleCSEMaxResults = 10

// GoogleCSEBackend queries the Google Custom Search API. Web hits carry
// no year, DOI, or citation data; the scorer treats those as absent.
type GoogleCSEBackend struct {
	Client     *http.Client
	APIKey     string
	CSEID      string
	UserAgent  string
	MaxRetries int
	Limiter    *rate.Limiter
}

// Name returns the source tag.
func (b *GoogleCSEBackend) Name() string { return types.SourceGoogle }

// Fetch queries the Custom Search API and normalizes the hits.
func (b *GoogleCSEBackend) Fetch(ctx context.Context, query string, limit int) ([]types.Record, error) {
	if b.APIKey == "" || b.CSEID == "" {
		return nil, fmt.Errorf("google custom search requires an API key and CSE ID")
	}

	if b.Limiter != nil {
		if err := b.Limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if limit > googleCSEMaxResults {
		limit = googleCSEMaxResults
	}

	params := url.Values{
		"q":   {query},
		"key": {b.APIKey},
		"cx":  {b.CSEID},
		"num": {fmt.Sprintf("%d", limit)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleCSEAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", b.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, b.Client, req, b.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("Google CSE request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Google CSE returned HTTP %d", resp.StatusCode)
	}

	var gr googleCSEResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return nil, fmt.Errorf("parsing Google CSE response: %w", err)
	}

	var records []types.Record
	for _, item := range gr.Items {
		if item.Title == "" {
			continue
		}

		pdf := ""
		if strings.HasSuffix(strings.ToLower(item.Link), ".pdf") {
			pdf = item.Link
		}

		records = append(records, record.Normalize(types.Record{
			Source:   types.SourceGoogle,
			Title:    item.Title,
			Authors:  "See link",
			Venue:    item.DisplayLink,
			URL:      item.Link,
			PDFURL:   pdf,
			Abstract: item.Snippet,
		}))
	}
	return records, nil
}

// Google Custom Search JSON structures.
type googleCSEResponse struct {
	Items []googleCSEItem `json:"items"`
}

type googleCSEItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	DisplayLink string `json:"displayLink"`
	Snippet     string `json:"snippet"`
}
