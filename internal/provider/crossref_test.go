// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package provider

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pdiddy/litscout/pkg/types"
)

func TestCrossrefFetchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":{"items":[]}}`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossrefBackend{Client: ts.Client(), Email: "user@example.com"}
	if _, err := b.Fetch(context.Background(), "deep learning", 7); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("query"); got != "deep learning" {
		t.Errorf("query param = %q", got)
	}
	if got := q.Get("rows"); got != "7" {
		t.Errorf("rows param = %q", got)
	}
	if got := q.Get("mailto"); got != "user@example.com" {
		t.Errorf("mailto param = %q", got)
	}
}

func TestCrossrefFetchParsesItems(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"message": {
				"items": [
					{
						"title": ["Deep Residual Learning for Image Recognition"],
						"container-title": ["CVPR"],
						"DOI": "10.1109/CVPR.2016.90",
						"URL": "https://doi.org/10.1109/cvpr.2016.90",
						"is-referenced-by-count": 150000,
						"author": [
							{"given": "Kaiming", "family": "He"},
							{"given": "Xiangyu", "family": "Zhang"}
						],
						"issued": {"date-parts": [[2016, 6]]}
					},
					{"title": [], "DOI": "10.1/empty"},
					{
						"title": ["No Venue Entry"],
						"DOI": "10.1/novenue",
						"issued": {"date-parts": []}
					}
				]
			}
		}`)
	}))
	defer ts.Close()

	old := crossrefAPIBase
	crossrefAPIBase = ts.URL
	defer func() { crossrefAPIBase = old }()

	b := &CrossrefBackend{Client: ts.Client()}
	records, err := b.Fetch(context.Background(), "residual learning", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// The titleless item is dropped; the venue-less one survives.
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	r := records[0]
	if r.Source != types.SourceCrossref || r.Venue != "CVPR" || r.Year != 2016 {
		t.Errorf("record = %+v", r)
	}
	if r.Authors != "Kaiming He, Xiangyu Zhang" {
		t.Errorf("Authors = %q", r.Authors)
	}
	if r.DOI != "10.1109/cvpr.2016.90" {
		t.Errorf("DOI = %q, want lowercased", r.DOI)
	}
	if r.Citations != 150000 {
		t.Errorf("Citations = %d", r.Citations)
	}

	if records[1].Venue != "Crossref" {
		t.Errorf("Venue = %q, want Crossref fallback", records[1].Venue)
	}
	if records[1].Year != 0 {
		t.Errorf("Year = %d, want 0 for missing date parts", records[1].Year)
	}
}
