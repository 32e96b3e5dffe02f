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

const arxivFeedFixture = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>http://arxiv.org/abs/1706.03762v7</id>
    <title>Attention Is All
      You Need</title>
    <summary>The dominant sequence transduction models are based on
      recurrent networks.</summary>
    <published>2017-06-12T17:57:34Z</published>
    <author><name>Ashish Vaswani</name></author>
    <author><name>Noam Shazeer</name></author>
    <link href="http://arxiv.org/abs/1706.03762v7" rel="alternate" type="text/html"/>
    <link href="http://arxiv.org/pdf/1706.03762v7" rel="related" type="application/pdf" title="pdf"/>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/9999.00000v1</id>
    <title>  </title>
    <published>2020-01-01T00:00:00Z</published>
  </entry>
</feed>`

func TestArxivFetchRequestParams(t *testing.T) {
	var capturedReq *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedReq = r
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"></feed>`)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	if _, err := b.Fetch(context.Background(), "attention", 25); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	q := capturedReq.URL.Query()
	if got := q.Get("search_query"); got != "all:attention" {
		t.Errorf("search_query param = %q", got)
	}
	if got := q.Get("max_results"); got != "25" {
		t.Errorf("max_results param = %q", got)
	}
	if got := q.Get("sortBy"); got != "relevance" {
		t.Errorf("sortBy param = %q", got)
	}
}

func TestArxivFetchParsesFeed(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		fmt.Fprint(w, arxivFeedFixture)
	}))
	defer ts.Close()

	old := arxivAPIBase
	arxivAPIBase = ts.URL
	defer func() { arxivAPIBase = old }()

	b := &ArxivBackend{Client: ts.Client()}
	records, err := b.Fetch(context.Background(), "attention", 10)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	// The titleless entry is dropped.
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}

	r := records[0]
	if r.Source != types.SourceArxiv || r.Venue != "arXiv" {
		t.Errorf("record = %+v", r)
	}
	// Multi-line feed titles collapse to single-spaced text.
	if r.Title != "Attention Is All You Need" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.Year != 2017 {
		t.Errorf("Year = %d, want 2017 from the published date", r.Year)
	}
	if r.Authors != "Ashish Vaswani, Noam Shazeer" {
		t.Errorf("Authors = %q", r.Authors)
	}
	if r.PDFURL != "http://arxiv.org/pdf/1706.03762v7" {
		t.Errorf("PDFURL = %q, want the pdf-titled link", r.PDFURL)
	}
	if !r.OpenAccess {
		t.Error("OpenAccess = false, want true for preprints")
	}
}

func TestExtractArxivID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"versioned abs URL", "http://arxiv.org/abs/2301.07041v1", "2301.07041"},
		{"unversioned abs URL", "http://arxiv.org/abs/2301.07041", "2301.07041"},
		{"high version", "https://arxiv.org/abs/1706.03762v12", "1706.03762"},
		{"not an abs URL", "https://example.com/paper", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractArxivID(tt.in); got != tt.want {
				t.Errorf("ExtractArxivID(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
