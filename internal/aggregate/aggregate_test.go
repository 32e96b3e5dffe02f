// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/litscout/pkg/types"
)

// --- mock backend ---

type mockBackend struct {
	name    string
	records []types.Record
	err     error
	delay   time.Duration
	limit   int // captured from Fetch
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Fetch(ctx context.Context, _ string, limit int) ([]types.Record, error) {
	m.limit = limit
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return m.records, m.err
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		HTTPConfig: types.HTTPConfig{
			Timeout:   10 * time.Second,
			UserAgent: "test/0.1",
		},
		MaxResults: 20,
	}
}

func TestFetchRejectsEmptyQuery(t *testing.T) {
	var buf bytes.Buffer
	_, err := Fetch(context.Background(), "   ", []Backend{&mockBackend{name: "arxiv"}}, testCfg(), nil, &buf)
	if err == nil || !strings.Contains(err.Error(), "query is empty") {
		t.Errorf("err = %v, want query is empty", err)
	}
}

func TestFetchRejectsNoBackends(t *testing.T) {
	var buf bytes.Buffer
	_, err := Fetch(context.Background(), "attention", nil, testCfg(), nil, &buf)
	if err == nil || !strings.Contains(err.Error(), "no sources selected") {
		t.Errorf("err = %v, want no sources selected", err)
	}
}

func TestFetchCombinesSources(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "arxiv", records: []types.Record{
			{Source: "arxiv", Title: "Paper A"},
			{Source: "arxiv", Title: "Paper B"},
		}},
		&mockBackend{name: "openalex", records: []types.Record{
			{Source: "openalex", Title: "Paper C"},
		}},
	}

	var buf bytes.Buffer
	out, err := Fetch(context.Background(), "attention", backends, testCfg(), nil, &buf)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(out.Records) != 3 {
		t.Errorf("len(Records) = %d, want 3", len(out.Records))
	}
	if len(out.Stats) != 2 {
		t.Fatalf("len(Stats) = %d, want 2", len(out.Stats))
	}
	for _, s := range out.Stats {
		if s.Status != "OK" || s.Err != "" {
			t.Errorf("stat %+v, want OK with no error", s)
		}
	}
}

func TestFetchIsolatesFailingSource(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "arxiv", records: []types.Record{{Source: "arxiv", Title: "Paper A"}}},
		&mockBackend{name: "crossref", err: errors.New("HTTP 500")},
	}

	var buf bytes.Buffer
	out, err := Fetch(context.Background(), "attention", backends, testCfg(), nil, &buf)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(out.Records) != 1 || out.Records[0].Title != "Paper A" {
		t.Errorf("Records = %+v, want only the healthy source's paper", out.Records)
	}

	var failed types.SourceStat
	for _, s := range out.Stats {
		if s.Source == "crossref" {
			failed = s
		}
	}
	if failed.Status != "Error" || failed.Count != 0 || !strings.Contains(failed.Err, "HTTP 500") {
		t.Errorf("failed stat = %+v", failed)
	}
	if !strings.Contains(buf.String(), "warning: source crossref failed") {
		t.Errorf("warning not written: %q", buf.String())
	}
}

func TestFetchStatsSortedBySource(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "openalex", delay: 5 * time.Millisecond},
		&mockBackend{name: "arxiv", delay: 15 * time.Millisecond},
		&mockBackend{name: "crossref"},
	}

	var buf bytes.Buffer
	out, err := Fetch(context.Background(), "attention", backends, testCfg(), nil, &buf)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if !sort.SliceIsSorted(out.Stats, func(i, j int) bool {
		return out.Stats[i].Source < out.Stats[j].Source
	}) {
		t.Errorf("stats not sorted by source: %+v", out.Stats)
	}
}

func TestFetchProgressMonotonic(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "arxiv"},
		&mockBackend{name: "openalex"},
		&mockBackend{name: "crossref"},
	}

	var fractions []float64
	progress := func(f float64) { fractions = append(fractions, f) }

	var buf bytes.Buffer
	if _, err := Fetch(context.Background(), "attention", backends, testCfg(), progress, &buf); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(fractions) != 3 {
		t.Fatalf("progress called %d times, want 3", len(fractions))
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] <= fractions[i-1] {
			t.Errorf("progress not monotonic: %v", fractions)
		}
	}
	if fractions[len(fractions)-1] != 1.0 {
		t.Errorf("final fraction = %v, want 1.0", fractions[len(fractions)-1])
	}
}

func TestFetchDefaultLimit(t *testing.T) {
	b := &mockBackend{name: "arxiv"}
	cfg := testCfg()
	cfg.MaxResults = 0

	var buf bytes.Buffer
	if _, err := Fetch(context.Background(), "attention", []Backend{b}, cfg, nil, &buf); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if b.limit != 10 {
		t.Errorf("limit = %d, want default 10", b.limit)
	}
}

func TestRunSearchMergesAcrossProviders(t *testing.T) {
	backends := []Backend{
		&mockBackend{name: "arxiv", records: []types.Record{
			{Source: "arxiv", Title: "Attention Is All You Need", DOI: "10.1/attn", OpenAccess: true},
		}},
		&mockBackend{name: "semantic_scholar", records: []types.Record{
			{Source: "semantic_scholar", Title: "Attention is all you need", DOI: "10.1/ATTN", Citations: 90000},
			{Source: "semantic_scholar", Title: "A Different Result"},
		}},
	}

	var buf bytes.Buffer
	records, stats, err := RunSearch(context.Background(), "attention", backends,
		testCfg(), types.DedupeConfig{}, types.DefaultScoreWeights(), nil, &buf)
	if err != nil {
		t.Fatalf("RunSearch: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2 after merge", len(records))
	}
	if len(stats) != 2 {
		t.Errorf("len(stats) = %d, want 2", len(stats))
	}

	var attn types.ScoredRecord
	for _, r := range records {
		if r.RecordID == "doi:10.1/attn" {
			attn = r
		}
	}
	if attn.RecordID == "" {
		t.Fatalf("merged record not found: %+v", records)
	}
	if attn.SourceCount() != 2 || attn.Citations != 90000 || !attn.OpenAccess {
		t.Errorf("merge lost fields: %+v", attn)
	}
	if attn.Score <= 0 {
		t.Errorf("Score = %v, want > 0", attn.Score)
	}
}
