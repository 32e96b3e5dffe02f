// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate implements the merge pipeline: it fans a query out to
// the selected provider clients, deduplicates the combined records, scores
// them against the query, and applies user filters and ordering.
// See docs/ARCHITECTURE.md § Pipeline.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/litscout/pkg/types"
)

// Backend fetches records from a single provider. Each provider client
// (Semantic Scholar, OpenAlex, arXiv, Crossref, Google CSE) implements
// this interface per the Strategy pattern.
type Backend interface {
	Name() string
	Fetch(ctx context.Context, query string, limit int) ([]types.Record, error)
}

// ProgressFunc receives the running completion fraction (completed/total)
// once per finished source. It is called from the fan-in goroutine only.
type ProgressFunc func(fraction float64)

// FetchOutput holds the combined records and per-source diagnostics from
// one fan-out run.
type FetchOutput struct {
	// Records is the concatenation of every successful source's records
	// in completion order. Completion order is nondeterministic; the
	// downstream stages never depend on it for correctness.
	Records []types.Record

	// Stats has one entry per attempted source, sorted by source tag.
	Stats []types.SourceStat
}

// Fetch issues one concurrent fetch per backend and collects the results
// as they complete. A failing source is recorded in its SourceStat and
// never aborts its siblings. An empty query is rejected before any fetch
// is attempted. Warnings about failed sources are written to w.
func Fetch(ctx context.Context, query string, backends []Backend, cfg types.SearchConfig, progress ProgressFunc, w io.Writer) (FetchOutput, error) {
	if strings.TrimSpace(query) == "" {
		return FetchOutput{}, fmt.Errorf("query is empty: provide a search term")
	}
	if len(backends) == 0 {
		return FetchOutput{}, fmt.Errorf("no sources selected")
	}

	limit := cfg.MaxResults
	if limit <= 0 {
		limit = 10
	}

	type sourceResult struct {
		name    string
		records []types.Record
		err     error
		elapsed time.Duration
	}

	ch := make(chan sourceResult, len(backends))
	var wg sync.WaitGroup

	for _, b := range backends {
		wg.Add(1)
		go func(b Backend) {
			defer wg.Done()
			fetchCtx := ctx
			if cfg.Timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
				defer cancel()
			}
			started := time.Now()
			records, err := b.Fetch(fetchCtx, query, limit)
			ch <- sourceResult{
				name:    b.Name(),
				records: records,
				err:     err,
				elapsed: time.Since(started),
			}
		}(b)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var out FetchOutput
	completed := 0
	total := len(backends)

	// Single-writer fan-in: each source's records are appended only after
	// that source completes.
	for sr := range ch {
		stat := types.SourceStat{
			Source:   sr.name,
			Count:    len(sr.records),
			Duration: sr.elapsed.Seconds(),
			Status:   "OK",
		}
		if sr.err != nil {
			stat.Err = sr.err.Error()
			stat.Status = "Error"
			stat.Count = 0
			fmt.Fprintf(w, "warning: source %s failed: %v\n", sr.name, sr.err)
		} else {
			out.Records = append(out.Records, sr.records...)
		}
		out.Stats = append(out.Stats, stat)

		completed++
		if progress != nil {
			progress(float64(completed) / float64(total))
		}
	}

	sort.Slice(out.Stats, func(i, j int) bool {
		return out.Stats[i].Source < out.Stats[j].Source
	})
	return out, nil
}

// RunSearch runs the full pipeline for a query: fetch, dedupe, score. The
// returned records are unordered; apply FilterAndSort for display. Stats
// carry per-source diagnostics even when some sources failed.
func RunSearch(ctx context.Context, query string, backends []Backend, cfg types.SearchConfig, dedupeCfg types.DedupeConfig, weights types.ScoreWeights, progress ProgressFunc, w io.Writer) ([]types.ScoredRecord, []types.SourceStat, error) {
	out, err := Fetch(ctx, query, backends, cfg, progress, w)
	if err != nil {
		return nil, nil, err
	}

	merged := Dedupe(out.Records, dedupeCfg)
	return ScoreAll(query, merged, weights), out.Stats, nil
}
