// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package aggregate

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/litscout/pkg/types"
)

// QueryFile is the on-disk representation of a completed search. The
// researcher can save a run to a file and reload it later without
// re-querying the providers.
type QueryFile struct {
	Query   string               `yaml:"query"`
	Config  QueryFileConfig      `yaml:"config"`
	Records []types.ScoredRecord `yaml:"records"`
	Stats   []types.SourceStat   `yaml:"stats,omitempty"`
	Summary QuerySummary         `yaml:"summary"`
}

// QueryFileConfig stores the settings that produced the results.
type QueryFileConfig struct {
	Sources        []string           `yaml:"sources,omitempty"`
	MaxResults     int                `yaml:"max_results"`
	FuzzyTitle     bool               `yaml:"fuzzy_title"`
	FuzzyThreshold float64            `yaml:"fuzzy_threshold,omitempty"`
	Weights        types.ScoreWeights `yaml:"weights"`
}

// QuerySummary stores result counts and a timestamp.
type QuerySummary struct {
	RawRecords    int       `yaml:"raw_records"`
	MergedRecords int       `yaml:"merged_records"`
	Timestamp     time.Time `yaml:"timestamp"`
}

// WriteQueryFile saves a completed search to a YAML file.
func WriteQueryFile(path string, query string, cfg types.SearchConfig, dedupeCfg types.DedupeConfig, weights types.ScoreWeights, records []types.ScoredRecord, stats []types.SourceStat, rawCount int) error {
	qf := QueryFile{
		Query: query,
		Config: QueryFileConfig{
			Sources:        cfg.Sources,
			MaxResults:     cfg.MaxResults,
			FuzzyTitle:     dedupeCfg.FuzzyTitle,
			FuzzyThreshold: dedupeCfg.FuzzyThreshold,
			Weights:        weights,
		},
		Records: records,
		Stats:   stats,
		Summary: QuerySummary{
			RawRecords:    rawCount,
			MergedRecords: len(records),
			Timestamp:     time.Now(),
		},
	}

	data, err := yaml.Marshal(&qf)
	if err != nil {
		return fmt.Errorf("marshaling query file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadQueryFile loads a previously saved search from disk.
func ReadQueryFile(path string) (*QueryFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading query file: %w", err)
	}
	var qf QueryFile
	if err := yaml.Unmarshal(data, &qf); err != nil {
		return nil, fmt.Errorf("parsing query file: %w", err)
	}
	return &qf, nil
}
