// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider implements the per-source clients that query external
// academic-metadata APIs and normalize their payloads into the canonical
// Record shape. Each provider owns its raw payload structure; the merge
// pipeline never branches on provider shape.
// See docs/ARCHITECTURE.md § Providers.
package provider

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/litscout/internal/aggregate"
	"github.com/pdiddy/litscout/pkg/types"
)

// limiter builds the client-side politeness limiter for one provider.
// A zero interval disables spacing.
func limiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// ForSources builds one backend per selected source tag. Google is
// silently skipped when its credentials are missing; an unknown tag is an
// error. An empty selection yields the default source set.
func ForSources(cfg types.SearchConfig) ([]aggregate.Backend, error) {
	tags := cfg.Sources
	if len(tags) == 0 {
		tags = types.DefaultSources
	}

	client := &http.Client{Timeout: cfg.Timeout}

	var backends []aggregate.Backend
	for _, tag := range tags {
		switch tag {
		case types.SourceSemanticScholar:
			backends = append(backends, &SemanticScholarBackend{
				Client:     client,
				APIKey:     cfg.SemanticScholarAPIKey,
				UserAgent:  cfg.UserAgent,
				MaxRetries: cfg.MaxRetries,
				Limiter:    limiter(cfg.RequestInterval),
			})
		case types.SourceOpenAlex:
			backends = append(backends, &OpenAlexBackend{
				Client:     client,
				Email:      cfg.ContactEmail,
				UserAgent:  cfg.UserAgent,
				MaxRetries: cfg.MaxRetries,
				Limiter:    limiter(cfg.RequestInterval),
			})
		case types.SourceArxiv:
			backends = append(backends, &ArxivBackend{
				Client:     client,
				UserAgent:  cfg.UserAgent,
				MaxRetries: cfg.MaxRetries,
				Limiter:    limiter(cfg.RequestInterval),
			})
		case types.SourceCrossref:
			backends = append(backends, &CrossrefBackend{
				Client:     client,
				Email:      cfg.ContactEmail,
				UserAgent:  cfg.UserAgent,
				MaxRetries: cfg.MaxRetries,
				Limiter:    limiter(cfg.RequestInterval),
			})
		case types.SourceGoogle:
			// Missing credentials mean "source skipped", not an error.
			if cfg.GoogleAPIKey == "" || cfg.GoogleCSEID == "" {
				continue
			}
			backends = append(backends, &GoogleCSEBackend{
				Client:     client,
				APIKey:     cfg.GoogleAPIKey,
				CSEID:      cfg.GoogleCSEID,
				UserAgent:  cfg.UserAgent,
				MaxRetries: cfg.MaxRetries,
				Limiter:    limiter(cfg.RequestInterval),
			})
		default:
			return nil, fmt.Errorf("unknown source %q", tag)
		}
	}
	return backends, nil
}
