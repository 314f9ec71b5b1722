// internal/pipeline/retrieve/config.go
package retrieve

import "wikiqa/internal/common/config"

// Config carries the retrieval stage tunables.
type Config struct {
	// SearchLimit bounds hits taken per keyword search.
	SearchLimit int
	// MaxCandidates bounds candidates surviving deduplication.
	MaxCandidates int
	// MaxConcurrentFetches bounds parallel article fetches.
	MaxConcurrentFetches int
	// MinFullTextWords is the assembled word count under which the raw
	// article body is appended as backfill.
	MinFullTextWords int
}

func ConfigFromApp(cfg config.PipelineConfig) *Config {
	return &Config{
		SearchLimit:          cfg.SearchLimit,
		MaxCandidates:        cfg.MaxCandidates,
		MaxConcurrentFetches: cfg.MaxConcurrentFetches,
		MinFullTextWords:     cfg.MinFullTextWords,
	}
}
