// internal/pipeline/rank/config.go
package rank

import "wikiqa/internal/common/config"

// Config carries the ranking stage tunables.
type Config struct {
	// MinRelevance is the score below which candidates are discarded.
	MinRelevance float64
	// LengthNormWords is the word count at which the length factor
	// saturates at 1.
	LengthNormWords int
	// MinExcerptWords is the combined paragraph word count under which
	// excerpt selection falls back to sentence mode.
	MinExcerptWords int
}

func ConfigFromApp(cfg config.PipelineConfig) *Config {
	return &Config{
		MinRelevance:    cfg.MinRelevance,
		LengthNormWords: cfg.LengthNormWords,
		MinExcerptWords: cfg.MinExcerptWords,
	}
}
