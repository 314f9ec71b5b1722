// internal/pipeline/structure/config.go
package structure

import "wikiqa/internal/common/config"

// Config carries the structuring stage tunables.
type Config struct {
	// MaxPointsPerSection bounds bullets rendered per section.
	MaxPointsPerSection int
	// ConfidenceNormWords is the rendered word count at which confidence
	// saturates at 1.
	ConfidenceNormWords int
}

func ConfigFromApp(cfg config.PipelineConfig) *Config {
	return &Config{
		MaxPointsPerSection: cfg.MaxPointsPerSection,
		ConfidenceNormWords: cfg.ConfidenceNormWords,
	}
}
