// internal/common/config/config.go
package config

// Config holds the full application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Source   SourceConfig   `mapstructure:"source"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	QA       QAConfig       `mapstructure:"qa"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string   `mapstructure:"host"`
	Port            int      `mapstructure:"port"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
}

// SourceConfig selects and configures the document source backend.
type SourceConfig struct {
	Provider      string              `mapstructure:"provider"` // "mediawiki" or "elasticsearch"
	MediaWiki     MediaWikiConfig     `mapstructure:"mediawiki"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

type MediaWikiConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	Language  string `mapstructure:"language"`
	UserAgent string `mapstructure:"user_agent"`
	Timeout   int    `mapstructure:"timeout"` // milliseconds
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	URL       string   `mapstructure:"url"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PipelineConfig carries the tunables of the four answer stages.
type PipelineConfig struct {
	MaxCandidates        int     `mapstructure:"max_candidates"`
	SearchLimit          int     `mapstructure:"search_limit"`
	MaxConcurrentFetches int     `mapstructure:"max_concurrent_fetches"`
	MinRelevance         float64 `mapstructure:"min_relevance"`
	LengthNormWords      int     `mapstructure:"length_norm_words"`
	MinExcerptWords      int     `mapstructure:"min_excerpt_words"`
	MaxPointsPerSection  int     `mapstructure:"max_points_per_section"`
	ConfidenceNormWords  int     `mapstructure:"confidence_norm_words"`
	MinFullTextWords     int     `mapstructure:"min_full_text_words"`
}

type QAConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"` // milliseconds
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
