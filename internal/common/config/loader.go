// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like SERVER_PORT
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, ignored when not present
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig()

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the first location where one exists.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		val := v.Get(key)

		if strVal, ok := val.(string); ok {
			if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
				expanded := os.ExpandEnv(strVal)
				if expanded != strVal && expanded != "" {
					v.Set(key, expanded)
				}
			}
		}
	}
}

// overrideEmptyConfig fills credentials from the environment when the config
// file leaves them blank.
func overrideEmptyConfig(cfg *Config) {
	if cfg.Source.Elasticsearch.Username == "" {
		if val := os.Getenv("ELASTICSEARCH_USERNAME"); val != "" {
			cfg.Source.Elasticsearch.Username = val
		}
	}
	if cfg.Source.Elasticsearch.Password == "" {
		if val := os.Getenv("ELASTICSEARCH_PASSWORD"); val != "" {
			cfg.Source.Elasticsearch.Password = val
		}
	}
	if cfg.Redis.Password == "" {
		if val := os.Getenv("REDIS_PASSWORD"); val != "" {
			cfg.Redis.Password = val
		}
	}
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expandEnvVars(viper.GetViper())

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "wikiqa"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	// Server defaults
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10000
	}

	// Source defaults
	if cfg.Source.Provider == "" {
		cfg.Source.Provider = "mediawiki"
	}
	if cfg.Source.MediaWiki.Language == "" {
		cfg.Source.MediaWiki.Language = "en"
	}
	if cfg.Source.MediaWiki.BaseURL == "" {
		cfg.Source.MediaWiki.BaseURL = fmt.Sprintf("https://%s.wikipedia.org", cfg.Source.MediaWiki.Language)
	}
	if cfg.Source.MediaWiki.UserAgent == "" {
		cfg.Source.MediaWiki.UserAgent = "wikiqa/1.0"
	}
	if cfg.Source.MediaWiki.Timeout == 0 {
		cfg.Source.MediaWiki.Timeout = 10000
	}
	if cfg.Source.Elasticsearch.URL == "" && len(cfg.Source.Elasticsearch.Addresses) > 0 {
		cfg.Source.Elasticsearch.URL = cfg.Source.Elasticsearch.Addresses[0]
	}
	if cfg.Source.Elasticsearch.Index == "" {
		cfg.Source.Elasticsearch.Index = "articles"
	}

	// Pipeline defaults
	if cfg.Pipeline.MaxCandidates == 0 {
		cfg.Pipeline.MaxCandidates = 3
	}
	if cfg.Pipeline.SearchLimit == 0 {
		cfg.Pipeline.SearchLimit = 5
	}
	if cfg.Pipeline.MaxConcurrentFetches == 0 {
		cfg.Pipeline.MaxConcurrentFetches = 4
	}
	if cfg.Pipeline.MinRelevance == 0 {
		cfg.Pipeline.MinRelevance = 0.3
	}
	if cfg.Pipeline.LengthNormWords == 0 {
		cfg.Pipeline.LengthNormWords = 200
	}
	if cfg.Pipeline.MinExcerptWords == 0 {
		cfg.Pipeline.MinExcerptWords = 100
	}
	if cfg.Pipeline.MaxPointsPerSection == 0 {
		cfg.Pipeline.MaxPointsPerSection = 5
	}
	if cfg.Pipeline.ConfidenceNormWords == 0 {
		cfg.Pipeline.ConfidenceNormWords = 500
	}
	if cfg.Pipeline.MinFullTextWords == 0 {
		cfg.Pipeline.MinFullTextWords = 500
	}

	if cfg.QA.Timeout == 0 {
		cfg.QA.Timeout = 30000
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	switch cfg.Source.Provider {
	case "mediawiki":
		if cfg.Source.MediaWiki.BaseURL == "" {
			return fmt.Errorf("source.mediawiki.base_url is required")
		}
	case "elasticsearch":
		if len(cfg.Source.Elasticsearch.Addresses) == 0 && cfg.Source.Elasticsearch.URL == "" {
			return fmt.Errorf("source.elasticsearch.addresses or url is required")
		}
	default:
		return fmt.Errorf("source.provider must be 'mediawiki' or 'elasticsearch', got %q", cfg.Source.Provider)
	}

	if cfg.Pipeline.MinRelevance < 0 || cfg.Pipeline.MinRelevance > 1 {
		return fmt.Errorf("pipeline.min_relevance must be between 0 and 1")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
