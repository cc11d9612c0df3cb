package model

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all tunables of the retrieval engine.
type Config struct {
	// Result shaping
	ResultLimit       int     `yaml:"result_limit"`        // Final number of context chunks
	KeywordMatchLimit int     `yaml:"keyword_match_limit"` // Keyword matches merged into vector results
	QualityFloor      float64 `yaml:"quality_floor"`       // Minimum combined score for a chunk to survive
	MaxContextLength  int     `yaml:"max_context_length"`  // Character cap of the formatted block

	// Harvesting
	EncyclopediaLimit  int           `yaml:"encyclopedia_limit"`  // Encyclopedia articles per query
	WebLimit           int           `yaml:"web_limit"`           // Web search results per query
	NewsLimit          int           `yaml:"news_limit"`          // News search results per query
	RelevanceThreshold float64       `yaml:"relevance_threshold"` // Pre-index document relevance floor
	HarvestTimeout     time.Duration `yaml:"harvest_timeout"`     // Per harvest request bound
	UserAgent          string        `yaml:"user_agent"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		ResultLimit:        5,
		KeywordMatchLimit:  3,
		QualityFloor:       0.05,
		MaxContextLength:   4000,
		EncyclopediaLimit:  2,
		WebLimit:           15,
		NewsLimit:          10,
		RelevanceThreshold: 0.15,
		HarvestTimeout:     30 * time.Second,
		UserAgent:          "grounder/1.0 (+https://github.com/siherrmann/grounder)",
	}
}

// LoadConfig reads a YAML configuration file, filling unset fields with
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return &config, nil
}

// ConfigFromEnv builds a configuration from environment variables, loading a
// .env file first when present. Unset variables keep their defaults.
func ConfigFromEnv() (*Config, error) {
	// Missing .env files are fine, the process environment still applies.
	_ = godotenv.Load()

	config := DefaultConfig()

	if v := os.Getenv("GROUNDER_RESULT_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GROUNDER_RESULT_LIMIT: %w", err)
		}
		config.ResultLimit = limit
	}
	if v := os.Getenv("GROUNDER_WEB_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GROUNDER_WEB_LIMIT: %w", err)
		}
		config.WebLimit = limit
	}
	if v := os.Getenv("GROUNDER_NEWS_LIMIT"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("parse GROUNDER_NEWS_LIMIT: %w", err)
		}
		config.NewsLimit = limit
	}
	if v := os.Getenv("GROUNDER_HARVEST_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse GROUNDER_HARVEST_TIMEOUT: %w", err)
		}
		config.HarvestTimeout = timeout
	}
	if v := os.Getenv("GROUNDER_USER_AGENT"); v != "" {
		config.UserAgent = v
	}

	return &config, nil
}
