package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Environment represents different deployment environments.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the brainvault service.
// Environment variables are parsed from the BRAINVAULT_ prefix,
// e.g. BRAINVAULT_HTTP_PORT, BRAINVAULT_POSTGRES_DSN.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Primary store. DBDriver "auto" resolves to postgres when a DSN is
	// configured, sqlite otherwise.
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:"brainvault.db"`

	// Vector index (host:port, no scheme).
	SearchIndexURL string `envconfig:"SEARCH_INDEX_URL" default:"localhost:8082"`

	// Embeddings / generation.
	EmbedProvider string `envconfig:"EMBED_PROVIDER" default:"gemini"`
	EmbedModel    string `envconfig:"EMBED_MODEL" default:"text-embedding-004"`
	AnswerModel   string `envconfig:"ANSWER_MODEL" default:"gemini-2.0-flash"`
	GeminiAPIKey  string `envconfig:"GEMINI_API_KEY" default:""`
	OllamaURL     string `envconfig:"OLLAMA_URL" default:"http://localhost:11434"`

	// Retrieval tuning.
	SearchTopK int `envconfig:"SEARCH_TOP_K" default:"5"`

	// Scraper.
	ScrapeTimeoutSeconds int `envconfig:"SCRAPE_TIMEOUT_SECONDS" default:"90"`

	// Content longer than this is summarized in chunks before embedding.
	SummarizeThresholdChars int `envconfig:"SUMMARIZE_THRESHOLD_CHARS" default:"8000"`

	// Startup bootstrap budget for store/index checks.
	BootstrapTimeoutSeconds int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"30"`

	// Dev API key accepted by the static authorizer when no external
	// identity provider is wired.
	DevAPIKey string `envconfig:"DEV_API_KEY" default:""`
}

// ResolveDefaults validates driver and provider selection and derives
// DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.PostgresDSN != "" {
			c.DBDriver = "postgres"
		} else {
			c.DBDriver = "sqlite"
		}
	}
	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	switch c.EmbedProvider {
	case "gemini", "ollama":
	default:
		return fmt.Errorf("unsupported EMBED_PROVIDER: %s", c.EmbedProvider)
	}

	if c.SearchTopK <= 0 {
		c.SearchTopK = 5
	}
	return nil
}

// New creates a Config by parsing BRAINVAULT_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("BRAINVAULT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// NewForTesting creates a config suitable for unit tests.
func NewForTesting() *Config {
	return &Config{
		Environment:             EnvTesting,
		HTTPPort:                8080,
		DBDriver:                "sqlite",
		SQLitePath:              ":memory:",
		SearchIndexURL:          "localhost:8082",
		EmbedProvider:           "ollama",
		EmbedModel:              "mxbai-embed-large",
		AnswerModel:             "gemini-2.0-flash",
		SearchTopK:              5,
		ScrapeTimeoutSeconds:    5,
		SummarizeThresholdChars: 8000,
		BootstrapTimeoutSeconds: 5,
	}
}

// IsTesting returns true if the environment is set to testing.
func (c *Config) IsTesting() bool { return c.Environment == EnvTesting }

// IsProduction returns true if the environment is set to production.
func (c *Config) IsProduction() bool { return c.Environment == EnvProduction }

// GetHTTPAddr returns the HTTP server listen address.
func (c *Config) GetHTTPAddr() string { return fmt.Sprintf(":%d", c.HTTPPort) }
