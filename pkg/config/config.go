package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:generate go run ../../cmd/schema/main.go schema.json

// Config holds the application configuration
type Config struct {
	Server struct {
		Listen  string        `yaml:"listen" json:"listen" jsonschema:"default=:8080,description=HTTP server listen address"`
		Timeout time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=HTTP server timeout"`
	} `yaml:"server" json:"server" jsonschema:"description=Server configuration"`

	Database struct {
		DSN             string `yaml:"dsn" json:"dsn" jsonschema:"default=file:bloomscroll.db?cache=shared&mode=rwc,description=Database connection string"`
		MaxOpenConns    int    `yaml:"max_open_conns" json:"max_open_conns" jsonschema:"default=10,description=Maximum number of open connections"`
		MaxIdleConns    int    `yaml:"max_idle_conns" json:"max_idle_conns" jsonschema:"default=5,description=Maximum number of idle connections"`
		ConnMaxLifetime int    `yaml:"conn_max_lifetime" json:"conn_max_lifetime" jsonschema:"default=3600,description=Connection maximum lifetime in seconds"`
	} `yaml:"database" json:"database" jsonschema:"description=Database configuration"`

	Schedule struct {
		UpdateInterval int `yaml:"update_interval" json:"update_interval" jsonschema:"default=60,description=Source refresh interval in minutes"`
		EmbedInterval  int `yaml:"embed_interval" json:"embed_interval" jsonschema:"default=5,description=Embedding backfill interval in minutes"`
		MaxWorkers     int `yaml:"max_workers" json:"max_workers" jsonschema:"default=5,description=Maximum concurrent source fetches"`
		BatchSize      int `yaml:"batch_size" json:"batch_size" jsonschema:"default=32,description=Cards per embedding backfill batch"`
	} `yaml:"schedule" json:"schedule" jsonschema:"description=Scheduler configuration"`

	Embedding EmbeddingConfig `yaml:"embedding" json:"embedding" jsonschema:"description=Embedding provider configuration"`

	LLM LLMConfig `yaml:"llm" json:"llm" jsonschema:"description=LLM configuration for card summarization"`

	Curation CurationConfig `yaml:"curation" json:"curation" jsonschema:"description=Feed curation configuration"`

	Extraction ExtractionConfig `yaml:"extraction" json:"extraction" jsonschema:"description=Full-text extraction configuration"`

	Sources SourcesConfig `yaml:"sources" json:"sources" jsonschema:"description=Ingestion sources"`
}

// EmbeddingConfig holds the embedding provider settings
type EmbeddingConfig struct {
	Endpoint   string `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey     string `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model      string `yaml:"model" json:"model" jsonschema:"required,description=Embedding model name"`
	Dimensions int    `yaml:"dimensions" json:"dimensions" jsonschema:"default=384,description=Embedding vector size"`
}

// LLMConfig holds LLM configuration for card summarization
type LLMConfig struct {
	Enabled      bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable LLM summarization"`
	Endpoint     string        `yaml:"endpoint" json:"endpoint" jsonschema:"description=OpenAI-compatible API endpoint"`
	APIKey       string        `yaml:"api_key" json:"api_key" jsonschema:"description=API key (can use environment variable)"`
	Model        string        `yaml:"model" json:"model" jsonschema:"description=Model name (e.g. gpt-4o-mini or llama3)"`
	Temperature  float64       `yaml:"temperature" json:"temperature" jsonschema:"default=0.3,description=Temperature for response generation"`
	MaxTokens    int           `yaml:"max_tokens" json:"max_tokens" jsonschema:"default=1000,description=Maximum tokens in response"`
	Timeout      time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Request timeout"`
	SystemPrompt string        `yaml:"system_prompt" json:"system_prompt" jsonschema:"description=System prompt for the LLM (optional)"`
	BatchSize    int           `yaml:"batch_size" json:"batch_size" jsonschema:"default=5,minimum=1,description=Number of cards to annotate in one request"`
	UseJSONMode  bool          `yaml:"use_json_mode" json:"use_json_mode" jsonschema:"default=false,description=Use JSON response format (not all models support this)"`
}

// CurationConfig holds feed curation settings
type CurationConfig struct {
	MinDistance float64 `yaml:"min_distance" json:"min_distance" jsonschema:"default=0.3,minimum=0,maximum=2,description=Lower bound of the serendipity distance band"`
	MaxDistance float64 `yaml:"max_distance" json:"max_distance" jsonschema:"default=0.8,minimum=0,maximum=2,description=Upper bound of the serendipity distance band"`
	DailyLimit  int     `yaml:"daily_limit" json:"daily_limit" jsonschema:"default=20,minimum=1,description=Cards served per user per day"`
	ContextSize int     `yaml:"context_size" json:"context_size" jsonschema:"default=5,minimum=1,description=Recent interactions used to build the reading context"`
}

// ExtractionConfig holds full-text extraction settings
type ExtractionConfig struct {
	Enabled       bool          `yaml:"enabled" json:"enabled" jsonschema:"default=false,description=Enable full-text extraction for thin descriptions"`
	Timeout       time.Duration `yaml:"timeout" json:"timeout" jsonschema:"default=30s,description=Extraction timeout per page"`
	UserAgent     string        `yaml:"user_agent" json:"user_agent" jsonschema:"default=BloomScroll/1.0,description=User agent for HTTP requests"`
	MinTextLength int           `yaml:"min_text_length" json:"min_text_length" jsonschema:"default=100,description=Minimum extracted text length to consider valid"`
}

// SourceFeed is one RSS/Atom feed to ingest
type SourceFeed struct {
	Name string `yaml:"name" json:"name" jsonschema:"description=Display name for the feed"`
	URL  string `yaml:"url" json:"url" jsonschema:"required,description=Feed URL"`
}

// OWIDChart names one Our World in Data indicator to turn into a chart card
type OWIDChart struct {
	Slug      string `yaml:"slug" json:"slug" jsonschema:"required,description=Grapher slug (e.g. life-expectancy)"`
	Title     string `yaml:"title" json:"title" jsonschema:"required,description=Card title"`
	Entity    string `yaml:"entity" json:"entity" jsonschema:"default=World,description=Entity to extract from the dataset"`
	Unit      string `yaml:"unit" json:"unit" jsonschema:"description=Unit shown with the latest value"`
	ChartType string `yaml:"chart_type" json:"chart_type" jsonschema:"default=line,description=Client-side chart type"`
}

// ArenaChannel is one Are.na channel mined for aesthetic image cards
type ArenaChannel struct {
	Slug      string `yaml:"slug" json:"slug" jsonschema:"required,description=Are.na channel slug"`
	Aesthetic string `yaml:"aesthetic" json:"aesthetic" jsonschema:"description=Aesthetic label attached to the cards"`
}

// SourcesConfig lists the ingestion sources
type SourcesConfig struct {
	RSS          []SourceFeed   `yaml:"rss" json:"rss" jsonschema:"description=RSS/Atom feeds"`
	OWID         []OWIDChart    `yaml:"owid" json:"owid" jsonschema:"description=Our World in Data charts"`
	Arena        []ArenaChannel `yaml:"arena" json:"arena" jsonschema:"description=Are.na channels"`
	OWIDBaseURL  string         `yaml:"owid_base_url" json:"owid_base_url" jsonschema:"description=Override for the OWID grapher endpoint"`
	ArenaBaseURL string         `yaml:"arena_base_url" json:"arena_base_url" jsonschema:"description=Override for the Are.na API endpoint"`
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // file path comes from CLI flag
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	// expand environment variables
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	setDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	// verify against embedded schema
	if err := VerifyAgainstEmbeddedSchema(&cfg); err != nil {
		// log warning but don't fail - schema validation is supplementary
		fmt.Printf("warning: schema validation failed: %v\n", err)
	}

	return &cfg, nil
}

func setDefaults(cfg *Config) {
	if cfg.Server.Listen == "" {
		cfg.Server.Listen = ":8080"
	}
	if cfg.Server.Timeout == 0 {
		cfg.Server.Timeout = 30 * time.Second
	}

	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:bloomscroll.db?cache=shared&mode=rwc&_txlock=immediate"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = 3600
	}

	if cfg.Schedule.UpdateInterval == 0 {
		cfg.Schedule.UpdateInterval = 60
	}
	if cfg.Schedule.EmbedInterval == 0 {
		cfg.Schedule.EmbedInterval = 5
	}
	if cfg.Schedule.MaxWorkers == 0 {
		cfg.Schedule.MaxWorkers = 5
	}
	if cfg.Schedule.BatchSize == 0 {
		cfg.Schedule.BatchSize = 32
	}

	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}

	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.LLM.MaxTokens == 0 {
		cfg.LLM.MaxTokens = 1000
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 30 * time.Second
	}
	if cfg.LLM.BatchSize == 0 {
		cfg.LLM.BatchSize = 5
	}

	if cfg.Curation.MinDistance == 0 {
		cfg.Curation.MinDistance = 0.3
	}
	if cfg.Curation.MaxDistance == 0 {
		cfg.Curation.MaxDistance = 0.8
	}
	if cfg.Curation.DailyLimit == 0 {
		cfg.Curation.DailyLimit = 20
	}
	if cfg.Curation.ContextSize == 0 {
		cfg.Curation.ContextSize = 5
	}

	if cfg.Extraction.Timeout == 0 {
		cfg.Extraction.Timeout = 30 * time.Second
	}
	if cfg.Extraction.UserAgent == "" {
		cfg.Extraction.UserAgent = "BloomScroll/1.0"
	}
	if cfg.Extraction.MinTextLength == 0 {
		cfg.Extraction.MinTextLength = 100
	}
}

// validate checks configuration for correctness
func validate(cfg *Config) error {
	// validate embedding config
	if cfg.Embedding.Model == "" {
		return fmt.Errorf("embedding.model is required")
	}
	if cfg.Embedding.Dimensions < 1 {
		return fmt.Errorf("embedding.dimensions must be positive")
	}

	// validate LLM config when enabled
	if cfg.LLM.Enabled {
		if cfg.LLM.Endpoint == "" {
			return fmt.Errorf("llm.endpoint is required when llm is enabled")
		}
		if cfg.LLM.Model == "" {
			return fmt.Errorf("llm.model is required when llm is enabled")
		}
		if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
			return fmt.Errorf("llm.temperature must be between 0 and 2")
		}
		if cfg.LLM.BatchSize < 1 {
			return fmt.Errorf("llm.batch_size must be at least 1")
		}
	}

	// validate curation config
	if cfg.Curation.MinDistance < 0 || cfg.Curation.MaxDistance > 2 {
		return fmt.Errorf("curation distance band must stay within [0, 2]")
	}
	if cfg.Curation.MinDistance >= cfg.Curation.MaxDistance {
		return fmt.Errorf("curation.min_distance must be below curation.max_distance")
	}
	if cfg.Curation.DailyLimit < 1 {
		return fmt.Errorf("curation.daily_limit must be at least 1")
	}

	// validate extraction config
	if cfg.Extraction.Enabled {
		if cfg.Extraction.Timeout < time.Second {
			return fmt.Errorf("extraction timeout must be at least 1 second")
		}
		if cfg.Extraction.MinTextLength < 0 {
			return fmt.Errorf("extraction min_text_length must be non-negative")
		}
	}

	// validate server config
	if cfg.Server.Timeout < time.Second {
		return fmt.Errorf("server timeout must be at least 1 second")
	}

	return nil
}

// GetServerConfig returns server configuration
func (c *Config) GetServerConfig() (listen string, timeout time.Duration) {
	return c.Server.Listen, c.Server.Timeout
}

// GetEmbeddingConfig returns embedding provider configuration
func (c *Config) GetEmbeddingConfig() EmbeddingConfig {
	return c.Embedding
}

// GetLLMConfig returns LLM configuration
func (c *Config) GetLLMConfig() LLMConfig {
	return c.LLM
}

// GetCurationConfig returns feed curation configuration
func (c *Config) GetCurationConfig() CurationConfig {
	return c.Curation
}

// GetFullConfig returns the full configuration
func (c *Config) GetFullConfig() *Config {
	return c
}
