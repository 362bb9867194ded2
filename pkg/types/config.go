// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared settings for outbound requests to arXiv.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-intel/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	// Addr is the listen address (e.g. ":8000").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// AllowedOrigins lists the CORS origins allowed to call the API.
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" mapstructure:"allowed_origins"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// OracleBackend selects the completion API behind the judgment oracle.
type OracleBackend string

const (
	OracleOpenAI OracleBackend = "openai"
	OracleClaude OracleBackend = "claude"
)

// OracleConfig holds settings for the semantic-judgment oracle.
type OracleConfig struct {
	// Backend selects openai or claude.
	Backend OracleBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the chat model identifier (e.g. "gpt-4o").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the selected backend.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the backend endpoint (OpenAI-compatible servers).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is the sampling temperature (0 for reproducibility).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps completion length where the backend requires it.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// RequestsPerSecond throttles outbound oracle calls. Zero disables it.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
}

// EmbeddingConfig holds settings for the embedding gateway.
type EmbeddingConfig struct {
	Model   string `json:"model" yaml:"model" mapstructure:"model"`
	APIKey  string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`
}

// RetrievalConfig holds the retrieval funnel parameters.
type RetrievalConfig struct {
	// MaxWords is the chunk word threshold (default 250).
	MaxWords int `json:"max_words" yaml:"max_words" mapstructure:"max_words"`

	// PrefilterK is the vector prefilter size (default 20).
	PrefilterK int `json:"prefilter_k" yaml:"prefilter_k" mapstructure:"prefilter_k"`

	// SelectK is the number of chunks the judgment stage keeps (default 5).
	SelectK int `json:"select_k" yaml:"select_k" mapstructure:"select_k"`

	// DisplayScale multiplies cosine scores shown to callers (default 10).
	DisplayScale float64 `json:"display_scale" yaml:"display_scale" mapstructure:"display_scale"`

	// ChatTopK is the number of chunks retrieved for chat (default 15).
	ChatTopK int `json:"chat_top_k" yaml:"chat_top_k" mapstructure:"chat_top_k"`

	// ExtractMaxChars truncates paper text sent to extraction (default 30000).
	ExtractMaxChars int `json:"extract_max_chars" yaml:"extract_max_chars" mapstructure:"extract_max_chars"`
}

// SearchConfig holds settings for the related-paper search.
type SearchConfig struct {
	// MaxResults is the number of papers requested from the index (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// CacheBackend selects the chunk cache implementation.
type CacheBackend string

const (
	CacheLRU    CacheBackend = "lru"
	CacheSQLite CacheBackend = "sqlite"
)

// CacheConfig holds settings for the chunk cache.
type CacheConfig struct {
	Backend CacheBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Size is the maximum number of papers kept.
	Size int `json:"size" yaml:"size" mapstructure:"size"`

	// TTL is how long a paper's chunks stay valid.
	TTL time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`

	// SQLiteDSN is the go-sqlite3 data source for the sqlite backend.
	SQLiteDSN string `json:"sqlite_dsn" yaml:"sqlite_dsn" mapstructure:"sqlite_dsn"`
}

// ConvertConfig holds settings for PDF-to-text conversion.
type ConvertConfig struct {
	// Image is the container image that turns PDF bytes into text.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all settings for paper-intel.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Oracle    OracleConfig    `json:"oracle" yaml:"oracle" mapstructure:"oracle"`
	Embedding EmbeddingConfig `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Retrieval RetrievalConfig `json:"retrieval" yaml:"retrieval" mapstructure:"retrieval"`
	Search    SearchConfig    `json:"search" yaml:"search" mapstructure:"search"`
	Cache     CacheConfig     `json:"cache" yaml:"cache" mapstructure:"cache"`
	Convert   ConvertConfig   `json:"convert" yaml:"convert" mapstructure:"convert"`
	Log       LogConfig       `json:"log" yaml:"log" mapstructure:"log"`
}

// DefaultConfig returns the settings the service runs with when nothing
// is configured.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8000",
			AllowedOrigins:  []string{"http://localhost:5173"},
			ShutdownTimeout: 10 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:   90 * time.Second,
			UserAgent: "paper-intel/0.1",
		},
		Oracle: OracleConfig{
			Backend:   OracleOpenAI,
			Model:     "gpt-4o",
			MaxTokens: 4096,
		},
		Embedding: EmbeddingConfig{
			Model: "text-embedding-3-small",
		},
		Retrieval: RetrievalConfig{
			MaxWords:        250,
			PrefilterK:      20,
			SelectK:         5,
			DisplayScale:    10,
			ChatTopK:        15,
			ExtractMaxChars: 30000,
		},
		Search: SearchConfig{
			MaxResults: 5,
		},
		Cache: CacheConfig{
			Backend:   CacheLRU,
			Size:      128,
			TTL:       time.Hour,
			SQLiteDSN: "file:paper-intel-chunks?mode=memory&cache=shared",
		},
		Convert: ConvertConfig{
			Image: "markitdown:latest",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	switch c.Oracle.Backend {
	case OracleOpenAI, OracleClaude:
	default:
		return fmt.Errorf("oracle.backend %q: use openai or claude", c.Oracle.Backend)
	}
	switch c.Cache.Backend {
	case CacheLRU, CacheSQLite:
	default:
		return fmt.Errorf("cache.backend %q: use lru or sqlite", c.Cache.Backend)
	}
	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be positive, got %d", c.Cache.Size)
	}
	r := c.Retrieval
	if r.MaxWords <= 0 {
		return fmt.Errorf("retrieval.max_words must be positive, got %d", r.MaxWords)
	}
	if r.SelectK <= 0 || r.PrefilterK < r.SelectK {
		return fmt.Errorf("retrieval.prefilter_k (%d) must be >= retrieval.select_k (%d) > 0", r.PrefilterK, r.SelectK)
	}
	if r.ChatTopK <= 0 {
		return fmt.Errorf("retrieval.chat_top_k must be positive, got %d", r.ChatTopK)
	}
	if r.DisplayScale <= 0 {
		return fmt.Errorf("retrieval.display_scale must be positive, got %v", r.DisplayScale)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	return nil
}
