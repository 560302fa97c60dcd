package model

import "time"

// Config is the complete runtime configuration.
type Config struct {
	Store        StoreConfig       `yaml:"store"`
	Retrieval    RetrievalConfig   `yaml:"retrieval"`
	Verify       VerifyConfig      `yaml:"verify"`
	Embedding    EmbeddingConfig   `yaml:"embedding"`
	LLM          LLMConfig         `yaml:"llm"`
	Cache        CacheConfig       `yaml:"cache"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	RateLimiting RateLimitConfig   `yaml:"rate_limiting"`
	HTTP         HTTPConfig        `yaml:"http"`
	Output       OutputConfig      `yaml:"output"`
}

// StoreConfig configures the evidence store.
type StoreConfig struct {
	Path            string  `yaml:"path"`             // SQLite path; empty means in-memory only
	MaxChunkTokens  int     `yaml:"max_chunk_tokens"` // Upper bound per chunk, sentence-bounded
	SimilarityFloor float64 `yaml:"similarity_floor"` // Below this a match is "no evidence"
}

// RetrievalConfig bounds the retriever.
type RetrievalConfig struct {
	TopK      int `yaml:"top_k"`
	PoolLimit int `yaml:"pool_limit"` // Candidate pool size before topic narrowing applies
}

// VerifyConfig controls per-claim verification.
type VerifyConfig struct {
	Timeout      time.Duration `yaml:"timeout"`       // Per-claim lookup timeout
	RetryTimeout time.Duration `yaml:"retry_timeout"` // Single retry after a timeout, shorter
	Workers      int           `yaml:"workers"`       // Concurrent per-claim lookups
}

// EmbeddingConfig selects the embedding function.
type EmbeddingConfig struct {
	Provider          string  `yaml:"provider"` // "openai" or "local"
	Model             string  `yaml:"model"`
	Dimensions        int     `yaml:"dimensions"` // Local embedder vector length
	APIKey            string  `yaml:"-"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second"` // Embedding API throttle
}

// LLMConfig configures the generation and translation collaborators.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // openai, anthropic, ollama
	Model     string `yaml:"model"`
	APIKey    string `yaml:"-"` // From environment, never persisted
	BaseURL   string `yaml:"base_url,omitempty"`
	Timeout   int    `yaml:"timeout"` // Seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// CacheConfig configures the layered embedding/fetch cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig bounds batch ingestion.
type ConcurrencyConfig struct {
	IngestWorkers int `yaml:"ingest_workers"`
}

// RateLimitConfig throttles outbound fetches and embedding calls per host.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size"`
}

// HTTPConfig configures the ingestion fetcher.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	InsecureTLS  bool          `yaml:"insecure_tls"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// OutputConfig controls CLI output.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Path:            "", // Set by CLI to ~/.moneta/evidence.db
			MaxChunkTokens:  120,
			SimilarityFloor: 0.2,
		},
		Retrieval: RetrievalConfig{
			TopK:      5,
			PoolLimit: 20,
		},
		Verify: VerifyConfig{
			Timeout:      5 * time.Second,
			RetryTimeout: 2 * time.Second,
			Workers:      8,
		},
		Embedding: EmbeddingConfig{
			Provider:          "local",
			Model:             "text-embedding-3-small",
			Dimensions:        1024,
			RequestsPerSecond: 10,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 800,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "", // Set by CLI to ~/.moneta/cache
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			IngestWorkers: 4,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Moneta/0.1 (+https://github.com/ppiankov/moneta)",
			MaxBodyBytes: 2_000_000,
		},
		Output: OutputConfig{},
	}
}
