package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the FAQ service.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Engine      EngineConfig      `yaml:"engine"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Compression CompressionConfig `yaml:"compression"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// EngineConfig holds retrieval and answer-composition configuration.
type EngineConfig struct {
	ChunkSize    int     `yaml:"chunk_size"`    // window size in words
	ChunkOverlap int     `yaml:"chunk_overlap"` // overlap in words, must be < chunk_size
	TopK         int     `yaml:"top_k"`
	MinScore     float64 `yaml:"min_score"` // relevance threshold for answer composition
	BandHigh     float64 `yaml:"band_high"`
	BandMedium   float64 `yaml:"band_medium"`
}

// EmbeddingConfig selects and configures the embedding backend.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"` // "hashing", "ollama", "openai"
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	Dimension   int    `yaml:"dimension"`
	BatchSize   int    `yaml:"batch_size"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// CompressionConfig configures the external text-compression service.
type CompressionConfig struct {
	Enabled     bool    `yaml:"enabled"`
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxRetries  int     `yaml:"max_retries"`
	RateLimit   float64 `yaml:"rate_limit"`
	CachePath   string  `yaml:"cache_path"` // empty disables the response cache
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		Engine: EngineConfig{
			ChunkSize:    80,
			ChunkOverlap: 20,
			TopK:         3,
			MinScore:     0.15,
			BandHigh:     0.55,
			BandMedium:   0.35,
		},
		Embedding: EmbeddingConfig{
			Provider:  "hashing",
			Dimension: 384,
			BatchSize: 100,
		},
		Compression: CompressionConfig{
			Enabled:     true,
			APIKeyEnv:   "SCALEDOWN_API_KEY",
			TimeoutSecs: 30,
			MaxRetries:  3,
			RateLimit:   2.0,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults when
// the file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromDir loads configuration from a directory (looks for campusfaq.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "campusfaq.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
