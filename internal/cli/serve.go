package cli

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"campusfaq/config"
	"campusfaq/internal/adapter/compress"
	"campusfaq/internal/adapter/embedding"
	"campusfaq/internal/corpus"
	"campusfaq/internal/engine"
	"campusfaq/internal/httpapi"
	"campusfaq/internal/port"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Start the FAQ HTTP API. On startup the built-in campus handbook is
indexed into the default session, so /ask works immediately.

Examples:
  campusfaq serve               # Listen on the configured address
  campusfaq serve --addr :9090  # Override the listen address`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg := GetConfig()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	compressor, closeCompressor, err := buildCompressor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if closeCompressor != nil {
		defer closeCompressor()
	}

	eng := engine.New(engine.NewRegistry(), embedder, compressor, engineConfig(cfg))

	log.Printf("Indexing default corpus (%d chars)...", len(corpus.DefaultText))
	result, err := eng.Ingest(corpus.DefaultSessionID, corpus.DefaultText, corpus.DefaultSource)
	if err != nil {
		return fmt.Errorf("failed to index default corpus: %w", err)
	}
	log.Printf("Default session ready: %d chunks (model %s)", result.ChunkCount, embedder.ModelName())

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	return httpapi.New(eng).Run(addr)
}

// engineConfig maps file configuration onto engine parameters.
func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		ChunkSize:    cfg.Engine.ChunkSize,
		ChunkOverlap: cfg.Engine.ChunkOverlap,
		TopK:         cfg.Engine.TopK,
		MinScore:     cfg.Engine.MinScore,
		Bands: engine.Bands{
			High:   cfg.Engine.BandHigh,
			Medium: cfg.Engine.BandMedium,
		},
	}
}

// buildEmbedder creates the configured embedding backend.
func buildEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "", "hashing":
		return embedding.NewHashingEmbedder(cfg.Embedding.Dimension), nil
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.BaseURL, cfg.Embedding.Model)
	case "openai":
		return embedding.NewHTTPEmbedder(embedding.HTTPEmbedderConfig{
			BaseURL:   cfg.Embedding.BaseURL,
			APIKeyEnv: cfg.Embedding.APIKeyEnv,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
			BatchSize: cfg.Embedding.BatchSize,
			Timeout:   time.Duration(cfg.Embedding.TimeoutSecs) * time.Second,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

// buildCompressor creates the compression client, wrapped in a persistent
// response cache when one is configured. The returned close func may be nil.
func buildCompressor(cfg *config.Config) (port.Compressor, func(), error) {
	if !cfg.Compression.Enabled {
		return nil, nil, nil
	}

	client := compress.NewScaleDownClient(compress.ScaleDownConfig{
		BaseURL:    cfg.Compression.BaseURL,
		APIKeyEnv:  cfg.Compression.APIKeyEnv,
		Timeout:    time.Duration(cfg.Compression.TimeoutSecs) * time.Second,
		MaxRetries: cfg.Compression.MaxRetries,
		RateLimit:  cfg.Compression.RateLimit,
	})

	if cfg.Compression.CachePath == "" {
		return client, nil, nil
	}

	cached, err := compress.NewCachedCompressor(cfg.Compression.CachePath, client)
	if err != nil {
		return nil, nil, err
	}
	return cached, func() { cached.Close() }, nil
}
