package engine

import (
	"fmt"
	"strings"
	"time"

	"campusfaq/internal/adapter/chunker"
	"campusfaq/internal/domain"
	"campusfaq/internal/port"
)

const noAnswerText = "I couldn't find relevant information for your question. Please try rephrasing."

// additional context bullets are trimmed to this many characters.
const contextSnippetLen = 250

// Config holds the retrieval parameters of the engine.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	TopK         int
	MinScore     float64
	Bands        Bands
}

// DefaultEngineConfig returns the stock engine parameters.
func DefaultEngineConfig() Config {
	return Config{
		ChunkSize:    80,
		ChunkOverlap: 20,
		TopK:         3,
		MinScore:     0.15,
		Bands:        DefaultBands(),
	}
}

// Engine answers questions against per-session corpora: ingest chunks,
// embeds and indexes text; query retrieves the most similar chunks and
// composes an answer with a confidence score and cited sources.
type Engine struct {
	registry   *Registry
	chunker    *chunker.WordChunker
	embedder   port.Embedder
	compressor port.Compressor // nil disables pre-chunking compression
	cfg        Config
}

// New creates an engine. compressor may be nil.
func New(registry *Registry, embedder port.Embedder, compressor port.Compressor, cfg Config) *Engine {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &Engine{
		registry:   registry,
		chunker:    chunker.NewWordChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder:   embedder,
		compressor: compressor,
		cfg:        cfg,
	}
}

// Registry exposes the session registry for the boundary layer.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Ingest compresses, chunks, embeds and indexes text under the given session
// id, creating the session if it is new. A compression failure never fails
// the ingest: the raw text is indexed instead.
func (e *Engine) Ingest(sessionID, text, source string) (domain.IngestResult, error) {
	start := time.Now()

	compressed := text
	ratio := 0.0
	if e.compressor != nil {
		if res, err := e.compressor.Compress(text); err == nil && res.Text != "" {
			compressed = res.Text
			ratio = res.Ratio
		}
	}

	chunks, err := e.chunker.Chunk(compressed, source)
	if err != nil {
		return domain.IngestResult{}, err
	}

	sess, err := e.registry.getOrCreate(sessionID, e.embedder.Dimension())
	if err != nil {
		return domain.IngestResult{}, err
	}

	if len(chunks) > 0 {
		texts := make([]string, len(chunks))
		for i, ch := range chunks {
			texts[i] = ch.Text
		}

		vectors, err := e.embedder.Embed(texts)
		if err != nil {
			return domain.IngestResult{}, fmt.Errorf("failed to embed %d chunks: %w", len(chunks), err)
		}
		if err := sess.append(chunks, vectors); err != nil {
			return domain.IngestResult{}, fmt.Errorf("failed to index chunks: %w", err)
		}
	}

	return domain.IngestResult{
		SessionID:        sessionID,
		ChunkCount:       len(chunks),
		OriginalLength:   len(text),
		CompressedLength: len(compressed),
		CompressionRatio: ratio,
		ProcessingTimeMs: msSince(start),
	}, nil
}

// Query embeds the question, retrieves the top-k chunks from the session and
// composes an answer. A question that matches nothing above the relevance
// threshold yields a low-confidence answer, not an error.
func (e *Engine) Query(sessionID, question string) (domain.AnswerResult, error) {
	sess, ok := e.registry.Get(sessionID)
	if !ok {
		return domain.AnswerResult{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, sessionID)
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return domain.AnswerResult{}, domain.ErrEmptyQuestion
	}

	start := time.Now()

	qvec, err := e.embedder.EmbedOne(question)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("failed to embed question: %w", err)
	}

	scored, err := sess.search(qvec, e.cfg.TopK)
	if err != nil {
		return domain.AnswerResult{}, fmt.Errorf("search failed: %w", err)
	}

	confidence := 0.0
	if len(scored) > 0 {
		confidence = clamp01(scored[0].Score)
	}

	retained := make([]domain.ScoredChunk, 0, len(scored))
	for _, sc := range scored {
		if sc.Score >= e.cfg.MinScore {
			retained = append(retained, sc)
		}
	}

	result := domain.AnswerResult{
		Confidence: confidence,
		Band:       e.cfg.Bands.Band(confidence),
		Sources:    []string{},
		ChunksUsed: len(retained),
	}

	if len(retained) == 0 {
		result.Answer = noAnswerText
		result.ResponseTimeMs = msSince(start)
		return result, nil
	}

	result.Answer = composeAnswer(retained)
	result.Sources = collectSources(retained)
	result.ResponseTimeMs = msSince(start)
	return result, nil
}

// composeAnswer joins retained chunks in relevance order: the best match
// verbatim, the rest as trimmed context bullets.
func composeAnswer(retained []domain.ScoredChunk) string {
	var b strings.Builder
	b.WriteString("Based on the campus documentation, here is what I found:\n\n")
	b.WriteString(retained[0].Chunk.Text)

	if len(retained) > 1 {
		b.WriteString("\n\nAdditional context:\n")
		for _, sc := range retained[1:] {
			b.WriteString("- ")
			b.WriteString(truncateRunes(sc.Chunk.Text, contextSnippetLen))
			b.WriteString("\n")
		}
	}

	return strings.TrimSpace(b.String())
}

// collectSources deduplicates chunk sources, preserving retrieval rank order.
func collectSources(retained []domain.ScoredChunk) []string {
	seen := make(map[string]struct{}, len(retained))
	sources := make([]string, 0, len(retained))
	for _, sc := range retained {
		if _, ok := seen[sc.Chunk.Source]; ok {
			continue
		}
		seen[sc.Chunk.Source] = struct{}{}
		sources = append(sources, sc.Chunk.Source)
	}
	return sources
}

// truncateRunes cuts s to at most n runes, never splitting a multibyte rune.
func truncateRunes(s string, n int) string {
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
