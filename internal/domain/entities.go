package domain

import "time"

// Chunk is a contiguous window of a document's words, the unit of retrieval.
// Chunks are immutable once created.
type Chunk struct {
	Text   string
	Index  int
	Source string
}

// ScoredChunk pairs a chunk with its similarity to a query.
type ScoredChunk struct {
	Chunk Chunk
	Score float64
}

// IngestResult summarizes a single ingest call.
type IngestResult struct {
	SessionID        string  `json:"session_id"`
	ChunkCount       int     `json:"chunk_count"`
	OriginalLength   int     `json:"original_length"`
	CompressedLength int     `json:"compressed_length"`
	CompressionRatio float64 `json:"compression_ratio"`
	ProcessingTimeMs float64 `json:"processing_time_ms"`
}

// AnswerResult is the outcome of a query. A question that matches nothing
// still yields a well-formed result with low confidence and empty sources,
// not an error.
type AnswerResult struct {
	Answer         string   `json:"answer"`
	Confidence     float64  `json:"confidence"`
	Band           string   `json:"confidence_band"`
	Sources        []string `json:"sources"`
	ChunksUsed     int      `json:"chunks_used"`
	ResponseTimeMs float64  `json:"response_time_ms"`
}

// SessionInfo is the listing view of a session.
type SessionInfo struct {
	ID         string    `json:"session_id"`
	ChunkCount int       `json:"chunk_count"`
	WordCount  int       `json:"word_count"`
	CreatedAt  time.Time `json:"created_at"`
}
