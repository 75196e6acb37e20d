package domain

import "errors"

// Sentinel errors the boundary layer can identify with errors.Is and map to
// distinct responses.
var (
	// ErrInvalidChunkConfig means overlap >= size, which would make the
	// chunker's stride non-positive. Fatal to that ingest call only.
	ErrInvalidChunkConfig = errors.New("invalid chunk config: overlap must be smaller than size")

	// ErrSessionNotFound means the given session id has no corpus.
	ErrSessionNotFound = errors.New("session not found")

	// ErrEmptyQuestion means the question was empty after trimming.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrEmbeddingUnavailable means the embedding backend failed. Recoverable
	// per call by retrying; fatal at startup if the default corpus cannot be
	// embedded.
	ErrEmbeddingUnavailable = errors.New("embedding unavailable")

	// ErrInvalidTopK means search was asked for a non-positive k.
	ErrInvalidTopK = errors.New("top-k must be positive")
)
