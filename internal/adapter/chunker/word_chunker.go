package chunker

import (
	"strings"

	"campusfaq/internal/domain"
)

// WordChunker splits text into overlapping windows of whitespace-separated
// words. Windows advance by size-overlap words, so the same word can appear
// in up to two adjacent chunks.
type WordChunker struct {
	size    int
	overlap int
}

// NewWordChunker creates a chunker with the given window size and overlap,
// both counted in words.
func NewWordChunker(size, overlap int) *WordChunker {
	return &WordChunker{size: size, overlap: overlap}
}

// Chunk splits text into windows tagged with source and their ordinal
// position. Empty or whitespace-only text yields no chunks. The final window
// may be shorter than the configured size.
func (c *WordChunker) Chunk(text, source string) ([]domain.Chunk, error) {
	if c.overlap >= c.size || c.size < 1 {
		return nil, domain.ErrInvalidChunkConfig
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	stride := c.size - c.overlap
	chunks := make([]domain.Chunk, 0, len(words)/stride+1)

	for start := 0; start < len(words); start += stride {
		end := start + c.size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.Chunk{
			Text:   strings.Join(words[start:end], " "),
			Index:  len(chunks),
			Source: source,
		})
		if end == len(words) {
			break
		}
	}

	return chunks, nil
}
