package engine

import (
	"strings"
	"sync"
	"time"

	"campusfaq/internal/adapter/vectorindex"
	"campusfaq/internal/domain"
)

// Session owns one corpus: its chunks and the parallel vector index. The two
// sequences grow together under the session lock, so a reader never observes
// them at mismatched lengths. Sessions never share chunks or vectors.
type Session struct {
	id        string
	createdAt time.Time

	mu        sync.RWMutex
	index     *vectorindex.Index
	chunks    []domain.Chunk
	wordCount int
}

func newSession(id string, dimension int) (*Session, error) {
	index, err := vectorindex.New(dimension)
	if err != nil {
		return nil, err
	}
	return &Session{
		id:        id,
		createdAt: time.Now(),
		index:     index,
	}, nil
}

// append adds chunks and their vectors atomically. Concurrent appends are
// serialized; a racing search sees either the pre- or post-append state.
func (s *Session) append(chunks []domain.Chunk, vectors [][]float32) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.index.Add(vectors); err != nil {
		return err
	}
	s.chunks = append(s.chunks, chunks...)
	for _, ch := range chunks {
		s.wordCount += len(strings.Fields(ch.Text))
	}
	return nil
}

// search runs an exact top-k search and resolves hit positions to chunks
// under a single read lock.
func (s *Session) search(query []float32, k int) ([]domain.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits, err := s.index.Search(query, k)
	if err != nil {
		return nil, err
	}

	scored := make([]domain.ScoredChunk, len(hits))
	for i, hit := range hits {
		scored[i] = domain.ScoredChunk{Chunk: s.chunks[hit.Position], Score: hit.Score}
	}
	return scored, nil
}

// ChunkCount returns the number of indexed chunks.
func (s *Session) ChunkCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Info returns the listing view of the session.
func (s *Session) Info() domain.SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.SessionInfo{
		ID:         s.id,
		ChunkCount: s.index.Len(),
		WordCount:  s.wordCount,
		CreatedAt:  s.createdAt,
	}
}
