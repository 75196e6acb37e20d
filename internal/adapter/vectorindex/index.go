package vectorindex

import (
	"fmt"
	"sort"

	"campusfaq/internal/domain"
)

// Index is an append-only, exact nearest-neighbor index over normalized
// vectors. Search is brute force: corpus sizes here are hundreds to low
// thousands of vectors, where exactness and determinism beat asymptotics.
//
// Index is not safe for concurrent mutation; the owning session serializes
// writers.
type Index struct {
	dimension int
	vectors   [][]float32
}

// Result is one search hit: the insertion position of the vector and its
// inner-product score.
type Result struct {
	Position int
	Score    float64
}

// New creates an empty index for vectors of the given dimension.
func New(dimension int) (*Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dimension)
	}
	return &Index{dimension: dimension}, nil
}

// Add appends vectors in order. It never reorders or removes.
func (ix *Index) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != ix.dimension {
			return fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), ix.dimension)
		}
	}
	ix.vectors = append(ix.vectors, vectors...)
	return nil
}

// Search returns up to k hits sorted by descending score. Equal scores break
// ties by lower insertion position, so results are deterministic. An empty
// index yields no hits; k <= 0 is an error.
func (ix *Index) Search(query []float32, k int) ([]Result, error) {
	if k <= 0 {
		return nil, domain.ErrInvalidTopK
	}
	if len(query) != ix.dimension {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), ix.dimension)
	}
	if len(ix.vectors) == 0 {
		return nil, nil
	}

	results := make([]Result, len(ix.vectors))
	for i, v := range ix.vectors {
		results[i] = Result{Position: i, Score: dot(query, v)}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k], nil
}

// Len returns the number of stored vectors.
func (ix *Index) Len() int { return len(ix.vectors) }

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
