package embedding

import (
	"hash/fnv"
	"math"
	"sync"
)

// DefaultDimension matches the sentence-embedding models this service is
// tuned for (all-minilm family).
const DefaultDimension = 384

// HashingEmbedder is a local, deterministic embedder. Each stemmed token is
// feature-hashed into a fixed-dimension signed vector, then L2-normalized so
// inner product equals cosine similarity. No network, no model download, and
// identical output for identical input, which makes it the default backend
// for tests and offline deployments.
type HashingEmbedder struct {
	dimension int

	initOnce sync.Once
	tok      *tokenizer
}

// NewHashingEmbedder creates a hashing embedder. A non-positive dimension
// falls back to DefaultDimension.
func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = DefaultDimension
	}
	return &HashingEmbedder{dimension: dimension}
}

// init builds the tokenizer tables once. Guarded so concurrent first calls
// do not race.
func (e *HashingEmbedder) init() {
	e.initOnce.Do(func() {
		e.tok = newTokenizer()
	})
}

// Embed returns one normalized vector per text, in input order. Texts with
// no usable tokens map to the zero vector.
func (e *HashingEmbedder) Embed(texts []string) ([][]float32, error) {
	e.init()

	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = e.embedOne(text)
	}
	return vectors, nil
}

// EmbedOne returns the normalized vector for a single text.
func (e *HashingEmbedder) EmbedOne(text string) ([]float32, error) {
	e.init()
	return e.embedOne(text), nil
}

func (e *HashingEmbedder) embedOne(text string) []float32 {
	vec := make([]float32, e.dimension)

	for _, token := range e.tok.Tokenize(text) {
		h := fnv.New64a()
		h.Write([]byte(token))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dimension))
		if sum&(1<<32) != 0 {
			vec[idx] -= 1
		} else {
			vec[idx] += 1
		}
	}

	Normalize(vec)
	return vec
}

func (e *HashingEmbedder) Dimension() int { return e.dimension }

func (e *HashingEmbedder) ModelName() string { return "feature-hashing" }

// Normalize scales vec to unit length in place. The zero vector is left
// untouched.
func Normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}
