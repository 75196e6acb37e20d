package port

// Embedder generates vector embeddings for text.
//
// Implementations must return L2-normalized vectors of a fixed dimension so
// that inner product equals cosine similarity. Degenerate input (no usable
// tokens) maps to the zero vector rather than an error. Output order matches
// input order exactly.
type Embedder interface {
	// Embed generates one embedding per input text, in input order.
	Embed(texts []string) ([][]float32, error)

	// EmbedOne generates the embedding for a single text.
	EmbedOne(text string) ([]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}
