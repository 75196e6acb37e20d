package port

// CompressResult carries compressed text plus how it was produced. Ratio is
// the fraction of characters removed, in [0,1). Fallback is true when the
// external service could not be used and a local path produced the text.
type CompressResult struct {
	Text     string
	Ratio    float64
	Fallback bool
}

// Compressor shrinks text before chunking. Implementations must guarantee a
// non-empty result no longer than the input; transient upstream failures are
// absorbed internally, never surfaced to ingest.
type Compressor interface {
	Compress(text string) (CompressResult, error)
}
