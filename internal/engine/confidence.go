package engine

// Bands maps a confidence score onto a presentation band. Boundaries are
// inclusive: a score exactly at a threshold gets the higher band.
type Bands struct {
	High   float64
	Medium float64
}

// DefaultBands returns the stock band thresholds.
func DefaultBands() Bands {
	return Bands{High: 0.55, Medium: 0.35}
}

// Band classifies a confidence value as "high", "medium" or "low".
func (b Bands) Band(confidence float64) string {
	switch {
	case confidence >= b.High:
		return "high"
	case confidence >= b.Medium:
		return "medium"
	default:
		return "low"
	}
}

// clamp01 confines cosine similarity to [0,1]; negative similarity reads as
// zero confidence.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
