package compress

import (
	"fmt"
	"sort"
	"strings"

	"campusfaq/internal/port"
)

// LocalCompressor is the deterministic fallback used when the external
// compression service is unreachable or misconfigured. It keeps the
// highest-information sentences, preserving their original order.
type LocalCompressor struct {
	keywords map[string]struct{}
}

// NewLocalCompressor creates a local extractive compressor.
func NewLocalCompressor() *LocalCompressor {
	return &LocalCompressor{keywords: campusKeywords()}
}

// Compress scores sentences by unique-word ratio, length and campus keyword
// density, then keeps the top 40% (at least 3) in original order. Texts of
// five or fewer sentences pass through unchanged.
func (c *LocalCompressor) Compress(text string) (port.CompressResult, error) {
	if strings.TrimSpace(text) == "" {
		return port.CompressResult{}, fmt.Errorf("cannot compress empty text")
	}

	sentences := splitSentences(text)
	if len(sentences) <= 5 {
		return port.CompressResult{Text: text, Ratio: 0, Fallback: true}, nil
	}

	type scored struct {
		index    int
		score    float64
		sentence string
	}

	all := make([]scored, len(sentences))
	for i, sent := range sentences {
		all[i] = scored{index: i, score: c.scoreSentence(sent), sentence: sent}
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	keep := len(all) * 4 / 10
	if keep < 3 {
		keep = 3
	}
	kept := all[:keep]
	sort.Slice(kept, func(i, j int) bool { return kept[i].index < kept[j].index })

	parts := make([]string, len(kept))
	for i, s := range kept {
		parts[i] = s.sentence
	}
	compressed := strings.Join(parts, " ")

	return port.CompressResult{
		Text:     compressed,
		Ratio:    1 - float64(len(compressed))/float64(len(text)),
		Fallback: true,
	}, nil
}

func (c *LocalCompressor) scoreSentence(sent string) float64 {
	words := strings.Fields(sent)
	if len(words) == 0 {
		return 0
	}

	unique := make(map[string]struct{}, len(words))
	keywordHits := 0
	for _, w := range words {
		lw := strings.ToLower(strings.Trim(w, ".,;:!?\"'()"))
		unique[lw] = struct{}{}
		if _, ok := c.keywords[lw]; ok {
			keywordHits++
		}
	}

	uniqueRatio := float64(len(unique)) / float64(len(words))
	lengthScore := float64(len(words)) / 20
	if lengthScore > 1 {
		lengthScore = 1
	}
	keywordScore := float64(keywordHits) / 3
	if keywordScore > 1 {
		keywordScore = 1
	}

	return uniqueRatio*0.3 + lengthScore*0.3 + keywordScore*0.4
}

// splitSentences splits on terminal punctuation followed by whitespace and
// drops fragments of ten characters or fewer.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if len(s) > 10 {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	runes := []rune(strings.TrimSpace(text))
	for i, r := range runes {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 >= len(runes) || runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				flush()
			}
		}
	}
	flush()

	return sentences
}

func campusKeywords() map[string]struct{} {
	words := []string{
		"policy", "requirement", "deadline", "fee", "exam",
		"course", "credit", "grade", "admission", "scholarship",
		"registration", "attendance", "hostel", "library",
		"semester", "gpa", "certificate", "regulation",
		"eligibility", "apply", "procedure", "document",
		"campus", "department", "faculty", "student",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
