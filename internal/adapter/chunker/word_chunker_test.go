package chunker

import (
	"errors"
	"strings"
	"testing"

	"campusfaq/internal/domain"
)

func TestWordChunkerBasic(t *testing.T) {
	c := NewWordChunker(4, 1)

	chunks, err := c.Chunk("one two three four five six seven eight nine", "doc")
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "one two three four" {
		t.Errorf("unexpected first chunk: %q", chunks[0].Text)
	}
	if chunks[1].Text != "four five six seven" {
		t.Errorf("expected chunks to overlap by one word, got %q", chunks[1].Text)
	}
	if chunks[2].Text != "seven eight nine" {
		t.Errorf("expected short final chunk, got %q", chunks[2].Text)
	}
	for i, ch := range chunks {
		if ch.Index != i {
			t.Errorf("chunk %d has index %d", i, ch.Index)
		}
		if ch.Source != "doc" {
			t.Errorf("chunk %d has source %q", i, ch.Source)
		}
	}
}

func TestWordChunkerEmptyInput(t *testing.T) {
	c := NewWordChunker(80, 20)

	for _, text := range []string{"", "   ", "\n\t  \n"} {
		chunks, err := c.Chunk(text, "doc")
		if err != nil {
			t.Fatalf("Chunk(%q) returned error: %v", text, err)
		}
		if len(chunks) != 0 {
			t.Errorf("Chunk(%q) = %d chunks, expected none", text, len(chunks))
		}
	}
}

func TestWordChunkerInvalidConfig(t *testing.T) {
	for _, tc := range []struct{ size, overlap int }{
		{10, 10},
		{10, 15},
		{1, 1},
		{0, 0},
	} {
		c := NewWordChunker(tc.size, tc.overlap)
		_, err := c.Chunk("some words here", "doc")
		if !errors.Is(err, domain.ErrInvalidChunkConfig) {
			t.Errorf("size=%d overlap=%d: expected ErrInvalidChunkConfig, got %v", tc.size, tc.overlap, err)
		}
	}
}

func TestWordChunkerCountAndCoverage(t *testing.T) {
	tests := []struct {
		words   int
		size    int
		overlap int
	}{
		{1, 80, 20},
		{79, 80, 20},
		{80, 80, 20},
		{81, 80, 20},
		{500, 80, 20},
		{1000, 80, 20},
		{7, 4, 1},
		{100, 10, 9},
	}

	for _, tc := range tests {
		words := make([]string, tc.words)
		for i := range words {
			words[i] = "w" + strings.Repeat("x", i%5)
		}
		text := strings.Join(words, " ")

		c := NewWordChunker(tc.size, tc.overlap)
		chunks, err := c.Chunk(text, "doc")
		if err != nil {
			t.Fatal(err)
		}

		stride := tc.size - tc.overlap
		want := (max(tc.words-tc.overlap, 1) + stride - 1) / stride
		got := len(chunks)
		if got < want-1 || got > want+1 {
			t.Errorf("words=%d size=%d overlap=%d: got %d chunks, expected %d±1",
				tc.words, tc.size, tc.overlap, got, want)
		}

		covered := 0
		for _, ch := range chunks {
			n := len(strings.Fields(ch.Text))
			if n > tc.size {
				t.Errorf("chunk longer than size: %d > %d", n, tc.size)
			}
			covered += n
		}
		if covered < tc.words {
			t.Errorf("chunks cover %d words, corpus has %d", covered, tc.words)
		}
	}
}

func TestWordChunkerDeterministic(t *testing.T) {
	c := NewWordChunker(5, 2)
	text := "alpha beta gamma delta epsilon zeta eta theta iota kappa"

	first, err := c.Chunk(text, "doc")
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.Chunk(text, "doc")
	if err != nil {
		t.Fatal(err)
	}

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}
