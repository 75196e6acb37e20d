package engine

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campusfaq/internal/adapter/compress"
	"campusfaq/internal/adapter/embedding"
	"campusfaq/internal/domain"
	"campusfaq/internal/port"
)

func newTestEngine() *Engine {
	return New(NewRegistry(), embedding.NewHashingEmbedder(0), nil, DefaultEngineConfig())
}

func TestIngestAndQueryLibraryPolicy(t *testing.T) {
	e := newTestEngine()

	res, err := e.Ingest("s1",
		"The library is open from 8am to 8pm Monday to Friday. Books may be issued for 14 days.",
		"library_policy")
	require.NoError(t, err)
	assert.Equal(t, 1, res.ChunkCount)

	answer, err := e.Query("s1", "What is the library book issue period?")
	require.NoError(t, err)

	assert.Equal(t, []string{"library_policy"}, answer.Sources)
	assert.GreaterOrEqual(t, answer.ChunksUsed, 1)
	assert.Greater(t, answer.Confidence, 0.35)
	assert.Contains(t, answer.Answer, "14 days")
	assert.GreaterOrEqual(t, answer.ResponseTimeMs, 0.0)
}

func TestQueryUnknownSession(t *testing.T) {
	e := newTestEngine()

	_, err := e.Query("missing", "anything at all")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestQueryEmptyQuestion(t *testing.T) {
	e := newTestEngine()
	_, err := e.Ingest("s1", "Some corpus text to index for this session.", "doc")
	require.NoError(t, err)

	for _, q := range []string{"", "   ", "\n\t"} {
		_, err := e.Query("s1", q)
		assert.ErrorIs(t, err, domain.ErrEmptyQuestion, "question %q", q)
	}
}

func TestQueryEmptySession(t *testing.T) {
	e := newTestEngine()

	// Whitespace-only ingest creates the session but indexes nothing.
	res, err := e.Ingest("empty", "   ", "doc")
	require.NoError(t, err)
	assert.Equal(t, 0, res.ChunkCount)

	answer, err := e.Query("empty", "does anything exist here?")
	require.NoError(t, err)

	assert.Equal(t, 0.0, answer.Confidence)
	assert.Empty(t, answer.Sources)
	assert.Equal(t, 0, answer.ChunksUsed)
	assert.Contains(t, answer.Answer, "couldn't find relevant information")
	assert.Equal(t, "low", answer.Band)
}

func TestQueryNoMatchAboveThreshold(t *testing.T) {
	e := newTestEngine()

	_, err := e.Ingest("s1", "Hostel residents must return before the gates close at night.", "hostel_rules")
	require.NoError(t, err)

	answer, err := e.Query("s1", "quantum chromodynamics lattice renormalization")
	require.NoError(t, err)

	assert.Equal(t, 0, answer.ChunksUsed)
	assert.Empty(t, answer.Sources)
	assert.Contains(t, answer.Answer, "couldn't find relevant information")
}

func TestQueryDifferentialConfidence(t *testing.T) {
	e := newTestEngine()

	text := "Merit scholarships cover half of the tuition fee and are awarded on the previous year's grade point average."
	_, err := e.Ingest("s1", text, "scholarships")
	require.NoError(t, err)

	related, err := e.Query("s1", "How much tuition do merit scholarships cover?")
	require.NoError(t, err)
	unrelated, err := e.Query("s1", "zebra volcano trombone whisper")
	require.NoError(t, err)

	assert.Greater(t, related.Confidence, unrelated.Confidence)
}

func TestQueryIdempotent(t *testing.T) {
	e := newTestEngine()

	_, err := e.Ingest("s1",
		"Course registration opens two weeks before each semester and closes on the first day of classes.",
		"registration")
	require.NoError(t, err)

	first, err := e.Query("s1", "When does course registration open?")
	require.NoError(t, err)
	second, err := e.Query("s1", "When does course registration open?")
	require.NoError(t, err)

	assert.Equal(t, first.Answer, second.Answer)
	assert.Equal(t, first.Confidence, second.Confidence)
	assert.Equal(t, first.Sources, second.Sources)
	assert.Equal(t, first.ChunksUsed, second.ChunksUsed)
}

func TestIngestAppendsToExistingSession(t *testing.T) {
	e := newTestEngine()

	first, err := e.Ingest("s1", "The cafeteria serves meals three times a day.", "cafeteria")
	require.NoError(t, err)
	second, err := e.Ingest("s1", "The sports complex is open to registered students.", "sports")
	require.NoError(t, err)

	sess, ok := e.Registry().Get("s1")
	require.True(t, ok)
	assert.Equal(t, first.ChunkCount+second.ChunkCount, sess.ChunkCount())

	// Sources from both uploads are reachable.
	answer, err := e.Query("s1", "When is the sports complex open to students?")
	require.NoError(t, err)
	assert.Contains(t, answer.Sources, "sports")
}

func TestIngestInvalidChunkConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.ChunkSize = 10
	cfg.ChunkOverlap = 10
	e := New(NewRegistry(), embedding.NewHashingEmbedder(0), nil, cfg)

	_, err := e.Ingest("s1", "some text", "doc")
	assert.ErrorIs(t, err, domain.ErrInvalidChunkConfig)
}

type failingCompressor struct{}

func (failingCompressor) Compress(string) (port.CompressResult, error) {
	return port.CompressResult{}, errors.New("service exploded")
}

func TestIngestSurvivesCompressorFailure(t *testing.T) {
	e := New(NewRegistry(), embedding.NewHashingEmbedder(0), failingCompressor{}, DefaultEngineConfig())

	res, err := e.Ingest("s1", "Identity cards must be carried at all times on campus.", "id_policy")
	require.NoError(t, err, "ingest must not fail because compression failed")
	assert.Equal(t, 1, res.ChunkCount)
	assert.Equal(t, 0.0, res.CompressionRatio)

	answer, err := e.Query("s1", "Do students need to carry identity cards?")
	require.NoError(t, err)
	assert.Equal(t, []string{"id_policy"}, answer.Sources)
}

func TestIngestWithLocalCompressor(t *testing.T) {
	e := New(NewRegistry(), embedding.NewHashingEmbedder(0), compress.NewLocalCompressor(), DefaultEngineConfig())

	// Long enough that the fallback compressor actually drops sentences.
	var b strings.Builder
	for i := 0; i < 12; i++ {
		b.WriteString("The library policy allows students to borrow books for fourteen days each semester. ")
		b.WriteString("Unrelated filler sentence about the weather being quite pleasant today honestly. ")
	}

	res, err := e.Ingest("s1", b.String(), "handbook")
	require.NoError(t, err)
	assert.Greater(t, res.ChunkCount, 0)
	assert.LessOrEqual(t, res.CompressedLength, res.OriginalLength)
}

func TestConcurrentIngestSameSession(t *testing.T) {
	e := newTestEngine()

	// Two documents that each produce a known number of chunks.
	wordsA := strings.Repeat("alpha beta gamma delta epsilon ", 48)  // 240 words -> 4 chunks
	wordsB := strings.Repeat("zeta eta theta iota kappa ", 48)       // 240 words -> 4 chunks

	chunksPer := 4

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, err := e.Ingest("shared", wordsA, "doc_a")
		assert.NoError(t, err)
	}()
	go func() {
		defer wg.Done()
		_, err := e.Ingest("shared", wordsB, "doc_b")
		assert.NoError(t, err)
	}()
	wg.Wait()

	sess, ok := e.Registry().Get("shared")
	require.True(t, ok)
	assert.Equal(t, 2*chunksPer, sess.ChunkCount())

	// Index and chunk sequence stayed in lockstep: every search hit resolves.
	answer, err := e.Query("shared", "alpha beta gamma")
	require.NoError(t, err)
	assert.NotEmpty(t, answer.Answer)
}

func TestComposeAnswerTrimsOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", 300)
	retained := []domain.ScoredChunk{
		{Chunk: domain.Chunk{Text: "best match", Source: "a"}, Score: 0.9},
		{Chunk: domain.Chunk{Text: long, Source: "b"}, Score: 0.6},
	}

	answer := composeAnswer(retained)

	require.True(t, utf8.ValidString(answer))
	assert.Contains(t, answer, "- "+strings.Repeat("é", 250))
	assert.NotContains(t, answer, strings.Repeat("é", 251))
}

func TestTruncateRunes(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"日本語テキスト", 3, "日本語"},
		{"", 5, ""},
	}
	for _, tc := range cases {
		if got := truncateRunes(tc.in, tc.n); got != tc.want {
			t.Errorf("truncateRunes(%q, %d) = %q, want %q", tc.in, tc.n, got, tc.want)
		}
	}
}
