package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/joho/godotenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"campusfaq/internal/corpus"
	"campusfaq/internal/engine"
)

var (
	askQuestion string
	askIncludes []string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Ask a question from the command line",
	Long: `Answer a single question without starting the server. By default the
built-in campus handbook is used as the corpus; --include globs index local
files instead.

Examples:
  campusfaq ask -q "How long can books be issued?"
  campusfaq ask -q "refund policy" --include "docs/**/*.txt" --include "*.md"`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().StringArrayVar(&askIncludes, "include", nil, "glob patterns of files to index (default: built-in handbook)")
	askCmd.MarkFlagRequired("question")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg := GetConfig()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	compressor, closeCompressor, err := buildCompressor(cfg)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	if closeCompressor != nil {
		defer closeCompressor()
	}

	eng := engine.New(engine.NewRegistry(), embedder, compressor, engineConfig(cfg))

	const sessionID = "cli"
	if err := indexCorpus(eng, sessionID); err != nil {
		return err
	}

	result, err := eng.Query(sessionID, askQuestion)
	if err != nil {
		return fmt.Errorf("failed to answer question: %w", err)
	}

	fmt.Println(result.Answer)
	fmt.Printf("\nConfidence: %.2f (%s)\n", result.Confidence, result.Band)
	if len(result.Sources) > 0 {
		fmt.Printf("Sources:    %s\n", strings.Join(result.Sources, ", "))
	}
	fmt.Printf("Answered in %.0fms using %d chunks\n", result.ResponseTimeMs, result.ChunksUsed)
	return nil
}

// indexCorpus ingests either the files matched by --include globs or, when
// none are given, the built-in handbook.
func indexCorpus(eng *engine.Engine, sessionID string) error {
	if len(askIncludes) == 0 {
		return indexDefault(eng, sessionID)
	}

	files, err := matchIncludes(GetRootDir(), askIncludes)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files matched the given --include patterns")
	}

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		source := filepath.Base(path)
		if _, err := eng.Ingest(sessionID, string(data), source); err != nil {
			return fmt.Errorf("failed to index %s: %w", path, err)
		}
		bar.Set(i + 1)
	}

	return nil
}

func indexDefault(eng *engine.Engine, sessionID string) error {
	if _, err := eng.Ingest(sessionID, corpus.DefaultText, corpus.DefaultSource); err != nil {
		return fmt.Errorf("failed to index built-in handbook: %w", err)
	}
	return nil
}

// matchIncludes resolves doublestar globs relative to root, deduplicating
// paths matched by more than one pattern.
func matchIncludes(root string, patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string

	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(root, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || info.IsDir() {
				continue
			}
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}

	return files, nil
}
