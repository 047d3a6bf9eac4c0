package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/ppiankov/aiprobe/internal/pipeline"
	"github.com/ppiankov/aiprobe/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <list-file>",
	Short: "Analyze many files or URLs in parallel",
	Long: `Batch analyzes every source listed in a file concurrently:
- One file path or http(s) URL per line (blank lines and # comments skipped)
- Sources are analyzed in parallel with a configurable worker count
- A JSON and a Markdown report is written for each source

Example:
  aiprobe batch sources.txt
  aiprobe batch sources.txt --concurrency 8 --output-dir ./reports
  aiprobe batch sources.txt --timeout 5m --statistical-mode compat`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./aiprobe-reports", "output directory for reports")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	addAnalysisFlags(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  aiprobe Batch Analysis\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	renderer := pipeline.NewRenderer()
	successCount := 0
	failureCount := 0

	onResult := func(r *worker.AnalysisJobResult) {
		if r.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Source, r.Error)
			return
		}

		name := reportName(r.Index, r.Source)
		jsonPath := filepath.Join(outputDir, name+".json")
		mdPath := filepath.Join(outputDir, name+".md")

		if err := renderer.RenderJSON(r.Result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", r.Source, err)
			return
		}
		if err := renderer.RenderMarkdown(r.Result, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", r.Source, err)
			return
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (AI probability: %.2f%%)\n", r.Source, r.Result.Scores.Overall*100)
	}

	fmt.Fprintf(os.Stderr, "⚙️  Analyzing sources with %d workers...\n\n", concurrency)
	processor := worker.NewBatchProcessor(p, concurrency)
	results, err := processor.ProcessFile(ctx, file, onResult)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d sources\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// reportName builds a filesystem-safe report name from a source, prefixed
// with its position in the list so duplicates after sanitizing stay apart
func reportName(index int, source string) string {
	s := source
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	} else {
		s = strings.TrimSuffix(filepath.Base(s), filepath.Ext(s))
	}

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '.' || r == '_' {
			return r
		}
		return '-'
	}, s)
	s = strings.Trim(s, "-.")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}

	if runes := []rune(s); len(runes) > 80 {
		s = strings.TrimRight(string(runes[:80]), "-.")
	}
	if s == "" {
		s = "source"
	}

	return fmt.Sprintf("%03d-%s", index+1, s)
}
