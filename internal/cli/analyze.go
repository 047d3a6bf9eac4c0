package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/pipeline"
)

var (
	inFile     string
	inURL      string
	outJSON    string
	outMD      string
	minLength  int
	runTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze text, a file or a URL",
	Long: `Analyze estimates the probability that a text was machine-generated.

Input is taken from the argument, --file (txt, md, html, pdf), --url
(robots.txt aware, main content extracted) or standard input.

Example:
  aiprobe analyze "Paste the text to check here..."
  aiprobe analyze --file essay.pdf --json report.json --md report.md
  aiprobe analyze --url https://example.com/post --llm
  cat essay.txt | aiprobe analyze --statistical-mode compat`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&inFile, "file", "f", "", "read text from a file")
	analyzeCmd.Flags().StringVarP(&inURL, "url", "u", "", "fetch text from a URL")
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "write the JSON result to a path (- for stdout)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "write a Markdown report to a path")
	analyzeCmd.Flags().IntVar(&minLength, "min-length", 0, "minimum text length (default from limits.min_text_length)")
	analyzeCmd.Flags().DurationVar(&runTimeout, "timeout", 2*time.Minute, "overall analysis timeout")
	addAnalysisFlags(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadCommandConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), runTimeout)
	defer cancel()

	text, origin, err := readInput(ctx, p, args, cmd.InOrStdin())
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", origin)
		fmt.Fprintf(os.Stderr, "Parser: %s, statistical mode: %s\n\n", p.ParserName(), cfg.Scoring.StatisticalMode)
	}

	result, err := p.Analyze(ctx, text, minLength)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}
	if result.Meta != nil && origin != "argument" && origin != "stdin" {
		result.Meta.Source = origin
	}

	if verbose && result.Meta != nil {
		fmt.Fprintf(os.Stderr, "✓ %d characters, %d words, %d sentences\n\n",
			result.Meta.Characters, result.Meta.Words, result.Meta.Sentences)
	}

	return writeOutputs(cmd.OutOrStdout(), result)
}

// readInput picks the text source: --file, --url, the argument, or stdin
func readInput(ctx context.Context, p *pipeline.Pipeline, args []string, stdin io.Reader) (text, origin string, err error) {
	sources := 0
	for _, set := range []bool{inFile != "", inURL != "", len(args) > 0} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return "", "", fmt.Errorf("use only one of [text], --file and --url")
	}

	switch {
	case inFile != "":
		src, err := p.Load(ctx, inFile)
		if err != nil {
			return "", "", err
		}
		return src.Text, src.Origin, nil

	case inURL != "":
		if !pipeline.IsURL(inURL) {
			return "", "", fmt.Errorf("--url must be an http(s) URL: %s", inURL)
		}
		src, err := p.Load(ctx, inURL)
		if err != nil {
			return "", "", err
		}
		return src.Text, src.Origin, nil

	case len(args) == 1 && args[0] != "-":
		return args[0], "argument", nil

	default:
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), "stdin", nil
	}
}

// writeOutputs prints the summary and writes the requested reports
func writeOutputs(stdout io.Writer, result *model.AnalysisResult) error {
	renderer := pipeline.NewRenderer()

	if outJSON == "-" {
		return renderer.WriteJSON(stdout, result)
	}

	fmt.Fprintln(stdout, result.Summary)
	if result.Narrative != "" {
		fmt.Fprintf(stdout, "\nNarrative:\n%s\n", strings.TrimSpace(result.Narrative))
	}

	if outJSON != "" {
		if err := renderer.RenderJSON(result, outJSON); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
		}
	}
	if outMD != "" {
		if err := renderer.RenderMarkdown(result, outMD); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", outMD)
		}
	}
	return nil
}
