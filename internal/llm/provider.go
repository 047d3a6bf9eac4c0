package llm

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/score"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Explain writes a plain-language explanation of computed scores
	Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// ExplainRequest contains the input for a narrative
type ExplainRequest struct {
	// Result holds the scores and features to explain. The narrative never
	// changes them.
	Result model.AnalysisResult

	// Excerpt is the beginning of the analyzed text, for context
	Excerpt string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// ExplainResponse contains the generated narrative
type ExplainResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai" or "" (disabled)
	Provider string

	// Model name (provider-specific)
	Model string

	APIKey string

	// BaseURL for OpenAI-compatible endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictNumbers rejects narratives quoting percentages that are not
	// in the report
	StrictNumbers bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "",
		Timeout:       30,
		StrictNumbers: true,
		MaxTokens:     400,
	}
}

// maxExcerptRunes bounds the text excerpt sent to the provider
const maxExcerptRunes = 600

// BuildPrompt constructs the default narrative prompt
func BuildPrompt(result model.AnalysisResult, excerpt string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are explaining the output of a heuristic AI-text detector. The detector
combines linguistic features into scores; it does NOT know whether the text was
machine-generated, it only estimates a probability.

RULES:
1. Only quote percentages that appear below. Do not compute new numbers.
2. Do not claim certainty. Describe which signals pushed the score up or down.
3. Keep it to 3-4 sentences of plain language.

Overall AI probability: %s (%s confidence)

Category scores:
`, score.Percent(result.Scores.Overall), score.ConfidenceLabel(result.Scores.Overall))

	for _, cs := range result.Scores.Categories {
		fmt.Fprintf(&b, "- %s: %s\n", cs.Category.Title(), score.Percent(cs.Score))
	}

	b.WriteString("\nFeatures:\n")
	for _, c := range result.Features.OrderedCategories() {
		fm := result.Features[c]
		names := make([]string, 0, len(fm))
		for name := range fm {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&b, "- %s.%s = %.4f\n", c, name, fm[name])
		}
	}

	if excerpt = truncateRunes(strings.TrimSpace(excerpt), maxExcerptRunes); excerpt != "" {
		fmt.Fprintf(&b, "\nText excerpt:\n%q\n", excerpt)
	}

	return b.String()
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
