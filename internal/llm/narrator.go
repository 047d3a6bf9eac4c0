package llm

import (
	"context"
	"fmt"

	"github.com/ppiankov/aiprobe/internal/model"
)

// Narrative is the optional plain-language explanation attached to a result
type Narrative struct {
	Enabled    bool
	Provider   string
	Model      string
	Text       string
	TokensUsed int
	Warnings   []string
}

// Narrator wraps a provider. A nil provider means narratives are disabled.
// Provider failures become warnings so analysis never fails because of them.
type Narrator struct {
	provider Provider
	config   Config
}

// NewNarrator creates a narrator from config
func NewNarrator(config Config) (*Narrator, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Narrator{provider: provider, config: config}, nil
}

// NewNarratorWithProvider wraps an existing provider
func NewNarratorWithProvider(provider Provider, config Config) *Narrator {
	return &Narrator{provider: provider, config: config}
}

// IsEnabled reports whether a provider is configured
func (n *Narrator) IsEnabled() bool {
	return n != nil && n.provider != nil
}

// ProviderName returns the configured provider name, or "" when disabled
func (n *Narrator) ProviderName() string {
	if !n.IsEnabled() {
		return ""
	}
	return n.provider.Name()
}

// Narrate explains result. It returns nil when disabled.
func (n *Narrator) Narrate(ctx context.Context, result model.AnalysisResult, excerpt string) (*Narrative, error) {
	if !n.IsEnabled() {
		return nil, nil
	}

	narrative := &Narrative{Provider: n.provider.Name()}

	if !n.provider.IsAvailable(ctx) {
		narrative.Warnings = append(narrative.Warnings,
			fmt.Sprintf("LLM provider %s is not available; narrative skipped", n.provider.Name()))
		return narrative, nil
	}

	resp, err := n.provider.Explain(ctx, ExplainRequest{
		Result:    result,
		Excerpt:   excerpt,
		Model:     n.config.Model,
		MaxTokens: n.config.MaxTokens,
	})
	if err != nil {
		narrative.Warnings = append(narrative.Warnings, fmt.Sprintf("narrative failed: %v", err))
		return narrative, nil
	}

	narrative.Enabled = true
	narrative.Model = resp.Model
	narrative.Text = resp.Text
	narrative.TokensUsed = resp.TokensUsed
	return narrative, nil
}
