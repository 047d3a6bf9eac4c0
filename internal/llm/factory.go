package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "":
		// No provider configured - LLM disabled
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", config.Provider)
	}
}

// ConfigFromModel converts the application config to llm.Config
func ConfigFromModel(llmConfig model.LLMConfig, httpConfig model.HTTPConfig) Config {
	return Config{
		Provider:      llmConfig.Provider,
		Model:         llmConfig.Model,
		APIKey:        llmConfig.APIKey,
		BaseURL:       llmConfig.BaseURL,
		Timeout:       llmConfig.Timeout,
		StrictNumbers: true,
		MaxTokens:     llmConfig.MaxTokens,
		HTTPProxy:     httpConfig.HTTPProxy,
		HTTPSProxy:    httpConfig.HTTPSProxy,
		NoProxy:       httpConfig.NoProxy,
	}
}
