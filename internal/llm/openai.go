package llm

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/util"
)

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.HTTPProxy != "" || config.HTTPSProxy != "" {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.Proxy = util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy)
		clientConfig.HTTPClient = &http.Client{Transport: transport}
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	return err == nil
}

// Explain generates a narrative using OpenAI's Chat Completions API
func (p *OpenAIProvider) Explain(ctx context.Context, req ExplainRequest) (*ExplainResponse, error) {
	prompt := req.Prompt
	if prompt == "" {
		prompt = BuildPrompt(req.Result, req.Excerpt)
	}

	modelName := req.Model
	if modelName == "" {
		modelName = p.config.Model
	}
	if modelName == "" {
		modelName = openai.GPT4oMini
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 400
	}

	timeout := time.Duration(p.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You explain heuristic AI-text detection scores in plain language. You never change or recompute scores.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, chatReq)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)

	if p.config.StrictNumbers {
		if bad, ok := unknownPercentage(text, req.Result.Scores); ok {
			return nil, fmt.Errorf("narrative quotes a percentage not in the report: %s", bad)
		}
	}

	return &ExplainResponse{
		Text:       text,
		Model:      modelName,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

var percentPattern = regexp.MustCompile(`\d+(?:\.\d+)?\s?%`)

// percentTolerance allows rounding, e.g. "45%" for 45.00%
const percentTolerance = 0.5

// unknownPercentage returns the first percentage in text that does not
// match any reported score
func unknownPercentage(text string, scores model.ScoreReport) (string, bool) {
	allowed := []float64{scores.Overall * 100}
	for _, cs := range scores.Categories {
		allowed = append(allowed, cs.Score*100)
	}

	for _, match := range percentPattern.FindAllString(text, -1) {
		value, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(match, "%")), 64)
		if err != nil {
			continue
		}
		known := false
		for _, a := range allowed {
			if math.Abs(a-value) <= percentTolerance {
				known = true
				break
			}
		}
		if !known {
			return match, true
		}
	}
	return "", false
}
