package model

import "time"

// StatisticalMode selects which statistical feature variant is computed
type StatisticalMode string

const (
	// StatisticalRich computes entropy, word_distributions and sentence_patterns
	StatisticalRich StatisticalMode = "rich"
	// StatisticalCompat computes avg_sentence_length, punctuation_ratio and stopword_ratio
	StatisticalCompat StatisticalMode = "compat"
)

// WeightsPresetLegacy selects the fixed 0.4/0.3/0.3 split of older releases
const WeightsPresetLegacy = "legacy"

// Weights maps each category to a non-negative weight.
// Weights are applied as given and need not sum to 1.
type Weights map[Category]float64

// DefaultWeights returns the service default category weights
func DefaultWeights() Weights {
	return Weights{
		CategorySemantic:    0.3,
		CategoryStatistical: 0.3,
		CategoryStylometric: 0.4,
	}
}

// LegacyWeights returns the fixed split used by the first detector release
func LegacyWeights() Weights {
	return Weights{
		CategorySemantic:    0.4,
		CategoryStatistical: 0.3,
		CategoryStylometric: 0.3,
	}
}

// Config holds the complete aiprobe configuration
type Config struct {
	AppName   string          `yaml:"app_name" mapstructure:"app_name"`
	Debug     bool            `yaml:"debug" mapstructure:"debug"`
	LogLevel  string          `yaml:"log_level" mapstructure:"log_level"`
	Limits    LimitsConfig    `yaml:"limits" mapstructure:"limits"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Parser    ParserConfig    `yaml:"parser" mapstructure:"parser"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	HTTP      HTTPConfig      `yaml:"http" mapstructure:"http"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
}

// LimitsConfig bounds the cleaned input length in characters
type LimitsConfig struct {
	MinTextLength int `yaml:"min_text_length" mapstructure:"min_text_length"`
	MaxTextLength int `yaml:"max_text_length" mapstructure:"max_text_length"`
}

// ScoringConfig controls feature selection and aggregation
type ScoringConfig struct {
	Weights         Weights         `yaml:"weights" mapstructure:"weights"`
	WeightsPreset   string          `yaml:"weights_preset" mapstructure:"weights_preset"`
	StatisticalMode StatisticalMode `yaml:"statistical_mode" mapstructure:"statistical_mode"`
	FoldUnicode     bool            `yaml:"fold_unicode" mapstructure:"fold_unicode"` // NFKC after validation
}

// EffectiveWeights resolves the preset, falling back to the configured map
func (s ScoringConfig) EffectiveWeights() Weights {
	if s.WeightsPreset == WeightsPresetLegacy {
		return LegacyWeights()
	}
	return s.Weights
}

// ParserConfig selects the parse provider
type ParserConfig struct {
	Provider string        `yaml:"provider" mapstructure:"provider"` // prose, remote
	URL      string        `yaml:"url" mapstructure:"url"`           // Base URL of the remote parse service
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Addr    string `yaml:"addr" mapstructure:"addr"`
	MaxBody string `yaml:"max_body" mapstructure:"max_body"` // echo BodyLimit syntax, e.g. "1M"
}

// RateLimitConfig contains per-client request limits
type RateLimitConfig struct {
	Enabled    bool   `yaml:"enabled" mapstructure:"enabled"`
	PerMinute  int    `yaml:"per_minute" mapstructure:"per_minute"`
	MaxClients int    `yaml:"max_clients" mapstructure:"max_clients"`
	Backend    string `yaml:"backend" mapstructure:"backend"` // memory, redis
	RedisAddr  string `yaml:"redis_addr" mapstructure:"redis_addr"`
	RedisPass  string `yaml:"redis_password" mapstructure:"redis_password"`
	RedisDB    int    `yaml:"redis_db" mapstructure:"redis_db"`
}

// CacheConfig contains result cache settings
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL             time.Duration `yaml:"ttl" mapstructure:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" mapstructure:"cleanup_interval"`
}

// HTTPConfig contains outbound HTTP settings used when fetching URLs
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy" mapstructure:"no_proxy"`
}

// LLMConfig contains optional narrative generation settings
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "" disables, openai
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"api_key,omitempty" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		AppName:  "AI Content Detector",
		Debug:    false,
		LogLevel: "info",
		Limits: LimitsConfig{
			MinTextLength: 50,
			MaxTextLength: 50000,
		},
		Scoring: ScoringConfig{
			Weights:         DefaultWeights(),
			StatisticalMode: StatisticalRich,
		},
		Parser: ParserConfig{
			Provider: "prose",
			Timeout:  10 * time.Second,
		},
		Server: ServerConfig{
			Addr:    ":8000",
			MaxBody: "1M",
		},
		RateLimit: RateLimitConfig{
			Enabled:    true,
			PerMinute:  60,
			MaxClients: 10000,
			Backend:    "memory",
			RedisAddr:  "localhost:6379",
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             time.Hour,
			CleanupInterval: 10 * time.Minute,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "aiprobe/0.1 (+https://github.com/ppiankov/aiprobe)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "gpt-4o-mini",
			Timeout:   30,
			MaxTokens: 400,
		},
	}
}
