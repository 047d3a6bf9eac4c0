package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/ppiankov/aiprobe/internal/model"
)

func newTestViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	configureViper(v)
	return v
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	want := model.DefaultConfig()
	if cfg.Limits != want.Limits {
		t.Errorf("limits = %+v, want %+v", cfg.Limits, want.Limits)
	}
	if cfg.Scoring.StatisticalMode != model.StatisticalRich {
		t.Errorf("statistical mode = %q, want rich", cfg.Scoring.StatisticalMode)
	}
	for c, w := range model.DefaultWeights() {
		if cfg.Scoring.Weights[c] != w {
			t.Errorf("weight %s = %v, want %v", c, cfg.Scoring.Weights[c], w)
		}
	}
	if cfg.Cache.TTL != time.Hour {
		t.Errorf("cache ttl = %v, want 1h", cfg.Cache.TTL)
	}
	if !cfg.HTTP.RespectRobots {
		t.Error("expected respect_robots to default to true")
	}
}

func TestLoadConfig_FileWeightsReplaceDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `scoring:
  statistical_mode: compat
  weights:
    semantic: 0.2
    statistical: 0.2
    stylometric: 0.6
limits:
  min_text_length: 10
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Scoring.StatisticalMode != model.StatisticalCompat {
		t.Errorf("statistical mode = %q, want compat", cfg.Scoring.StatisticalMode)
	}
	if cfg.Limits.MinTextLength != 10 {
		t.Errorf("min length = %d, want 10", cfg.Limits.MinTextLength)
	}
	if cfg.Limits.MaxTextLength != 50000 {
		t.Errorf("max length = %d, want default 50000", cfg.Limits.MaxTextLength)
	}
	want := model.Weights{
		model.CategorySemantic:    0.2,
		model.CategoryStatistical: 0.2,
		model.CategoryStylometric: 0.6,
	}
	if len(cfg.Scoring.Weights) != len(want) {
		t.Fatalf("weights = %v, want %v", cfg.Scoring.Weights, want)
	}
	for c, w := range want {
		if cfg.Scoring.Weights[c] != w {
			t.Errorf("weight %s = %v, want %v", c, cfg.Scoring.Weights[c], w)
		}
	}
}

func TestLoadConfig_PartialFileWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "scoring:\n  weights:\n    semantic: 1.0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig: %v", err)
	}

	_, err := LoadConfig(v)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "scoring.weights" {
		t.Errorf("field = %q, want scoring.weights", cfgErr.Field)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AIPROBE_SCORING_WEIGHTS_SEMANTIC", "0.5")
	t.Setenv("AIPROBE_SCORING_WEIGHTS_STATISTICAL", "0.25")
	t.Setenv("AIPROBE_SCORING_WEIGHTS_STYLOMETRIC", "0.25")
	t.Setenv("AIPROBE_LIMITS_MIN_TEXT_LENGTH", "5")
	t.Setenv("AIPROBE_RATE_LIMIT_BACKEND", "redis")

	cfg, err := LoadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if got := cfg.Scoring.Weights[model.CategorySemantic]; got != 0.5 {
		t.Errorf("semantic weight = %v, want 0.5", got)
	}
	if got := cfg.Scoring.Weights[model.CategoryStylometric]; got != 0.25 {
		t.Errorf("stylometric weight = %v, want 0.25", got)
	}
	if cfg.Limits.MinTextLength != 5 {
		t.Errorf("min length = %d, want 5", cfg.Limits.MinTextLength)
	}
	if cfg.RateLimit.Backend != "redis" {
		t.Errorf("backend = %q, want redis", cfg.RateLimit.Backend)
	}
}

func TestLoadConfig_BadWeight(t *testing.T) {
	t.Setenv("AIPROBE_SCORING_WEIGHTS_SEMANTIC", "heavy")

	_, err := LoadConfig(newTestViper(t))
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Field != "scoring.weights.semantic" {
		t.Errorf("field = %q, want scoring.weights.semantic", cfgErr.Field)
	}
}

func TestLoadConfig_InvalidMode(t *testing.T) {
	t.Setenv("AIPROBE_SCORING_STATISTICAL_MODE", "fancy")

	_, err := LoadConfig(newTestViper(t))
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestLoadConfig_OpenAIKeyFallback(t *testing.T) {
	t.Setenv("AIPROBE_LLM_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadConfig(newTestViper(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.APIKey != "sk-test" {
		t.Errorf("api key = %q, want sk-test", cfg.LLM.APIKey)
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig: %v", err)
	}

	v := newTestViper(t)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		t.Fatalf("written config does not parse: %v", err)
	}
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("addr = %q, want :8000", cfg.Server.Addr)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when the config file already exists")
	}
}
