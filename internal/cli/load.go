package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/validate"
)

// weightsKey is decoded separately so a configured map replaces the
// defaults instead of merging with them
const weightsKey = "scoring.weights"

// registerDefaults flattens model.DefaultConfig into viper defaults
func registerDefaults(v *viper.Viper) {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return
	}
	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return
	}
	setDefaults(v, "", tree)

	// Omitted from the YAML when empty, still settable from the environment
	v.SetDefault("llm.api_key", "")
}

func setDefaults(v *viper.Viper, prefix string, tree map[string]any) {
	for k, val := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		if key == weightsKey {
			continue
		}
		if sub, ok := val.(map[string]any); ok {
			setDefaults(v, key, sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// LoadConfig builds the effective configuration from defaults, the config
// file and the environment, then validates it
func LoadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	weights, err := loadWeights(v)
	if err != nil {
		return nil, err
	}
	if weights != nil {
		cfg.Scoring.Weights = weights
	}

	if cfg.LLM.Provider == "openai" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := validate.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadWeights reads scoring.weights from the config file and per-category
// AIPROBE_SCORING_WEIGHTS_<CATEGORY> variables. It returns nil when nothing
// is configured.
func loadWeights(v *viper.Viper) (model.Weights, error) {
	raw := v.GetStringMap(weightsKey)
	if raw == nil {
		raw = make(map[string]any)
	}

	for _, c := range model.Categories {
		key := weightsKey + "." + string(c)
		if val := v.Get(key); val != nil {
			raw[string(c)] = val
		}
	}
	if len(raw) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	weights := make(model.Weights, len(raw))
	for _, name := range names {
		w, err := cast.ToFloat64E(raw[name])
		if err != nil {
			return nil, &model.ConfigurationError{
				Field:  weightsKey + "." + name,
				Reason: fmt.Sprintf("not a number: %v", raw[name]),
			}
		}
		weights[model.Category(name)] = w
	}
	return weights, nil
}
