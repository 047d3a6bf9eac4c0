package validate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/aiprobe/internal/model"
)

// ValidateConfig checks the settings consumed by the analysis core.
// Any failure is a *model.ConfigurationError and should abort startup.
func ValidateConfig(cfg *model.Config) error {
	if cfg.Limits.MinTextLength < 0 {
		return &model.ConfigurationError{
			Field:  "limits.min_text_length",
			Reason: fmt.Sprintf("must not be negative (got %d)", cfg.Limits.MinTextLength),
		}
	}
	if cfg.Limits.MinTextLength > cfg.Limits.MaxTextLength {
		return &model.ConfigurationError{
			Field: "limits",
			Reason: fmt.Sprintf("min_text_length %d exceeds max_text_length %d",
				cfg.Limits.MinTextLength, cfg.Limits.MaxTextLength),
		}
	}

	switch cfg.Scoring.WeightsPreset {
	case "", model.WeightsPresetLegacy:
	default:
		return &model.ConfigurationError{
			Field:  "scoring.weights_preset",
			Reason: fmt.Sprintf("unknown preset %q (supported: legacy)", cfg.Scoring.WeightsPreset),
		}
	}

	if err := ValidateWeights(cfg.Scoring.EffectiveWeights()); err != nil {
		return err
	}

	switch cfg.Scoring.StatisticalMode {
	case model.StatisticalRich, model.StatisticalCompat:
	default:
		return &model.ConfigurationError{
			Field:  "scoring.statistical_mode",
			Reason: fmt.Sprintf("unknown mode %q (supported: rich, compat)", cfg.Scoring.StatisticalMode),
		}
	}

	switch cfg.Parser.Provider {
	case "prose":
	case "remote":
		if cfg.Parser.URL == "" {
			return &model.ConfigurationError{Field: "parser.url", Reason: "required for the remote parser"}
		}
	default:
		return &model.ConfigurationError{
			Field:  "parser.provider",
			Reason: fmt.Sprintf("unknown provider %q (supported: prose, remote)", cfg.Parser.Provider),
		}
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.PerMinute <= 0 {
			return &model.ConfigurationError{Field: "rate_limit.per_minute", Reason: "must be > 0 when rate limiting is enabled"}
		}
		switch cfg.RateLimit.Backend {
		case "memory", "redis":
		default:
			return &model.ConfigurationError{
				Field:  "rate_limit.backend",
				Reason: fmt.Sprintf("unknown backend %q (supported: memory, redis)", cfg.RateLimit.Backend),
			}
		}
	}

	return nil
}

// ValidateWeights requires exactly one non-negative weight per category
func ValidateWeights(w model.Weights) error {
	var missing, unknown []string
	for _, c := range model.Categories {
		if _, ok := w[c]; !ok {
			missing = append(missing, string(c))
		}
	}
	for c, value := range w {
		if !c.IsKnown() {
			unknown = append(unknown, string(c))
			continue
		}
		if value < 0 {
			return &model.ConfigurationError{
				Field:  "scoring.weights." + string(c),
				Reason: fmt.Sprintf("must not be negative (got %g)", value),
			}
		}
	}

	if len(missing) > 0 {
		return &model.ConfigurationError{
			Field:  "scoring.weights",
			Reason: "missing categories: " + strings.Join(missing, ", "),
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return &model.ConfigurationError{
			Field:  "scoring.weights",
			Reason: "unknown categories: " + strings.Join(unknown, ", "),
		}
	}
	return nil
}
