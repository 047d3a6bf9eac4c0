package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/aiprobe/internal/llm"
	"github.com/ppiankov/aiprobe/internal/model"
	"github.com/ppiankov/aiprobe/internal/pipeline"
	"github.com/ppiankov/aiprobe/internal/util"
	"github.com/ppiankov/aiprobe/internal/validate"
)

// Analysis flags shared by analyze, batch and serve
var (
	statisticalMode string
	weightsPreset   string
	parserProvider  string
	parserURL       string
	noCache         bool
	llmEnabled      bool
	llmModel        string
)

func addAnalysisFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&statisticalMode, "statistical-mode", "", "statistical features: rich or compat")
	cmd.Flags().StringVar(&weightsPreset, "weights-preset", "", "weights preset (legacy = 0.4/0.3/0.3)")
	cmd.Flags().StringVar(&parserProvider, "parser", "", "parse provider: prose or remote")
	cmd.Flags().StringVar(&parserURL, "parser-url", "", "base URL of the remote parse service")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")
	cmd.Flags().BoolVar(&llmEnabled, "llm", false, "add an LLM narrative explaining the scores (needs OPENAI_API_KEY)")
	cmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

// loadCommandConfig loads configuration and applies flags that were set
// explicitly on cmd
func loadCommandConfig(cmd *cobra.Command) (*model.Config, error) {
	cfg, err := LoadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("statistical-mode") {
		cfg.Scoring.StatisticalMode = model.StatisticalMode(statisticalMode)
	}
	if flags.Changed("weights-preset") {
		cfg.Scoring.WeightsPreset = weightsPreset
	}
	if flags.Changed("parser") {
		cfg.Parser.Provider = parserProvider
	}
	if flags.Changed("parser-url") {
		cfg.Parser.URL = parserURL
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}

	if llmEnabled {
		if cfg.LLM.Provider == "" {
			cfg.LLM.Provider = "openai"
		}
		if cfg.LLM.APIKey == "" {
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		}
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	}

	if err := validate.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *model.Config) *util.Logger {
	level := cfg.LogLevel
	if verbose && !cmdLevelSet() {
		level = string(util.LevelDebug)
	}
	return util.NewLoggerTo(level, os.Stderr, os.Stderr)
}

func cmdLevelSet() bool {
	return rootCmd.PersistentFlags().Changed("log-level")
}

// buildPipeline creates the analysis pipeline. An LLM narrator that cannot
// be initialized only produces a warning.
func buildPipeline(cfg *model.Config, logger *util.Logger, opts ...pipeline.Option) (*pipeline.Pipeline, error) {
	opts = append(opts, pipeline.WithLogger(logger))

	if cfg.LLM.Provider != "" {
		narrator, err := llm.NewNarrator(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			logger.Info("Warning: failed to initialize LLM provider: %v", err)
		} else {
			opts = append(opts, pipeline.WithNarrator(narrator))
		}
	}

	return pipeline.NewPipeline(cfg, opts...)
}
