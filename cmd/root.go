package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/truthylabs/truthy/internal/config"
	"github.com/truthylabs/truthy/internal/detector"
	telem "github.com/truthylabs/truthy/internal/otel"
)

// Version is injected at build time via -ldflags.
var Version = "dev"

var (
	// Global flags.
	flagProvider  string
	flagModel     string
	flagBaseURL   string
	flagAPIKey    string
	flagMaxTokens int64
	flagVerbose   bool
)

var (
	cfg       *config.Config
	telemetry *telem.Telemetry
)

var rootCmd = &cobra.Command{
	Use:   "truthy",
	Short: "Detect hallucinations in LLM answers",
	Long: `truthy checks whether an LLM's answer is faithful to a source paragraph,
or — when no paragraph is given — to evidence fetched from the web.

Each answer is classified against a small taxonomy of hallucination types
(out-of-context entities, unverifiable tuples, out-of-context intent,
fabricated relations) by a chain of classifiers: a remote LLM when an API
key is available, a local Ollama model otherwise, and a rule-based
comparator as the tier of last resort. The chain never fails outright —
when every tier is unavailable the verdict is reported as undetermined.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// Flags win over file and environment.
		if flagProvider != "" {
			cfg.Provider = flagProvider
		}
		if flagModel != "" {
			cfg.Model = flagModel
		}
		if flagBaseURL != "" {
			cfg.BaseURL = flagBaseURL
		}
		if flagAPIKey != "" {
			cfg.APIKey = flagAPIKey
		}
		if flagMaxTokens > 0 {
			cfg.MaxTokens = flagMaxTokens
		}

		telem.Version = Version
		telemetry, err = telem.Init(cmd.Context(), telem.Config{
			Endpoint: cfg.OTELEndpoint,
			Headers:  cfg.OTELHeaders,
		})
		if err != nil {
			return fmt.Errorf("telemetry init: %w", err)
		}

		if cfg.ConfigFile != "" {
			slog.Debug("loaded config file", "path", cfg.ConfigFile)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if telemetry != nil {
			telemetry.Shutdown(context.Background())
		}
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProvider, "provider", "", "classifier provider: auto, openai, anthropic, ollama, heuristic (default: auto)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "remote model name (default: gpt-4o-mini for openai, claude-haiku-4-5 for anthropic)")
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "override remote LLM API base URL")
	rootCmd.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "remote LLM API key (or OPENAI_API_KEY / ANTHROPIC_API_KEY)")
	rootCmd.PersistentFlags().Int64Var(&flagMaxTokens, "max-tokens", 0, "max completion tokens for LLM tiers")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "debug logging")
}

// newFactory builds the detector factory from the resolved config.
func newFactory() *detector.Factory {
	return &detector.Factory{Cfg: cfg, Metrics: telemetry.Metrics}
}

// buildDetector assembles the detector for the effective provider.
func buildDetector() (*detector.Detector, error) {
	provider := cfg.Provider
	if provider == "" {
		provider = "auto"
	}
	return newFactory().ForProvider(provider)
}
