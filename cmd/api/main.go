package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/emandor/econoguide_service/internal/config"
	"github.com/emandor/econoguide_service/internal/providers"
	"github.com/emandor/econoguide_service/internal/quiz"
	"github.com/emandor/econoguide_service/internal/telemetry"
)

var rootCmd = &cobra.Command{
	Use:           "econoguide",
	Short:         "EconoGuide financial literacy quiz API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("offline", false, "serve canned data instead of calling a model (overrides MODEL_PROVIDER)")
	rootCmd.Flags().String("port", "", "listen port (overrides APP_PORT)")
	serveCmd.Flags().String("port", "", "listen port (overrides APP_PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(questionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// setup loads config, applies flag overrides and starts logging.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Read()
	if off, _ := cmd.Flags().GetBool("offline"); off {
		cfg.ModelProvider = config.ProviderOffline
	}
	if f := cmd.Flags().Lookup("port"); f != nil && f.Value.String() != "" {
		cfg.AppPort = f.Value.String()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	telemetry.Init(telemetry.FromEnv(config.GetEnv))
	return cfg, nil
}

func newService(cmd *cobra.Command, cfg *config.Config) (*quiz.Service, error) {
	client, err := providers.New(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("model client: %w", err)
	}
	return quiz.NewService(client,
		quiz.WithSampling(providers.SamplingFrom(cfg)),
		quiz.WithSearch(cfg.Search),
		quiz.WithQuestionCount(cfg.QuestionCount),
	), nil
}
