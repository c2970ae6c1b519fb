package cli

import (
	"context"
	"fmt"

	"wiki-quiz/internal/app"
	"wiki-quiz/internal/config"
	"wiki-quiz/internal/logger"
	"wiki-quiz/internal/service"

	"github.com/spf13/cobra"
)

// ServiceFactory opens the quiz service for one command invocation. The
// returned func releases whatever it opened.
type ServiceFactory func(ctx context.Context, configDir string) (service.QuizService, func(), error)

// Execute runs the quizctl CLI.
func Execute(ctx context.Context) error {
	return NewRootCmd(defaultServiceFactory).ExecuteContext(ctx)
}

// NewRootCmd builds the command tree around factory.
func NewRootCmd(factory ServiceFactory) *cobra.Command {
	var configDir string

	cmd := &cobra.Command{
		Use:           "quizctl",
		Short:         "Generate and inspect quizzes built from web documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing config.yaml")

	open := func(cmd *cobra.Command) (service.QuizService, func(), error) {
		return factory(cmd.Context(), configDir)
	}

	cmd.AddCommand(newGenerateCmd(open))
	cmd.AddCommand(newHistoryCmd(open))
	cmd.AddCommand(newShowCmd(open))
	cmd.AddCommand(newExportCmd(open))
	return cmd
}

type opener func(cmd *cobra.Command) (service.QuizService, func(), error)

func defaultServiceFactory(ctx context.Context, configDir string) (service.QuizService, func(), error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	// Metrics are only scraped from the API server.
	cfg.Metrics.Enabled = false
	if err := logger.Initialize(cfg.Logger); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return a.QuizService, func() {
		a.Close(context.Background())
		_ = logger.Sync()
	}, nil
}
