package cli

import (
	"context"

	"trivia-quiz-service/internal/bank"
	"trivia-quiz-service/internal/config"
	pgstore "trivia-quiz-service/internal/infra/postgres"
	"trivia-quiz-service/internal/logger"

	"github.com/spf13/cobra"
)

// NewSeedCmd loads the built-in question set into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the built-in questions into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath)
		},
	}
}

func runSeed(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	questions, err := bank.DefaultQuestions()
	if err != nil {
		return err
	}
	// refuse to seed data the bank would reject at load time
	if _, err := bank.New(questions); err != nil {
		return err
	}

	db, err := openBun(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	inserted, err := pgstore.Seed(ctx, db, questions)
	if err != nil {
		return err
	}
	logger.New("trivia-quiz", cfg.Log.Level, cfg.Log.Format).
		WithField("inserted", inserted).
		Info("questions seeded")
	return nil
}
