package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation/config"
	"github.com/meikuraledutech/automation/logging"
	"github.com/meikuraledutech/automation/postgres"
)

var (
	cfgFile string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "server",
	Short:         "Build, validate and serve social media automations.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		log, err := logging.New(loaded.Logger)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		cfg, logger = loaded, log
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, validateCmd, exportCmd)
}

// connect opens a pool against the configured database. The caller closes it.
func connect(ctx context.Context) (*pgxpool.Pool, *postgres.PGStore, error) {
	if err := cfg.Database.Validate(); err != nil {
		return nil, nil, err
	}
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	return pool, postgres.New(pool, postgres.WithLogger(logger)), nil
}
