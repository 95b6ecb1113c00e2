package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meikuraledutech/automation"
	"github.com/meikuraledutech/automation/api"
	"github.com/meikuraledutech/automation/memory"
)

const shutdownTimeout = 10 * time.Second

var inMemory bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var (
			store   automation.Store
			catalog automation.Catalog
		)
		if inMemory {
			mem := memory.New(nil)
			store, catalog = mem, mem
			logger.Warn("using in-memory store, automations are lost on exit")
		} else {
			pool, pg, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()
			store, catalog = pg, pg
		}

		srv := api.New(store, catalog,
			api.WithLogger(logger.Named("api")),
			api.WithStrictValidation(cfg.Validation.Strict),
		)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Listen(cfg.Server.Addr)
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		if err := <-errCh; err != nil {
			logger.Warn("listener stopped", zap.Error(err))
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&inMemory, "in-memory", false, "keep automations in process memory instead of PostgreSQL")
}
