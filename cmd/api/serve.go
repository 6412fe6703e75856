package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/emandor/econoguide_service/internal/server"
	"github.com/emandor/econoguide_service/internal/telemetry"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API (default)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}
	log := telemetry.L()
	log.Info().
		Str("port", cfg.AppPort).
		Str("env", cfg.AppEnv).
		Str("provider", cfg.ModelProvider).
		Msg("booting econoguide_service")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := newService(cmd, cfg)
	if err != nil {
		return err
	}
	app := server.New(ctx, cfg, svc)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Listen(":" + cfg.AppPort)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting_down")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server_stopped")
		return err
	}
	log.Info().Msg("server_stopped")
	return nil
}
