package main

import (
	"context"
	"log/slog"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mehyar500/spavevisionapp/internal/health"
	"github.com/mehyar500/spavevisionapp/internal/httpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run periodic infrastructure validation and expose status over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cmd.Context())
	},
}

func registerServeCommand(root *cobra.Command) {
	root.AddCommand(serveCmd)
}

func serve(ctx context.Context) error {
	app, err := setup()
	if err != nil {
		return err
	}

	validator := newValidator(app)
	server := httpserver.New(app.cfg.Serve.Addr, app.metrics.Handler())

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg := &sync.WaitGroup{}
	wg.Add(1)
	go runCheckLoop(ctx, wg, validator, server, app.cfg.Serve.CheckInterval)

	slog.Info("Starting spavectl service", "interval", app.cfg.Serve.CheckInterval)
	err = server.Run(ctx)

	wg.Wait()
	slog.Info("Service shutdown complete")
	return err
}

func runCheckLoop(ctx context.Context, wg *sync.WaitGroup, validator *health.Validator, server *httpserver.Server, interval time.Duration) {
	defer wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		report, err := validator.ValidateInfrastructure(ctx, false)
		if err != nil {
			slog.Error("Infrastructure validation failed", "error", err)
		} else {
			server.SetReport(report)
		}

		select {
		case <-ticker.C:
			continue
		case <-ctx.Done():
			slog.Info("Stopping check loop")
			return
		}
	}
}
