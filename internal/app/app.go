package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/vlogit/core/internal/config"
	"github.com/vlogit/core/internal/handlers"
	"github.com/vlogit/core/internal/httpserver"
	"github.com/vlogit/core/internal/logging"
	"github.com/vlogit/core/internal/metrics"
	"github.com/vlogit/core/internal/middleware"
)

const usage = "expected command: serve, migrate, or one of " + commandList

// Run bootstraps the vlogit core and dispatches a subcommand.
func Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New(usage)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	switch args[0] {
	case "serve":
		return serve(ctx, cfg, logger)
	case "migrate":
		return runMigrations(ctx, cfg, args[1:])
	}

	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", args[0])
	}

	svc, cleanup, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	return cmd(ctx, svc, args[1:], os.Stdout)
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	svc, cleanup, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux, svc.handlerDependencies())

	handler := middleware.RequestLogger(logger)(metrics.Middleware(mux))

	srv := httpserver.New(cfg.Host, cfg.AppPort, handler)

	logger.Info("starting http server", "addr", srv.Addr(), "records", cfg.RecordBackend, "blobs", cfg.BlobBackend)

	srvErr := make(chan error, 1)
	go func() {
		srvErr <- srv.Start()
	}()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalCh)

	select {
	case <-ctx.Done():
		logger.Info("context canceled, shutting down server")
	case sig := <-signalCh:
		logger.Info("received signal, shutting down", "signal", sig.String())
	case err := <-srvErr:
		if err != nil {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), httpserver.ShutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
