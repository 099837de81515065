package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"billed/internal/backend"
	"billed/internal/cli"
	apphttp "billed/internal/http"
	"billed/internal/log"
)

type pinger interface {
	Ping(ctx context.Context) error
}

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(nil, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel, log.ComponentApp)
	logger.Info("Starting billed", log.FieldOperation, log.OpStartup, log.FieldBackend, cfg.DataBackend)

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		cli.Fatal(logger, "Invalid backend configuration", err)
	}
	res, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize backend", err)
	}
	defer func() {
		if err := res.Close(); err != nil {
			logger.Error("Backend cleanup failed", log.FieldError, err)
		}
	}()

	opts := apphttp.Options{
		Addr:       ":" + cfg.Port,
		Store:      res.Store,
		Logger:     logger,
		ModalWidth: cfg.ModalWidth,
	}
	if p, ok := res.Store.(pinger); ok {
		opts.Ready = p.Ping
	}
	srv, err := apphttp.NewServer(opts)
	if err != nil {
		cli.Fatal(logger, "Failed to build HTTP server", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server", log.FieldOperation, log.OpShutdown)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		start := time.Now()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped", log.FieldDurationHuman, time.Since(start).String())
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Server exited with error", log.FieldError, err)
		os.Exit(1)
	}
}
