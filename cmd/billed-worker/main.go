package main

import (
	"context"
	"errors"
	"os"

	"golang.org/x/sync/errgroup"

	"billed/internal/amqp"
	"billed/internal/cli"
	"billed/internal/log"
	"billed/internal/storage"
	"billed/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		cli.Fatal(nil, "Configuration validation failed", err)
	}
	logger := cli.SetupLogger(os.Stdout, cfg.LogLevel, log.ComponentWorker)
	logger.Info("Starting billed-worker", log.FieldOperation, log.OpStartup)

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize SQLite repository", err)
	}
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		cli.Fatal(logger, "Failed to initialize AMQP client", err)
	}
	defer client.Close()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	ingest := worker.NewIngestWorker(repo, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.ConsumeBillSubmitted(gctx, cfg.WorkerPrefetch, ingest.HandleBillSubmitted)
	})

	err = g.Wait()
	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
}
