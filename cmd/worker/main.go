package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/sengdao/splitkip/internal/config"
	"github.com/sengdao/splitkip/internal/events"
	"github.com/sengdao/splitkip/internal/feed"
	"github.com/sengdao/splitkip/internal/storage/sqlite"
	"github.com/sengdao/splitkip/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	// The server runs without AMQP; the worker has nothing to do without it.
	if cfg.AMQPURL == "" {
		slog.Error("AMQP_URL is required for the feed worker")
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		slog.Error("Failed to connect AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()
	slog.Info("Change feed connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	worker := feed.NewWorker(store)
	go func() {
		if err := client.ConsumeSplitChanges(ctx, worker.HandleChange); err != nil && err != context.Canceled {
			slog.Error("Message consumption failed", "error", err)
		}
		cancel()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Consumer stopped")
	}
	cancel()
}
