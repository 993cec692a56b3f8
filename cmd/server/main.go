package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/sengdao/splitkip/internal/config"
	"github.com/sengdao/splitkip/internal/events"
	"github.com/sengdao/splitkip/internal/httpapi"
	"github.com/sengdao/splitkip/internal/session"
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

	store, err := sqlite.New(cfg.SQLiteDBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.SQLiteDBPath)

	// The change feed is optional; without AMQP the service runs standalone.
	var pub session.Publisher
	if cfg.AMQPURL != "" {
		client, err := events.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			slog.Error("Failed to connect AMQP", "error", err)
			os.Exit(1)
		}
		defer client.Close()
		slog.Info("Change feed connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		pub = client
	}

	ctrl := session.New(store, pub)

	mux := http.NewServeMux()
	httpapi.NewServer(ctrl).Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	handler := httpapi.LoggingMiddleware(httpapi.CORSMiddleware(mux))

	// h2c allows HTTP/2 clients without TLS termination in front.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	addr := fmt.Sprintf(":%s", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, h2cHandler); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
