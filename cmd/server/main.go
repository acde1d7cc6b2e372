package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/logging"
	"github.com/JonMunkholm/UniSearch/internal/source"
	"github.com/JonMunkholm/UniSearch/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"source", cfg.Data.SourceKind(),
		"session_ttl", cfg.Session.TTL,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The table is loaded once and shared read-only by every session
	table, err := source.Open(ctx, cfg.Data)
	if err != nil {
		slog.Error("failed to load dataset", "error", err, "hint", core.FormatUserError(err))
		os.Exit(1)
	}

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := web.Run(ctx, cfg, table); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
