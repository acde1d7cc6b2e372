package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/UniSearch/internal/config"
	"github.com/JonMunkholm/UniSearch/internal/core"
	"github.com/JonMunkholm/UniSearch/internal/metrics"
)

// Run serves the search UI over t until ctx is cancelled, then shuts down
// gracefully within the configured timeout. The session janitor runs for
// the lifetime of the server.
func Run(ctx context.Context, cfg *config.Config, t *core.Table) error {
	store := core.NewSessionStore(t, core.StoreConfig{
		TTL:           cfg.Session.TTL,
		MaxSessions:   cfg.Session.MaxSessions,
		SweepInterval: cfg.Session.SweepInterval,
		OnCountChange: metrics.SetSessions,
	})

	jobCtx, cancelJobs := context.WithCancel(ctx)
	defer cancelJobs()
	go store.StartJanitor(jobCtx)

	server := NewServer(cfg, store)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(jobCtx)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down...")
	cancelJobs()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("server stopped", "sessions", store.Len())
	return nil
}
