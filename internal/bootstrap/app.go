package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/avolkov/doorkeeper/internal/domain/registry"
	"github.com/avolkov/doorkeeper/internal/infra/config"
	"github.com/avolkov/doorkeeper/internal/infra/regstore"
)

// App runs the registration endpoint: serve until a shutdown signal, then
// drain in-flight requests within the configured grace period.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
	server *http.Server
	store  registry.Store
}

// NewApp is used by Wire to assemble the runnable app.
func NewApp(cfg *config.Config, logger *slog.Logger, server *http.Server, store registry.Store) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With("component", "bootstrap"),
		server: server,
		store:  store,
	}
}

// Run blocks until the context is cancelled or the server fails.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("registration endpoint starting",
			"address", a.cfg.HTTP.Address,
			"backend", regstore.Describe(a.store))
		if err := a.server.ListenAndServe(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		grace := a.cfg.HTTP.ShutdownTimeout
		if grace <= 0 {
			grace = 10 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		a.logger.Info("shutdown signal received", "grace", grace)
		return a.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
