// Package app wires together stores, the chat hub, and the transport.
package app

import (
	"context"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Janikow/55Khat/internal/auth"
	"github.com/Janikow/55Khat/internal/config"
	"github.com/Janikow/55Khat/internal/core"
	"github.com/Janikow/55Khat/internal/store"
	storefile "github.com/Janikow/55Khat/internal/store/file"
	storesqlite "github.com/Janikow/55Khat/internal/store/sqlite"
	transporthttp "github.com/Janikow/55Khat/internal/transport/http"
)

// App holds the running pieces of the server.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	hub             *core.Hub
	store           store.Store
	log             *zerolog.Logger
}

// New constructs the application with the provided configuration.
func New(cfg config.Config, logger *zerolog.Logger) (*App, error) {
	st, err := newStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init store: %w", err)
	}
	logger.Info().Str("storage", cfg.Storage).Msg("store initialized")

	if cfg.AdminName == "" {
		logger.Warn().Msg("no admin_name configured, ban commands are disabled")
	}

	hub := core.NewHub(st, st, auth.NameIs(cfg.AdminName), core.Config{
		CredentialMode: cfg.CredentialMode,
		MaxImageBytes:  cfg.MaxImageBytes,
	}, logger)

	server := transporthttp.NewServer(hub, st, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		hub:             hub,
		store:           st,
		log:             logger,
	}, nil
}

func newStore(cfg config.Config, logger *zerolog.Logger) (store.Store, error) {
	switch cfg.Storage {
	case config.StorageSQLite:
		return storesqlite.New(cfg.DatabasePath)
	case config.StorageFile, "":
		return storefile.New(cfg.DataDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// Run starts the hub and HTTP server and blocks until context
// cancellation or a fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	go a.hub.Run(ctx)

	go func() {
		if err := a.server.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			a.cleanup()
			return err
		}

		a.cleanup()
		return <-serverErr
	}
}

func (a *App) cleanup() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close store")
		} else {
			a.log.Info().Msg("store closed")
		}
	}
}
