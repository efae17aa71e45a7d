// Package server wires the application together: configuration, logging,
// PostgreSQL with startup migrations, the token issuer, the blob uploader,
// the services, and the public HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/streamtube/streamtube/internal/logging"
	"github.com/streamtube/streamtube/internal/server/auth"
	"github.com/streamtube/streamtube/internal/server/blob"
	"github.com/streamtube/streamtube/internal/server/config"
	"github.com/streamtube/streamtube/internal/server/httpapi"
	"github.com/streamtube/streamtube/internal/server/repositories/repomanager"
	"github.com/streamtube/streamtube/internal/server/services"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	api    *httpapi.API
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := repomanager.Open(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager()
	if err := repos.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	issuer, err := auth.NewIssuer(cfg)
	if err != nil {
		return nil, fmt.Errorf("token issuer init error: %w", err)
	}

	uploader := blob.NewS3Uploader(cfg)

	sessions := services.NewSessionService(db, repos, issuer, uploader)
	comments := services.NewCommentService(db, repos)

	api := httpapi.New(sessions, comments, issuer, logger)

	return &App{config: cfg, logger: logger, api: api}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the HTTP endpoint until ctx is cancelled or a signal arrives,
// then drains in-flight requests within shutdownTimeout.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{
		Addr:    app.config.EndpointAddrHTTP,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddrHTTP)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown error: %w", err)
	}

	app.logger.Info(ctx, "server stopped")
	return nil
}
