// Package server assembles and runs the development notification gateway:
// it opens the notification log, builds the HTTP API and serves it until
// the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atomist-global-seeds/blockstack-browser/internal/logging"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/config"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/httpapi"
	"github.com/atomist-global-seeds/blockstack-browser/internal/server/repositories/notifications"
)

type App struct {
	config *config.Config
	logger *logging.SlogLogger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stdout, "json", c.LogLevel)

	db, err := notifications.InitDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	handler := httpapi.NewHandler(notifications.NewSQLiteRepository(db), logger)
	srv := httpapi.New(&httpapi.Config{
		ListenAddr:               c.ListenAddr,
		Log:                      logger,
		DrainDuration:            c.DrainDuration,
		GracefulShutdownDuration: c.GracefulShutdownDuration,
		ReadTimeout:              c.ReadTimeout,
		WriteTimeout:             c.WriteTimeout,
	}, handler)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until a termination signal arrives or ctx is cancelled.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting gateway", "listenAddress", app.config.ListenAddr, "database", app.config.DatabaseDSN)
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Error(ctx, "closing database failed", "error", cerr)
	}
	if err != nil {
		app.logger.Error(ctx, "gateway stopped", "error", err)
	}
	return err
}
