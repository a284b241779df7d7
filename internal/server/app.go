// Package server initializes and runs the overview server. It picks the
// storage backend, handles graceful shutdown and starts the HTTP endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/vaultacks/internal/logging"
	"github.com/dmitrijs2005/vaultacks/internal/server/config"
	"github.com/dmitrijs2005/vaultacks/internal/server/httpapi"
	"github.com/dmitrijs2005/vaultacks/internal/server/repositories/overview"
	"github.com/dmitrijs2005/vaultacks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/vaultacks/internal/server/services"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	service *services.OverviewService
}

// openDB is a seam for tests.
var openDB = repomanager.Open

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	return newApp(ctx, c, logger)
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	var (
		repo overview.Repository
		db   *sql.DB
	)

	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "no database configured, overview is kept in memory")
		repo = overview.NewMemoryRepository()
	} else {
		m := repomanager.NewPostgresRepositoryManager()
		var err error
		db, err = openDB(ctx, m, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repo = m.Overviews(db)
	}

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		service: services.NewOverviewService(repo, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewRouter(app.service, app.config, app.logger)
	s := httpapi.NewHTTPServer(app.config.EndpointAddr, app.logger, h, app.config.ShutdownTimeout)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err)
		}
	}
	app.logger.Info(ctx, "Stopped")
}
