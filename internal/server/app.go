// Package server initializes and runs the tasktracker server: the REST API,
// the gRPC health endpoint and the store watcher, with graceful shutdown.
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

	"github.com/dmitrijs2005/tasktracker/internal/logging"
	"github.com/dmitrijs2005/tasktracker/internal/server/config"
	"github.com/dmitrijs2005/tasktracker/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasktracker/internal/server/services"

	gs "github.com/dmitrijs2005/tasktracker/internal/server/grpc"
	hs "github.com/dmitrijs2005/tasktracker/internal/server/http"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	httpServer  *hs.Server
	grpcServer  *gs.HealthServer
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()

	as := services.NewAuthService(db, m, c)
	ts := services.NewTaskService(db, m)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: m,
		httpServer:  hs.NewServer(c.EndpointAddrHTTP, c.CORSOrigin, logger, as, ts),
		grpcServer:  gs.NewHealthServer(c.EndpointAddrGRPC, logger),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.grpcServer.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startStoreWatcher(ctx context.Context) {
	w := &storeWatcher{
		db: app.db,
		migrate: func(ctx context.Context) error {
			return app.repomanager.RunMigrations(ctx, app.db)
		},
		health:   app.grpcServer,
		interval: app.config.StoreCheckInterval,
		logger:   app.logger.With("module", "store_watcher"),
	}
	w.run(ctx)
}

// Run blocks until a termination signal arrives, ctx is cancelled or one of
// the servers fails, then waits for everything to stop and closes the DB.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(3)
	go func() {
		defer wg.Done()
		app.startStoreWatcher(ctx)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
