// Package server initializes and runs the voting service: it opens the
// database, runs migrations, wires the repositories, services and HTTP
// router together, and handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/voteguard/voteguard/internal/logging"
	"github.com/voteguard/voteguard/internal/server/config"
	"github.com/voteguard/voteguard/internal/server/httpapi"
	"github.com/voteguard/voteguard/internal/server/repositories/repomanager"
	"github.com/voteguard/voteguard/internal/server/services"
	"github.com/voteguard/voteguard/internal/server/votecache"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rdb    *redis.Client
	server *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	if err := ensureAdmin(context.Background(), db, rm, cfg, logger); err != nil {
		return nil, fmt.Errorf("admin bootstrap error: %w", err)
	}

	usersRepo := rm.Users(db)
	votesRepo := rm.Votes(db)

	var rdb *redis.Client
	var cache services.TallyCache
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		cache = votecache.New(rdb, logger)
	}

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Auth:      services.NewAuthService(usersRepo, cfg),
		Users:     services.NewUserService(usersRepo),
		Votes:     services.NewVoteService(votesRepo, cache),
		JWTSecret: []byte(cfg.SecretKey),
		Logger:    logger,
	})

	srv := &http.Server{
		Addr:    cfg.EndpointAddr,
		Handler: router,
	}

	return &App{config: cfg, logger: logger, db: db, rdb: rdb, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(shutdownCtx, "server shutdown error", "err", err)
	}

	if app.rdb != nil {
		if err := app.rdb.Close(); err != nil {
			app.logger.Error(shutdownCtx, "redis close error", "err", err)
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error(shutdownCtx, "db close error", "err", err)
	}

	app.logger.Info(shutdownCtx, "server stopped")
	return nil
}
