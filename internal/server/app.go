// Package server initializes and runs the Scribe API server: it opens the
// Postgres pool, applies migrations, connects to Redis, and serves HTTP until
// a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	"github.com/scribe-blog/scribe/internal/logging"
	"github.com/scribe-blog/scribe/internal/server/config"
	scribehttp "github.com/scribe-blog/scribe/internal/server/http"
	"github.com/scribe-blog/scribe/internal/server/migrations"
	"github.com/scribe-blog/scribe/internal/server/repositories/posts"
	"github.com/scribe-blog/scribe/internal/server/repositories/sessions"
	"github.com/scribe-blog/scribe/internal/server/repositories/users"
	"github.com/scribe-blog/scribe/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rdb    *redis.Client
	server *scribehttp.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

	userRepo := users.NewPostgresRepository(db)
	postRepo := posts.NewPostgresRepository(db)
	sessionRepo := sessions.NewRedisRepository(rdb)

	authService := services.NewAuthService(userRepo, sessionRepo, cfg)
	userService := services.NewUserService(userRepo, cfg.AvatarDir)
	postService := services.NewPostService(postRepo)

	handlers := scribehttp.Handlers{
		Auth:  scribehttp.NewAuthHandlers(authService, cfg.RefreshTokenValidityDuration),
		Users: scribehttp.NewUserHandlers(userService),
		Posts: scribehttp.NewPostHandlers(postService),
	}

	server := scribehttp.NewServer(cfg.EndpointAddr, []byte(cfg.SecretKey), cfg.AvatarDir, handlers, logger)

	return &App{config: cfg, logger: logger, db: db, rdb: rdb, server: server}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Start(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	<-ctx.Done()

	app.logger.Info(ctx, "Shutting down...")
	if err := app.server.Shutdown(context.Background()); err != nil {
		app.logger.Error(ctx, err.Error())
	}

	wg.Wait()

	if err := app.rdb.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
