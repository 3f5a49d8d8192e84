// Package server assembles and runs the referral web application: logging,
// the account store, sessions, the download source and the HTTP server,
// with graceful shutdown on SIGINT/SIGTERM/SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/referralhub/internal/logging"
	"github.com/dmitrijs2005/referralhub/internal/server/auth"
	"github.com/dmitrijs2005/referralhub/internal/server/config"
	"github.com/dmitrijs2005/referralhub/internal/server/downloads"
	"github.com/dmitrijs2005/referralhub/internal/server/metrics"
	"github.com/dmitrijs2005/referralhub/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/referralhub/internal/server/services"
	"github.com/dmitrijs2005/referralhub/internal/server/sessions"
	"github.com/dmitrijs2005/referralhub/internal/server/web"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

var (
	openRepositories = repomanager.Open
	connectRedis     = sessions.ConnectRedis
	newS3Source      = downloads.NewS3Source
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	closeLog func()
	repos    repomanager.RepositoryManager
	redis    *redis.Client
	server   *web.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(c.LoggingOptions())
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger, closeLog: closeLog}
	if err := app.init(ctx); err != nil {
		app.close(ctx)
		return nil, err
	}
	return app, nil
}

func (app *App) init(ctx context.Context) error {
	c := app.config

	if !strings.EqualFold(c.LogLevel, "debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	repos, err := openRepositories(ctx, c.DatabaseDSN, c.MongoDatabase)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	app.repos = repos

	if err := repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	store, err := app.sessionStore(ctx)
	if err != nil {
		return err
	}

	source, err := app.downloadSource(ctx)
	if err != nil {
		return err
	}

	m := metrics.New()
	accounts := services.NewAccountService(repos, auth.NewBcryptHasher(c.BcryptCost), c, app.logger, m)

	app.server, err = web.NewServer(c, app.logger, web.Deps{
		Accounts:  accounts,
		Sessions:  store,
		Admin:     auth.NewAdminGate(c.AdminPassword),
		Downloads: source,
		Store:     repos,
		Metrics:   m,
	})
	if err != nil {
		return fmt.Errorf("web init error: %w", err)
	}

	return nil
}

func (app *App) sessionStore(ctx context.Context) (sessions.Store, error) {
	if app.config.RedisAddr == "" {
		app.logger.Info(ctx, "Using in-memory session store")
		return sessions.NewMemoryStore(app.config.SessionTTL), nil
	}

	client, err := connectRedis(ctx, app.config.RedisAddr, app.config.RedisPassword)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.redis = client
	app.logger.Info(ctx, "Using redis session store", "address", app.config.RedisAddr)
	return sessions.NewRedisStore(client, app.config.SessionTTL), nil
}

func (app *App) downloadSource(ctx context.Context) (downloads.Source, error) {
	c := app.config
	if c.S3Bucket == "" {
		return downloads.NewLocalSource(c.DownloadsDir), nil
	}

	src, err := newS3Source(ctx, downloads.S3Options{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		PresignTTL:   c.PresignTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return src, nil
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
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "HTTP server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled, a signal arrives or the server fails,
// then releases every resource.
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

	app.close(context.Background())
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Warn(ctx, "redis close failed", "error", err)
		}
	}
	if app.repos != nil {
		if err := app.repos.Close(ctx); err != nil {
			app.logger.Warn(ctx, "store close failed", "error", err)
		}
	}
	app.logger.Info(ctx, "App stopped")
	app.closeLog()
}
