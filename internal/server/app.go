// Package server wires configuration, storage, object storage, the event
// publisher and the HTTP API together and runs them until a shutdown signal.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/auth"
	"github.com/dmitrijs2005/gophchat/internal/server/config"
	"github.com/dmitrijs2005/gophchat/internal/server/events"
	"github.com/dmitrijs2005/gophchat/internal/server/httpapi"
	"github.com/dmitrijs2005/gophchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/dmitrijs2005/gophchat/internal/server/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher events.Publisher
	server    *httpapi.HTTPServer
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

func newLogger(w io.Writer, level string) logging.Logger {
	return logging.NewJSONLogger(w, level)
}

// newRepositories opens and migrates the database for the postgres backend;
// the memory backend returns a nil *sql.DB.
func newRepositories(ctx context.Context, c *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.StorageMemory:
		return nil, repomanager.NewMemoryRepositoryManager(), nil
	case config.StoragePostgres, "":
		db, err := openDB(c.DatabaseDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("db open error: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db ping error: %w", err)
		}
		m := repomanager.NewPostgresRepositoryManager()
		if err := m.RunMigrations(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("db migration error: %w", err)
		}
		return db, m, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := newLogger(os.Stdout, c.LogLevel)

	db, rm, err := newRepositories(ctx, c)
	if err != nil {
		return nil, err
	}

	s3Client, err := storage.NewS3Client(ctx, storage.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	uploader := storage.NewS3Uploader(s3Client, c.S3Bucket, c.ImageBaseURL())

	publisher, err := events.New(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("events init error: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	sessions := auth.NewSessions(c.SecretKey, c.SessionTTL, auth.CookieOptions{
		Path:   c.APIPrefix,
		Secure: c.SecureCookies(),
	})

	handler := httpapi.NewHandler(httpapi.Options{
		Users:        services.NewUserService(db, rm, auth.NewBcryptHasher(c.BcryptCost), uploader),
		Messages:     services.NewMessageService(db, rm, uploader, publisher, logger),
		Sessions:     sessions,
		Logger:       logger,
		Registry:     registry,
		MaxBodyBytes: c.MaxBodyBytes,
	})

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		publisher: publisher,
		server:    httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, httpapi.NewRouter(handler, c.APIPrefix)),
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
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) close(ctx context.Context) {
	if err := app.publisher.Close(); err != nil {
		app.logger.Error(ctx, "publisher close failed", "error", err)
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close failed", "error", err)
		}
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment, "storage", app.config.StorageBackend)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.close(context.Background())
	app.logger.Info(context.Background(), "App stopped")
}
