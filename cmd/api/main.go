package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookscanner/db"
	"bookscanner/internal/auth"
	"bookscanner/internal/book"
	"bookscanner/internal/config"
	"bookscanner/internal/ingest"
	"bookscanner/internal/platform/googlebooks"
	"bookscanner/internal/platform/logging"
	"bookscanner/internal/platform/postgres"
	"bookscanner/internal/scan"
	"bookscanner/internal/user"
)

func main() {
	config.LoadEnvFiles()

	cfg, err := config.Load(os.Getenv("BOOKSCANNER_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	d := deps{cfg: cfg, logger: logger, ready: func(context.Context) error { return nil }}

	switch cfg.Store {
	case "postgres":
		if cfg.MigrateOnStart {
			if err := postgres.Migrate(ctx, cfg.DatabaseDSN, db.Migrations(), "up"); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			logger.Info("migrations applied")
		}
		pool, err := postgres.Open(ctx, cfg.DatabaseDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		logger.Info("database connection OK", zap.String("dsn", postgres.RedactDSN(cfg.DatabaseDSN)))

		d.users = user.NewPostgresRepo(pool, cfg.DBTimeout)
		d.books = book.NewPostgresRepo(pool, cfg.DBTimeout)
		d.attempts = ingest.NewPostgresRepo(pool, cfg.DBTimeout)
		d.ready = pool.Ping
	default:
		logger.Warn("using in-memory store; data is lost on restart")
		d.users = user.NewMemoryRepo()
		d.books = book.NewMemoryRepo()
		d.attempts = ingest.NewMemoryRepo()
	}

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer func() { _ = rdb.Close() }()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
		}
		d.revoker = auth.NewRedisRevoker(rdb)
		d.latch = scan.NewRedisLatch(rdb, cfg.ScanLatchTTL)
	} else {
		d.revoker = auth.NewMemoryRevoker()
		d.latch = scan.NewMemoryLatch(cfg.ScanLatchTTL)
	}

	d.lookup = googlebooks.NewClient(googlebooks.Config{
		BaseURL:    cfg.GoogleBooksBaseURL,
		APIKey:     cfg.GoogleBooksAPIKey,
		UserAgent:  cfg.UserAgent,
		RPS:        cfg.GoogleBooksRPS,
		MaxRetries: cfg.GoogleBooksMaxRetries,
		Timeout:    cfg.GoogleBooksTimeout,
	})

	handler, limiter := newRouter(d)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		limiter.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("store", cfg.Store))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
