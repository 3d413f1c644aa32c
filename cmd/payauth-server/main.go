// Command payauth-server runs the payments-portal auth service.
//
// With no configuration it starts fully self-contained: in-memory user and
// payment stores and an embedded miniredis for the brute-force counters.
// Point PAYAUTH_DATABASE_DSN at Postgres and PAYAUTH_REDIS_ADDR at a real
// Redis for a durable deployment.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	payauth "github.com/swiftgate/payauth"
	"github.com/swiftgate/payauth/httpapi"
	"github.com/swiftgate/payauth/internal/audit"
	"github.com/swiftgate/payauth/internal/logging"
	"github.com/swiftgate/payauth/internal/stores"
	"github.com/swiftgate/payauth/payments"
)

func main() {
	slogger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	log := logging.NewSlogLogger(slogger)

	if err := run(log); err != nil {
		log.Error(context.Background(), "server exited", "err", err)
		os.Exit(1)
	}
}

func run(log logging.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := payauth.FromEnv()
	if err != nil {
		return err
	}

	// User and payment storage: Postgres when a DSN is configured,
	// in-memory otherwise.
	var (
		userStore   payauth.UserStore
		paymentRepo payments.Repo
	)
	if cfg.Database.DSN != "" {
		db, err := stores.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
		userStore = stores.NewPostgres(db)
		paymentRepo = payments.NewPostgresRepo(db)
		log.Info(ctx, "using postgres store")
	} else {
		userStore = stores.NewMemory()
		paymentRepo = payments.NewMemoryRepo()
		log.Warn(ctx, "using in-memory store, data is lost on restart")
	}

	// Brute-force counters: real Redis when configured, embedded miniredis
	// otherwise. The embedded instance is single-process only.
	redisAddr := cfg.Redis.Addr
	if redisAddr == "" && cfg.Limiter.Enabled {
		mr, err := miniredis.Run()
		if err != nil {
			return err
		}
		defer mr.Close()
		redisAddr = mr.Addr()
		log.Warn(ctx, "using embedded redis, counters are not shared across instances")
	}

	var rdb *redis.Client
	if cfg.Limiter.Enabled {
		rdb = redis.NewClient(&redis.Options{
			Addr:     redisAddr,
			Password: cfg.Redis.Password,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return err
		}
	}

	builder := payauth.New().
		WithConfig(cfg).
		WithUserStore(userStore).
		WithLogger(log).
		WithAuditSink(audit.NewJSONWriterSink(os.Stdout))
	if rdb != nil {
		builder = builder.WithRedis(rdb)
	}

	engine, err := builder.Build()
	if err != nil {
		return err
	}
	defer engine.Close()

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           httpapi.NewServer(engine, paymentRepo, log).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Server.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info(context.Background(), "shutdown complete")
	return nil
}
