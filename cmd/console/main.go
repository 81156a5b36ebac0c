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

	"github.com/sony/gobreaker"

	"ops-console/internal/client"
	"ops-console/internal/config"
	"ops-console/internal/console"
	"ops-console/internal/form"
	"ops-console/internal/metrics"
	"ops-console/internal/render"
	"ops-console/internal/service/export"
	"ops-console/internal/storage"
	"ops-console/internal/storage/memory"
	"ops-console/internal/storage/mysql"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	cfg := config.MustConfig()

	log := setupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openSessionStore(ctx, *cfg)
	if err != nil {
		log.Error("failed to open session store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	m := metrics.New()

	breaker := client.NewBreaker(client.BreakerConfig{
		Name:     "backend",
		Failures: cfg.Backend.BreakerFailures,
		Timeout:  cfg.Backend.BreakerTimeout,
		OnState: func(name string, state gobreaker.State) {
			m.SetBreakerState(name, int(state))
		},
	}, log)

	backend, err := client.New(cfg.Backend.BaseURL, nil,
		client.WithHTTPClient(&http.Client{Timeout: cfg.Backend.Timeout}),
		client.WithBreaker(breaker),
		client.WithLogger(log),
		client.WithObserver(m),
	)
	if err != nil {
		log.Error("invalid backend url", slog.String("error", err.Error()))
		os.Exit(1)
	}

	loc := cfg.Display.Location()
	ops := console.New(
		console.FromClient(backend),
		form.New(form.WithLocation(loc)),
		render.NewFormatter(loc, cfg.Display.DateLayout),
		console.WithLogger(log),
		console.WithRecorder(m),
		console.WithIdleTimeout(cfg.Session.TTL),
	)
	exporter := export.NewService(ops)

	if purger, ok := store.(storage.Purger); ok {
		go janitor(ctx, log, purger, ops, 15*time.Minute)
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, store, ops, exporter, m),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + cfg.Backend.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", slog.String("error", err.Error()))
		}
	}()

	log.Info("server started",
		slog.String("address", cfg.Address),
		slog.String("backend", cfg.Backend.BaseURL),
		slog.String("env", cfg.Env),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped")
}

// openSessionStore picks the store named in the config.
func openSessionStore(ctx context.Context, cfg config.Config) (storage.SessionStore, func(), error) {
	if cfg.Session.Store != "mysql" {
		return memory.New(), func() {}, nil
	}

	db, err := mysql.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return db, func() { _ = db.Close() }, nil
}

// janitor purges expired sessions from the store and drops the result areas
// of sessions that have ended, every interval until ctx is done.
func janitor(ctx context.Context, log *slog.Logger, store storage.Purger, ops *console.Console, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweep(ctx, log, store, ops)
		}
	}
}

func sweep(ctx context.Context, log *slog.Logger, store storage.Purger, ops *console.Console) {
	const op = "main.sweep"

	n, err := store.PurgeExpired(ctx)
	if err != nil {
		log.Error("failed to purge sessions", slog.String("op", op), slog.String("error", err.Error()))
	}

	log.Debug("expired sessions purged",
		slog.String("op", op),
		slog.Int64("sessions", n),
		slog.Int("boards", ops.Prune()),
	)
}
