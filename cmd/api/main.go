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

	"barbs-dog-rescue/internal/adapters/petstablished"
	"barbs-dog-rescue/internal/adapters/storage/memory"
	pg "barbs-dog-rescue/internal/adapters/storage/postgres"
	rds "barbs-dog-rescue/internal/adapters/storage/redis"
	"barbs-dog-rescue/internal/config"
	"barbs-dog-rescue/internal/domain/dogs"
	"barbs-dog-rescue/internal/platform/httpclient"
	"barbs-dog-rescue/internal/platform/logger"
	"barbs-dog-rescue/internal/ports/cache"
	"barbs-dog-rescue/internal/router"
	"barbs-dog-rescue/internal/snapshot"
)

// @title Barb's Dog Rescue API
// @version 1.0
// @description Perros en adopción de Barb's Dog Rescue, servidos desde un snapshot cacheado de Petstablished.
// @BasePath /
func main() {
	log := logger.NewFromEnv()
	if err := run(log); err != nil {
		log.Error("api stopped", map[string]any{"error": err})
		os.Exit(1)
	}
}

// run devuelve el error en vez de salir para que los defers cierren el store.
func run(log logger.Logger) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("cache backend %s unavailable: %w", cfg.CacheBackend, err)
	}
	defer closeStore()
	log.Info("cache backend ready", map[string]any{"backend": cfg.CacheBackend})

	hc, err := httpclient.NewWithBaseURL(cfg.PetstablishedBaseURL, httpclient.Options{
		Timeout:   cfg.PetstablishedTimeout,
		RPS:       cfg.PetstablishedRPS,
		Burst:     1,
		UserAgent: "barbs-dog-rescue/1.0",
	})
	if err != nil {
		return fmt.Errorf("invalid petstablished base url: %w", err)
	}
	// el fetch no puede durar más que el lock que lo protege
	upstream := petstablished.NewClient(hc, petstablished.Config{
		PublicKey:   cfg.PetstablishedPublicKey,
		PageSize:    cfg.PetstablishedPageSize,
		MaxPages:    cfg.PetstablishedMaxPages,
		MaxDuration: cfg.LockTTL,
	}, log)

	guardCfg := snapshot.DefaultConfig("available_dogs")
	guardCfg.TTL = cfg.SnapshotTTL
	guardCfg.LockTTL = cfg.LockTTL
	guardCfg.PollInterval = cfg.LockPollInterval
	guardCfg.PollAttempts = cfg.LockPollAttempts
	guard := snapshot.NewGuard(store, guardCfg, log)

	svc := dogs.NewService(upstream, guard, log)
	svc.SetDefaultPerPage(cfg.DefaultPerPage)

	warmDone := warmInBackground(ctx, svc, upstream.Deadline(), log)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router.NewRouter(router.Options{Dogs: svc, Logger: log}),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", map[string]any{"addr": cfg.HTTPAddr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stop()
		<-warmDone
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		<-warmDone
		if err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	}
}

type warmer interface {
	Warm(ctx context.Context) error
}

// warmInBackground precarga el snapshot sin frenar el listener. Es best
// effort: si falla, el primer request vuelve a intentar. El canal se cierra
// al terminar, o antes si ctx se cancela.
func warmInBackground(ctx context.Context, w warmer, budget time.Duration, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		warmCtx, cancel := context.WithTimeout(ctx, budget)
		defer cancel()

		start := time.Now()
		if err := w.Warm(warmCtx); err != nil {
			log.Warn("snapshot warm-up failed", map[string]any{"error": err, "elapsed_ms": time.Since(start).Milliseconds()})
			return
		}
		log.Info("snapshot warmed", map[string]any{"elapsed_ms": time.Since(start).Milliseconds()})
	}()
	return done
}

// openStore elige el backend de cache/lock. memory solo sirve con una réplica.
func openStore(ctx context.Context, cfg config.Config) (cache.Store, func(), error) {
	switch cfg.CacheBackend {
	case config.BackendRedis:
		client, err := rds.Open(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return rds.NewCacheStore(client, cfg.CachePrefix), func() { _ = client.Close() }, nil

	case config.BackendPostgres:
		db, err := pg.Open(cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		if err := pg.EnsureSchema(ctx, db); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return pg.NewCacheStore(db, cfg.CachePrefix), func() { _ = db.Close() }, nil

	default:
		return memory.NewCacheStore(), func() {}, nil
	}
}
