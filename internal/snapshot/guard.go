// Package snapshot mantiene un único valor cacheado (el listado de perros)
// y coordina quién lo repuebla cuando expira.
//
// Dentro de un proceso las llamadas concurrentes se agrupan con singleflight.
// Entre procesos se coordina con un lock con TTL en el cache.Store compartido.
// Si el lock no se puede confirmar (backend caído, holder lento) el guard
// repuebla igual: preferimos un fetch duplicado a dejar la página vacía.
package snapshot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"barbs-dog-rescue/internal/platform/logger"
	"barbs-dog-rescue/internal/ports/cache"
)

type Config struct {
	Key     string
	LockKey string

	TTL     time.Duration
	LockTTL time.Duration

	// Espera acotada del que pierde el lock: PollAttempts * PollInterval.
	PollInterval time.Duration
	PollAttempts int

	ReleaseTimeout time.Duration
}

// DefaultConfig: snapshot 1h, lock 45s, espera de ~3s (30 x 100ms).
func DefaultConfig(name string) Config {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "available_dogs"
	}
	return Config{
		Key:            name,
		LockKey:        name + ":lock",
		TTL:            time.Hour,
		LockTTL:        45 * time.Second,
		PollInterval:   100 * time.Millisecond,
		PollAttempts:   30,
		ReleaseTimeout: 2 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig(c.Key)
	if strings.TrimSpace(c.Key) == "" {
		c.Key = d.Key
	}
	if strings.TrimSpace(c.LockKey) == "" {
		c.LockKey = c.Key + ":lock"
	}
	if c.TTL <= 0 {
		c.TTL = d.TTL
	}
	if c.LockTTL <= 0 {
		c.LockTTL = d.LockTTL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.PollAttempts <= 0 {
		c.PollAttempts = d.PollAttempts
	}
	if c.ReleaseTimeout <= 0 {
		c.ReleaseTimeout = d.ReleaseTimeout
	}
	return c
}

type Guard struct {
	store cache.Store
	cfg   Config
	log   logger.Logger
	group singleflight.Group

	newToken func() string
}

func NewGuard(store cache.Store, cfg Config, log logger.Logger) *Guard {
	if log == nil {
		log = logger.Nop()
	}
	return &Guard{
		store:    store,
		cfg:      cfg.withDefaults(),
		log:      log,
		newToken: uuid.NewString,
	}
}

func (g *Guard) Config() Config { return g.cfg }

// Ensure devuelve el snapshot cacheado, poblándolo con populate si falta.
// El trabajo compartido no se cancela si se cancela ctx; solo deja de esperar
// este caller.
func (g *Guard) Ensure(ctx context.Context, populate func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	if v, ok := g.read(ctx); ok {
		return v, nil
	}

	ch := g.group.DoChan(g.cfg.Key, func() (any, error) {
		return g.fill(context.WithoutCancel(ctx), populate)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		v, _ := res.Val.([]byte)
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (g *Guard) fill(ctx context.Context, populate func(ctx context.Context) ([]byte, error)) ([]byte, error) {
	log := logger.FromContext(ctx, g.log).With(map[string]any{"cache_key": g.cfg.Key})
	token := []byte(g.newToken())

	held, err := g.store.SetNX(ctx, g.cfg.LockKey, token, g.cfg.LockTTL)
	switch {
	case err != nil:
		log.Warn("snapshot lock unavailable, populating without lock", map[string]any{"error": err})
	case held:
		defer g.release(ctx, token, log)
	default:
		if v, ok := g.wait(ctx); ok {
			log.Debug("snapshot populated by another worker", nil)
			return v, nil
		}
		log.Warn("snapshot lock wait exhausted, populating anyway", map[string]any{
			"attempts":    g.cfg.PollAttempts,
			"interval_ms": g.cfg.PollInterval.Milliseconds(),
		})
	}

	// el holder anterior pudo terminar justo antes de que tomáramos el lock
	if v, ok := g.read(ctx); ok {
		return v, nil
	}

	start := time.Now()
	v, err := safePopulate(ctx, populate)
	if err != nil {
		log.Error("snapshot populate failed", map[string]any{
			"error":       err,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil, err
	}

	if err := g.store.Set(ctx, g.cfg.Key, v, g.cfg.TTL); err != nil {
		// igual devolvemos lo que trajimos; el próximo request reintenta
		log.Error("snapshot store failed", map[string]any{"error": err})
	} else {
		log.Info("snapshot populated", map[string]any{
			"bytes":       len(v),
			"ttl":         g.cfg.TTL.String(),
			"duration_ms": time.Since(start).Milliseconds(),
		})
	}
	return v, nil
}

// Invalidate borra el snapshot solo si sigue siendo value (por ejemplo un
// valor que no se pudo decodificar). Si otro worker ya lo reemplazó no toca nada.
func (g *Guard) Invalidate(ctx context.Context, value []byte) error {
	deleted, err := g.store.CompareAndDelete(ctx, g.cfg.Key, value)
	if err != nil {
		return fmt.Errorf("snapshot invalidate: %w", err)
	}
	logger.FromContext(ctx, g.log).Warn("snapshot invalidated", map[string]any{
		"cache_key": g.cfg.Key,
		"deleted":   deleted,
		"bytes":     len(value),
	})
	return nil
}

// wait hace polling del snapshot mientras otro worker tiene el lock.
func (g *Guard) wait(ctx context.Context) ([]byte, bool) {
	ticker := time.NewTicker(g.cfg.PollInterval)
	defer ticker.Stop()

	for i := 0; i < g.cfg.PollAttempts; i++ {
		select {
		case <-ctx.Done():
			return nil, false
		case <-ticker.C:
		}
		if v, ok := g.read(ctx); ok {
			return v, true
		}
	}
	return nil, false
}

func (g *Guard) read(ctx context.Context) ([]byte, bool) {
	v, ok, err := g.store.Get(ctx, g.cfg.Key)
	if err != nil {
		logger.FromContext(ctx, g.log).Warn("snapshot read failed, treating as miss", map[string]any{
			"cache_key": g.cfg.Key,
			"error":     err,
		})
		return nil, false
	}
	if !ok || len(v) == 0 {
		return nil, false
	}
	return v, true
}

func (g *Guard) release(ctx context.Context, token []byte, log logger.Logger) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.cfg.ReleaseTimeout)
	defer cancel()

	released, err := g.store.CompareAndDelete(rctx, g.cfg.LockKey, token)
	switch {
	case err != nil:
		log.Warn("snapshot lock release failed, will expire by ttl", map[string]any{"error": err})
	case !released:
		log.Warn("snapshot lock expired before release", map[string]any{"lock_ttl": g.cfg.LockTTL.String()})
	}
}

// safePopulate convierte un panic en error para que el lock se libere
// y singleflight no vuelva a lanzar el panic en otra goroutine.
func safePopulate(ctx context.Context, populate func(ctx context.Context) ([]byte, error)) (v []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("snapshot populate panicked: %v", r)
		}
	}()
	return populate(ctx)
}
