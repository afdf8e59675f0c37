package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"barbs-dog-rescue/internal/ports/cache"
)

// CacheStore implementa cache.Store sobre la tabla cache_entries.
// Las expiraciones se comparan con now() del servidor, no del proceso.
type CacheStore struct {
	db     *sql.DB
	prefix string
}

var _ cache.Store = (*CacheStore)(nil)

func NewCacheStore(db *sql.DB, prefix string) *CacheStore {
	normalized := strings.TrimSpace(prefix)
	if normalized == "" {
		normalized = "barbs:cache"
	}
	return &CacheStore{db: db, prefix: normalized}
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, false, err
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, `
		SELECT value
		FROM cache_entries
		WHERE key = $1 AND expires_at > now()
	`, k).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return value, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, `+expiresAtExpr+`)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
	`, k, value, ttl.Milliseconds())
	if err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// SetNX inserta, o pisa una fila ya expirada. El ON CONFLICT serializa
// escritores concurrentes sobre la misma clave.
func (s *CacheStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, value, expires_at)
		VALUES ($1, $2, `+expiresAtExpr+`)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at
		WHERE cache_entries.expires_at <= now()
	`, k, value, ttl.Milliseconds())
	if err != nil {
		return false, fmt.Errorf("cache setnx: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("cache setnx rows: %w", err)
	}
	return n == 1, nil
}

func (s *CacheStore) CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM cache_entries
		WHERE key = $1 AND value = $2 AND expires_at > now()
	`, k, value)
	if err != nil {
		return false, fmt.Errorf("cache compare-and-delete: %w", err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

func (s *CacheStore) key(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("key required")
	}
	return s.prefix + ":" + key, nil
}

// ttl <= 0 significa sin expiración
const expiresAtExpr = `CASE WHEN $3::bigint > 0 THEN now() + ($3::bigint * interval '1 millisecond') ELSE 'infinity'::timestamptz END`
