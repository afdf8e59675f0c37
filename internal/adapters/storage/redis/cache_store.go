package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"barbs-dog-rescue/internal/ports/cache"
)

// CacheStore implementa cache.Store sobre Redis, compartido entre procesos.
type CacheStore struct {
	client goredis.Cmdable
	prefix string
}

var _ cache.Store = (*CacheStore)(nil)

func NewCacheStore(client goredis.Cmdable, prefix string) *CacheStore {
	normalized := strings.TrimSpace(prefix)
	if normalized == "" {
		normalized = "barbs:cache"
	}
	return &CacheStore{
		client: client,
		prefix: normalized,
	}
}

// Open crea el cliente y hace ping con timeout corto.
func Open(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func (s *CacheStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	k, err := s.key(key)
	if err != nil {
		return nil, false, err
	}
	raw, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	return raw, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, k, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

func (s *CacheStore) SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}
	ok, err := s.client.SetNX(ctx, k, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("cache setnx: %w", err)
	}
	return ok, nil
}

func (s *CacheStore) CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error) {
	k, err := s.key(key)
	if err != nil {
		return false, err
	}
	n, err := compareAndDeleteScript.Run(ctx, s.client, []string{k}, value).Int()
	if err != nil && !errors.Is(err, goredis.Nil) {
		return false, fmt.Errorf("cache compare-and-delete: %w", err)
	}
	return n == 1, nil
}

func (s *CacheStore) key(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("key required")
	}
	return s.prefix + ":" + key, nil
}

var compareAndDeleteScript = goredis.NewScript(`
local existing = redis.call("GET", KEYS[1])
if not existing then
  return 0
end
if existing == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)
