package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

type Config struct {
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	PetstablishedBaseURL   string
	PetstablishedPublicKey string
	PetstablishedTimeout   time.Duration
	PetstablishedPageSize  int
	PetstablishedMaxPages  int
	PetstablishedRPS       float64

	CacheBackend  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DBDSN         string

	CachePrefix      string
	SnapshotTTL      time.Duration
	LockTTL          time.Duration
	LockPollInterval time.Duration
	LockPollAttempts int

	DefaultPerPage int
}

// Load lee .env (si existe) y luego las variables de entorno.
func Load() Config {
	_ = godotenv.Load()

	addr := ":8080"
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		addr = ":" + v
	}

	cfg := Config{
		HTTPAddr:        addr,
		ReadTimeout:     durationOrDefault("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    durationOrDefault("HTTP_WRITE_TIMEOUT", 30*time.Second),
		IdleTimeout:     durationOrDefault("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: durationOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),

		PetstablishedBaseURL:   envOrDefault("PETSTABLISHED_BASE_URL", "https://petstablished.com/api/v2/public/pets"),
		PetstablishedPublicKey: strings.TrimSpace(os.Getenv("PETSTABLISHED_PUBLIC_KEY")),
		PetstablishedTimeout:   durationOrDefault("PETSTABLISHED_TIMEOUT", 10*time.Second),
		PetstablishedPageSize:  intOrDefault("PETSTABLISHED_PAGE_SIZE", 100),
		PetstablishedMaxPages:  intOrDefault("PETSTABLISHED_MAX_PAGES", 20),
		PetstablishedRPS:       floatOrDefault("PETSTABLISHED_RPS", 5),

		CacheBackend:  strings.ToLower(strings.TrimSpace(os.Getenv("CACHE_BACKEND"))),
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       intOrDefault("REDIS_DB", 0),
		DBDSN:         strings.TrimSpace(os.Getenv("DB_DSN")),

		CachePrefix:      envOrDefault("CACHE_PREFIX", "barbs"),
		SnapshotTTL:      durationOrDefault("SNAPSHOT_TTL", time.Hour),
		LockTTL:          durationOrDefault("LOCK_TTL", 45*time.Second),
		LockPollInterval: durationOrDefault("LOCK_POLL_INTERVAL", 100*time.Millisecond),
		LockPollAttempts: intOrDefault("LOCK_POLL_ATTEMPTS", 30),

		DefaultPerPage: intOrDefault("DEFAULT_PER_PAGE", 24),
	}

	if cfg.CacheBackend == "" {
		cfg.CacheBackend = detectBackend(cfg)
	}
	return cfg
}

// Validate revisa lo mínimo para poder arrancar.
func (c Config) Validate() error {
	var errs []error
	if c.PetstablishedPublicKey == "" {
		errs = append(errs, errors.New("PETSTABLISHED_PUBLIC_KEY is required"))
	}
	if c.PetstablishedBaseURL == "" {
		errs = append(errs, errors.New("PETSTABLISHED_BASE_URL is required"))
	}
	if c.PetstablishedPageSize <= 0 {
		errs = append(errs, errors.New("PETSTABLISHED_PAGE_SIZE must be positive"))
	}
	switch c.CacheBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			errs = append(errs, errors.New("REDIS_ADDR is required for redis backend"))
		}
	case BackendPostgres:
		if c.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required for postgres backend"))
		}
	default:
		errs = append(errs, errors.New("CACHE_BACKEND must be memory, redis or postgres"))
	}
	if c.SnapshotTTL <= 0 || c.LockTTL <= 0 {
		errs = append(errs, errors.New("SNAPSHOT_TTL and LOCK_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func detectBackend(c Config) string {
	switch {
	case c.RedisAddr != "":
		return BackendRedis
	case c.DBDSN != "":
		return BackendPostgres
	default:
		return BackendMemory
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func durationOrDefault(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func intOrDefault(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func floatOrDefault(key string, fallback float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}
