package cache

import (
	"context"
	"time"
)

// Store es el backend clave/valor compartido por snapshot y lock.
// Memory sirve para un solo proceso; Redis/Postgres para varios.
type Store interface {
	// Get devuelve (nil, false, nil) si la clave no existe o expiró.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNX escribe solo si la clave no existe (o expiró). Debe ser atómico.
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// CompareAndDelete borra la clave solo si su valor actual es value.
	CompareAndDelete(ctx context.Context, key string, value []byte) (bool, error)
}
