package shared

import (
	"context"
	"time"
)

// CacheRepository defines the caching contract used across services
type CacheRepository interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Close() error
}

// DBConnection defines the database connection contract
type DBConnection interface {
	Ping(ctx context.Context) error
	Close() error
}
