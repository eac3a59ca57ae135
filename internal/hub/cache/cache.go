// Package cache provides the short-lived key/value cache used to avoid a
// store round-trip per vote when resolving targets. It is never consulted for
// authorization decisions.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrNotFound = errors.New("cache: key not found")

// Cache is a byte-valued TTL cache. A zero ttl on Set uses the driver's
// default expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Config selects and configures a driver.
type Config struct {
	Driver     string // "memory" | "redis"
	DefaultTTL time.Duration
	Prefix     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New returns the cache named by cfg.Driver. An empty driver means memory.
func New(ctx context.Context, cfg Config) (Cache, error) {
	if cfg.DefaultTTL <= 0 {
		cfg.DefaultTTL = time.Minute
	}

	switch strings.ToLower(cfg.Driver) {
	case "", "memory":
		return NewMemory(cfg.DefaultTTL, cfg.Prefix), nil
	case "redis":
		return NewRedis(ctx, cfg)
	default:
		return nil, fmt.Errorf("cache: unknown driver %q", cfg.Driver)
	}
}

func prefixed(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}
