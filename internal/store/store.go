// Package store persists settings, cache and history documents as JSON
// values under flat string keys.
package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Store is a persistent key/value store holding JSON documents.
type Store interface {
	// Get decodes the value stored under key into dst. It reports false
	// when the key does not exist.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set encodes v as JSON and stores it under key.
	Set(ctx context.Context, key string, v any) error
	// Remove deletes the given keys. Missing keys are ignored.
	Remove(ctx context.Context, keys ...string) error
	// All returns every stored key with its raw JSON value.
	All(ctx context.Context) (map[string]json.RawMessage, error)
	Close() error
}

// Config selects and configures a Store backend.
type Config struct {
	Driver string      `mapstructure:"driver"`
	Path   string      `mapstructure:"path"`
	Redis  RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// Open builds the backend named by cfg.Driver.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "sqlite":
		return NewSQLite(cfg.Path)
	case "redis":
		return DialRedis(ctx, cfg.Redis)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.Driver)
	}
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return data, nil
}

func decode(key string, data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}
