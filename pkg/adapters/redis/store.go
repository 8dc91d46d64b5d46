// Package redis implements core.Store on Redis strings.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aretw0/folio/pkg/core"
)

// ErrEmptyAddress is returned when no Redis address is configured.
var ErrEmptyAddress = errors.New("redis address is required")

// connectionTimeout bounds the ping issued by Initialize.
const connectionTimeout = 5 * time.Second

// Config holds the Redis connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
	Prefix   string // prepended to every key, e.g. "folio:"
	Logger   *slog.Logger
}

// Store stores each key as a Redis string.
type Store struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
	owned  bool
}

// NewStore creates a Store with its own client.
func NewStore(cfg Config) (*Store, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	s := NewStoreFromClient(client, cfg.Prefix, cfg.Logger)
	s.owned = true
	return s, nil
}

// NewStoreFromClient wraps an existing client. Close leaves it open.
func NewStoreFromClient(client *redis.Client, prefix string, logger *slog.Logger) *Store {
	return &Store{client: client, prefix: prefix, logger: logger}
}

func (s *Store) key(k string) string {
	return s.prefix + k
}

// Initialize verifies the connection.
func (s *Store) Initialize(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	if s.logger != nil {
		s.logger.Debug("store write", "key", s.key(key), "bytes", len(value))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Incr atomically adds n to the integer stored at key.
func (s *Store) Incr(ctx context.Context, key string, n int64) (int64, error) {
	v, err := s.client.IncrBy(ctx, s.key(key), n).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incrby %s: %w", key, err)
	}
	return v, nil
}

// Close closes the client if the Store created it.
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}

var _ core.Store = (*Store)(nil)
