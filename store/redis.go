package store

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/propsight/tagging"
)

// RedisOptions configures the Redis persistence medium.
type RedisOptions struct {
	// URL is the Redis connection string (e.g., "redis://localhost:6379")
	URL string

	// TLS configuration for secure connections
	TLS *tls.Config

	// ConnectTimeout is the maximum time to wait for connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout is the maximum time to wait for read operations
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait for write operations
	WriteTimeout time.Duration
}

// RedisMedium implements Medium on top of go-redis/v9. Snapshots are plain
// string values under the store's fixed keys.
type RedisMedium struct {
	client *redis.Client
}

// NewRedisMedium creates a Redis-backed medium and verifies connectivity.
func NewRedisMedium(opts RedisOptions) (*RedisMedium, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.ReadTimeout == 0 {
		opts.ReadTimeout = 30 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.ReadTimeout = opts.ReadTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisMedium{client: client}, nil
}

// Read returns the payload stored under key.
func (m *RedisMedium) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := m.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, tagging.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tagging.ErrStorageFailed, err)
	}
	return data, nil
}

// Write stores the payload under key with no expiry.
func (m *RedisMedium) Write(ctx context.Context, key string, data []byte) error {
	if err := m.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", tagging.ErrStorageFailed, err)
	}
	return nil
}

// Close closes the Redis connection.
func (m *RedisMedium) Close() error {
	return m.client.Close()
}
