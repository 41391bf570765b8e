// Package cache keeps serialized product details in redis.
//
// Entries are stored under a per-product version. Invalidate bumps the version instead of deleting
// the entry, so a reader that loaded rows before a write can only repopulate the old version, which
// nobody reads any more and which expires with the TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is not cached.
var ErrMiss = errors.New("cache miss")

const keyPrefix = "catalog:product:"

// ProductCache stores JSON documents keyed by product ID and version.
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Config holds redis connection details.
type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

// New connects to redis and checks the connection.
func New(ctx context.Context, cfg Config) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return NewWithClient(client, cfg.TTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func versionKey(id string) string {
	return keyPrefix + id + ":version"
}

func entryKey(id string, version int64) string {
	return fmt.Sprintf("%s%s:v%d", keyPrefix, id, version)
}

// Version returns the current version of id. Products never invalidated are at version 0.
func (c *ProductCache) Version(ctx context.Context, id string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis GET version of %s: %w", id, err)
	}
	return v, nil
}

// Get decodes the document cached for id at version into dst.
func (c *ProductCache) Get(ctx context.Context, id string, version int64, dst interface{}) error {
	data, err := c.client.Get(ctx, entryKey(id, version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return fmt.Errorf("redis GET %s: %w", id, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode cached product %s: %w", id, err)
	}
	return nil
}

// Set stores value for id at version for the configured TTL.
func (c *ProductCache) Set(ctx context.Context, id string, version int64, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode product %s for caching: %w", id, err)
	}
	if err := c.client.Set(ctx, entryKey(id, version), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis SET %s: %w", id, err)
	}
	return nil
}

// Invalidate moves id to a new version and drops the entry of the old one.
func (c *ProductCache) Invalidate(ctx context.Context, id string) error {
	next, err := c.client.Incr(ctx, versionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("redis INCR version of %s: %w", id, err)
	}
	if err := c.client.Del(ctx, entryKey(id, next-1)).Err(); err != nil {
		return fmt.Errorf("redis DEL %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying client.
func (c *ProductCache) Close() error {
	return c.client.Close()
}
