package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"
)

// keyPrefix namespaces validator entries in a shared Redis instance.
const keyPrefix = "wanikani:validator:"

// RedisConfig holds the Redis-backed store configuration.
type RedisConfig struct {
	// Addr is the Redis server address in "host:port" format.
	Addr string

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number.
	DB int

	// TTL bounds the lifetime of stored validators. Validators for
	// long-dead requests are worthless, so entries expire rather than
	// accumulate. Zero means 24 hours.
	TTL time.Duration

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration
}

// DefaultRedisConfig returns sensible defaults for a local Redis.
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "localhost:6379",
		TTL:         24 * time.Hour,
		DialTimeout: 5 * time.Second,
	}
}

// Redis is a validator store backed by a shared Redis instance. It lets
// multiple processes holding the same token share one validator baseline, at
// the cost of a network hop per lookup.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis creates a Redis-backed store and verifies the connection.
func NewRedis(cfg RedisConfig) (*Redis, error) {
	if cfg.TTL == 0 {
		cfg.TTL = 24 * time.Hour
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}

	return &Redis{client: client, ttl: cfg.TTL}, nil
}

// NewRedisWithClient wraps an existing client, for callers that manage their
// own connection pool.
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	if ttl == 0 {
		ttl = 24 * time.Hour
	}
	return &Redis{client: client, ttl: ttl}
}

// Close closes the underlying connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// redisKey hashes the request identity into a fixed-width key. Collection
// URLs carry arbitrary filter query strings, so the raw key is unbounded;
// BLAKE2b collapses it to 32 bytes.
func redisKey(key Key) string {
	sum := blake2b.Sum256([]byte(key.String()))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Load implements Store.
func (r *Redis) Load(ctx context.Context, key Key) (*Entry, bool, error) {
	raw, err := r.client.Get(ctx, redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStore, err)
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return &entry, true, nil
}

// Save implements Store.
func (r *Redis) Save(ctx context.Context, key Key, entry *Entry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	if err := r.client.Set(ctx, redisKey(key), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
	}
	return nil
}
