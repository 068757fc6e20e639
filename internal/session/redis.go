package session

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/doisellos/storefront/internal/booking"
	"github.com/doisellos/storefront/pkg/logging"
)

const (
	keyPrefix        = "booking:session:"
	maxUpdateRetries = 5
)

// RedisStore keeps states in Redis so several API instances can share
// sessions. Updates use WATCH/MULTI and retry on conflicts.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing client. A zero ttl keeps keys forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if client == nil {
		panic("session: redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (r *RedisStore) Create(ctx context.Context, s *booking.State) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	ok, err := r.client.SetNX(ctx, key(s.ID), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("session: redis create: %w", err)
	}
	if !ok {
		return fmt.Errorf("session: id %s already exists", s.ID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*booking.State, error) {
	raw, err := r.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, booking.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}
	return decode(raw)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*booking.State) error) (*booking.State, error) {
	k := key(id)
	var out *booking.State

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			return booking.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("session: redis get: %w", err)
		}
		st, err := decode(raw)
		if err != nil {
			return err
		}
		if err := fn(st); err != nil {
			return err
		}
		encoded, err := json.Marshal(st)
		if err != nil {
			return fmt.Errorf("session: encode: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, k, encoded, r.ttl)
			return nil
		})
		if err == nil {
			out = st
		}
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := r.client.Watch(ctx, txf, k)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("session: update %s: too many concurrent writers", id)
}

// Options configures NewRedisClient.
type Options struct {
	Addr     string
	Password string
	TLS      bool
}

// NewRedisClient builds a client, pinging it when verify is set. It returns
// nil when the address is empty or the ping fails so callers can fall back
// to the memory store.
func NewRedisClient(ctx context.Context, opts Options, logger *logging.Logger, verify bool) *redis.Client {
	if strings.TrimSpace(opts.Addr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	redisOptions := &redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
	}
	if opts.TLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
