package storage

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"

	"fanfeed/internal/observability"
)

const keyPrefix = "fanfeed:"

// New builds the Store for the given Redis address. An empty address, an
// unparsable URL, or a failed ping all degrade to the in-memory store; the
// client keeps working without persistence either way.
func New(redisURL string) Store {
	log := observability.Component("storage")

	if redisURL == "" {
		log.Info("no redis configured, using in-memory store")
		return NewMemory()
	}

	var opts *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			log.Warn("invalid redis url, using in-memory store", "error", err)
			observability.StoreFallbacks.Inc()
			return NewMemory()
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: redisURL}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, using in-memory store", "error", err)
		observability.StoreFallbacks.Inc()
		return NewMemory()
	}

	return &failoverStore{
		primary:  &redisStore{client: client},
		fallback: NewMemory(),
		log:      log,
	}
}

// redisStore persists values in Redis under the shared key prefix.
type redisStore struct {
	client *redis.Client
}

func (s *redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return v, err
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) Clear(ctx context.Context) error {
	keys, err := s.client.Keys(ctx, keyPrefix+"*").Result()
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.client.Del(ctx, keys...).Err()
}

// failoverStore serves from the primary until it fails, then switches to
// the fallback for the rest of the session. The switch is one-way: remixing
// two half-written backends would be worse than losing persistence.
type failoverStore struct {
	primary  Store
	fallback Store
	degraded atomic.Bool
	log      *observability.Logger
}

func (s *failoverStore) Get(ctx context.Context, key string) (string, error) {
	if s.degraded.Load() {
		return s.fallback.Get(ctx, key)
	}
	v, err := s.primary.Get(ctx, key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		s.degrade(err)
		return s.fallback.Get(ctx, key)
	}
	return v, err
}

func (s *failoverStore) Set(ctx context.Context, key, value string) error {
	if s.degraded.Load() {
		return s.fallback.Set(ctx, key, value)
	}
	if err := s.primary.Set(ctx, key, value); err != nil {
		s.degrade(err)
		return s.fallback.Set(ctx, key, value)
	}
	return nil
}

func (s *failoverStore) Delete(ctx context.Context, key string) error {
	if s.degraded.Load() {
		return s.fallback.Delete(ctx, key)
	}
	if err := s.primary.Delete(ctx, key); err != nil {
		s.degrade(err)
		return s.fallback.Delete(ctx, key)
	}
	return nil
}

func (s *failoverStore) Clear(ctx context.Context) error {
	if s.degraded.Load() {
		return s.fallback.Clear(ctx)
	}
	if err := s.primary.Clear(ctx); err != nil {
		s.degrade(err)
		return s.fallback.Clear(ctx)
	}
	return nil
}

func (s *failoverStore) degrade(err error) {
	if s.degraded.CompareAndSwap(false, true) {
		s.log.Warn("store degraded to memory", "error", err)
		observability.StoreFallbacks.Inc()
	}
}
