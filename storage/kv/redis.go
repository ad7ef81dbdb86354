package kv

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/shulehub/shule/core"
)

// RedisStore backs core.KVStore with a Redis instance. Values persist with no
// TTL; freshness is enforced by the cache layer on top of the store.
type RedisStore struct {
	client *redis.Client
}

var _ core.KVStore = (*RedisStore)(nil)

func NewRedisStore(url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(err, "parsing redis url")
	}
	return &RedisStore{client: redis.NewClient(opts)}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, core.ErrKeyNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "getting key %q", key)
	}
	return val, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "setting key %q", key)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "deleting key %q", key)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
