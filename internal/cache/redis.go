package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

var _ Store = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if s.client == nil {
		return nil, false, ErrNotConfigured
	}
	value, err := s.client.Get(ctx, valueKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return value, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration, tags ...string) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, valueKey(key), value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), key)
		if ttl > 0 {
			pipe.Expire(ctx, tagKey(tag), ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) InvalidateTags(ctx context.Context, tags ...string) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	for _, tag := range tags {
		keys, err := s.client.SMembers(ctx, tagKey(tag)).Result()
		if err != nil && err != redis.Nil {
			return err
		}
		doomed := make([]string, 0, len(keys)+1)
		for _, key := range keys {
			doomed = append(doomed, valueKey(key))
		}
		doomed = append(doomed, tagKey(tag))
		if err := s.client.Del(ctx, doomed...).Err(); err != nil {
			return err
		}
	}
	return nil
}

func valueKey(key string) string {
	return fmt.Sprintf("cache:%s", key)
}

func tagKey(tag string) string {
	return fmt.Sprintf("cache_tag:%s", tag)
}
