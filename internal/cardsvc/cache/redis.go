package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "cardsvc:cache:"

// RedisStore is the redis-backed TagStore. Entries live under value
// keys, tag membership under sets, and eviction deletes both in one
// pipeline.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func entryKey(key string) string { return redisKeyPrefix + "entry:" + key }
func tagKey(t Tag) string        { return redisKeyPrefix + "tag:" + t.name }

func (s *RedisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := s.rdb.Get(ctx, entryKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cached entry: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to decode cached entry: %w", err)
	}

	return &entry, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, entry *Entry, tags []Tag, ttl time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, entryKey(key), data, ttl)
		for _, tag := range tags {
			pipe.SAdd(ctx, tagKey(tag), key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}

	return nil
}

func (s *RedisStore) EvictTags(ctx context.Context, tags ...Tag) error {
	for _, tag := range tags {
		keys, err := s.rdb.SMembers(ctx, tagKey(tag)).Result()
		if err != nil {
			return fmt.Errorf("failed to read tag members: %w", err)
		}

		_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, key := range keys {
				pipe.Del(ctx, entryKey(key))
			}
			pipe.Del(ctx, tagKey(tag))
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to evict tag %s: %w", tag, err)
		}
	}

	return nil
}
