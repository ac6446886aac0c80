package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// tag index sets outlive the longest entry TTL so a late invalidation still
// finds the keys; entries themselves expire via Redis TTL.
const tagIndexTTL = time.Hour

// RedisStore is a TagStore backed by a shared Redis instance. Entries are
// plain string keys with a TTL; each tag keeps a Redis set of member keys
// under "tag:<name>" that InvalidateTag deletes in one round trip.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a store talking to the Redis instance at addr.
func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	return &RedisStore{client: rdb, keyPrefix: "inkwell:"}
}

// NewRedisStoreWithClient allows wiring with an existing client (tests).
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, keyPrefix: "inkwell:"}
}

func (s *RedisStore) entryKey(key string) string { return s.keyPrefix + "entry:" + key }
func (s *RedisStore) tagKey(tag string) string   { return s.keyPrefix + "tag:" + tag }

func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := s.client.Get(ctx, s.entryKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.entryKey(key), value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, s.tagKey(tag), s.entryKey(key))
		pipe.Expire(ctx, s.tagKey(tag), tagIndexTTL)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) InvalidateTag(ctx context.Context, tag string) error {
	keys, err := s.client.SMembers(ctx, s.tagKey(tag)).Result()
	if err == redis.Nil || (err == nil && len(keys) == 0) {
		return s.client.Del(ctx, s.tagKey(tag)).Err()
	}
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.Del(ctx, s.tagKey(tag))
	_, err = pipe.Exec(ctx)
	return err
}

// HealthPing reports Redis connectivity.
func (s *RedisStore) HealthPing(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
