package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "portal:session:"

// RedisStorage 每个门户会话对应一个 Hash：portal:session:{id}
type RedisStorage struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRedisStorage(client *redis.Client, sessionID string, ttl time.Duration) *RedisStorage {
	return &RedisStorage{
		client: client,
		key:    sessionKey(sessionID),
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

func (r *RedisStorage) Get(ctx context.Context, field string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", field, err)
	}
	return v, true, nil
}

func (r *RedisStorage) Set(ctx context.Context, field, value string) error {
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, r.key, field, value)
	if r.ttl > 0 {
		pipe.Expire(ctx, r.key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset %s: %w", field, err)
	}
	return nil
}

func (r *RedisStorage) Remove(ctx context.Context, field string) error {
	if err := r.client.HDel(ctx, r.key, field).Err(); err != nil {
		return fmt.Errorf("redis hdel %s: %w", field, err)
	}
	return nil
}

// Touch 延长会话过期时间
func (r *RedisStorage) Touch(ctx context.Context) error {
	if r.ttl <= 0 {
		return nil
	}
	return r.client.Expire(ctx, r.key, r.ttl).Err()
}
