package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	redis "github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces every key this client writes.
const redisKeyPrefix = "krypt"

func redisCountKey() string {
	return fmt.Sprintf("%s:%s", redisKeyPrefix, CountKey)
}

// RedisStore keeps the count in a shared redis instance.
type RedisStore struct {
	conn *redis.Client
}

var _ CountStore = (*RedisStore)(nil)

// NewRedisStore connects to redis and pings it.
func NewRedisStore(ctx context.Context, addr, username, password string, db int) (*RedisStore, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}

	return &RedisStore{conn: conn}, nil
}

func (s *RedisStore) Close() error {
	return s.conn.Close()
}

func (s *RedisStore) LoadCount(ctx context.Context) (uint64, bool, error) {
	val, err := s.conn.Get(ctx, redisCountKey()).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	count, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("parse %s: %w", redisCountKey(), err)
	}
	return count, true, nil
}

// SaveCount stores the count with no expiration.
func (s *RedisStore) SaveCount(ctx context.Context, count uint64) error {
	return s.conn.Set(ctx, redisCountKey(), count, 0).Err()
}
