// Package cache wraps Redis for the session denylist and rate limit counters.
package cache

import (
	"context"
	"crowdfunding/pkg/utils"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient initializes a redis client and checks the connection.
func NewRedisClient(ctx context.Context, config utils.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis failed: %w", err)
	}
	return rdb, nil
}

// RevocationStore remembers logged-out session ids until their tokens expire.
type RevocationStore interface {
	Revoke(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) error
	IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

type redisRevocationStore struct {
	rdb *redis.Client
}

func NewRevocationStore(rdb *redis.Client) RevocationStore {
	return &redisRevocationStore{rdb: rdb}
}

func revokedKey(sessionID uuid.UUID) string {
	return "session:revoked:" + sessionID.String()
}

func (s *redisRevocationStore) Revoke(ctx context.Context, sessionID uuid.UUID, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, revokedKey(sessionID), 1, ttl).Err()
}

func (s *redisRevocationStore) IsRevoked(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedKey(sessionID)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Counter is a fixed-window request counter.
type Counter interface {
	Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error)
}

type redisCounter struct {
	rdb *redis.Client
}

func NewCounter(rdb *redis.Client) Counter {
	return &redisCounter{rdb: rdb}
}

// Allow increments the window counter and reports whether it is still within limit.
func (c *redisCounter) Allow(ctx context.Context, resource, id string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf("rl:%s:%s", resource, id)

	// INCR and set EXPIRE if new
	cnt, err := c.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if cnt == 1 {
		if err := c.rdb.Expire(ctx, key, window).Err(); err != nil {
			return false, err
		}
	}
	return cnt <= int64(limit), nil
}
