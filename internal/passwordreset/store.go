// Package passwordreset keeps the ledger of issued password reset tokens so
// each token can be redeemed exactly once.
package passwordreset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrTokenNotFound = errors.New("reset token not found or already used")

type Store interface {
	// Save records a token id for userID, valid for ttl.
	Save(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error
	// Consume atomically redeems a token id and returns its user.
	Consume(ctx context.Context, jti string) (uuid.UUID, error)
}

const keyPrefix = "pwreset:"

type RedisStore struct {
	rdb *redis.Client
}

// NewRedisClient parses a redis:// URL and pings the server.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Save(ctx context.Context, jti string, userID uuid.UUID, ttl time.Duration) error {
	ok, err := s.rdb.SetNX(ctx, keyPrefix+jti, userID.String(), ttl).Result()
	if err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if !ok {
		return fmt.Errorf("reset token %s already issued", jti)
	}
	return nil
}

func (s *RedisStore) Consume(ctx context.Context, jti string) (uuid.UUID, error) {
	val, err := s.rdb.GetDel(ctx, keyPrefix+jti).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrTokenNotFound
		}
		return uuid.Nil, fmt.Errorf("redeem reset token: %w", err)
	}

	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("corrupt reset token entry: %w", err)
	}
	return id, nil
}
