// Package sessions stores the server side of refresh tokens in Redis: one
// unique id per user, expiring with the refresh token itself. Rotating or
// deleting the id invalidates every refresh token minted before.
package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scribe-blog/scribe/internal/common"
)

type Repository interface {
	Set(ctx context.Context, userId int, uniqueId string, ttl time.Duration) error
	Get(ctx context.Context, userId int) (string, error)
	Del(ctx context.Context, userId int) error
}

type RedisRepository struct {
	client *redis.Client
}

func NewRedisRepository(client *redis.Client) *RedisRepository {
	return &RedisRepository{client: client}
}

func key(userId int) string {
	return fmt.Sprintf("refresh:%d", userId)
}

func (r *RedisRepository) Set(ctx context.Context, userId int, uniqueId string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key(userId), uniqueId, ttl).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}

func (r *RedisRepository) Get(ctx context.Context, userId int) (string, error) {
	uniqueId, err := r.client.Get(ctx, key(userId)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", common.ErrNotFound
		}
		return "", fmt.Errorf("redis error: %w", err)
	}
	return uniqueId, nil
}

func (r *RedisRepository) Del(ctx context.Context, userId int) error {
	if err := r.client.Del(ctx, key(userId)).Err(); err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	return nil
}
