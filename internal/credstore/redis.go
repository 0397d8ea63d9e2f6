package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis stores the pair in two string keys, <prefix>:accessToken and
// <prefix>:refreshToken. Writes go through MULTI/EXEC and reads use MGET, so other
// clients never see half a pair.
type Redis struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis wraps an existing client.
func NewRedis(client redis.UniversalClient, prefix string) *Redis {
	if prefix == "" {
		prefix = "mealplan"
	}
	return &Redis{client: client, prefix: prefix}
}

// DialRedis returns a configured go-redis client from URL (e.g., redis://localhost:6379/0).
func DialRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, errors.New("empty redis url")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unavailable: %w", err)
	}
	return client, nil
}

func (r *Redis) key(name string) string { return r.prefix + ":" + name }

func (r *Redis) Save(ctx context.Context, p Pair) error {
	if !p.Complete() {
		return ErrIncomplete
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(KeyAccessToken), p.AccessToken, 0)
		pipe.Set(ctx, r.key(KeyRefreshToken), p.RefreshToken, 0)
		return nil
	})
	return err
}

func (r *Redis) Load(ctx context.Context) (Pair, error) {
	vals, err := r.client.MGet(ctx, r.key(KeyAccessToken), r.key(KeyRefreshToken)).Result()
	if err != nil {
		return Pair{}, err
	}
	var p Pair
	if s, ok := vals[0].(string); ok {
		p.AccessToken = s
	}
	if s, ok := vals[1].(string); ok {
		p.RefreshToken = s
	}
	if !p.Complete() {
		return Pair{}, ErrNotFound
	}
	return p, nil
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key(KeyAccessToken), r.key(KeyRefreshToken)).Err()
}
