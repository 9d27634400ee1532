package spool

import (
	"context"
	"errors"
	"time"

	"github.com/pixelvide/mailflow/pkg/config"
	goredis "github.com/redis/go-redis/v9"
)

// RedisSpool stores payloads in a Redis list.
type RedisSpool struct {
	client *goredis.Client
	key    string
}

// NewRedisSpool creates a spool over the list at key.
func NewRedisSpool(cfg config.RedisConfig, key string) *RedisSpool {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisSpool{client: rdb, key: key}
}

// NewRedisSpoolWithClient creates a spool over the list at key, reusing an
// existing client.
func NewRedisSpoolWithClient(client *goredis.Client, key string) *RedisSpool {
	return &RedisSpool{client: client, key: key}
}

// Client exposes the underlying connection, e.g. for the scheduler lock.
func (s *RedisSpool) Client() *goredis.Client {
	return s.client
}

// Push appends the payload to the list.
func (s *RedisSpool) Push(ctx context.Context, payload []byte) error {
	return s.client.RPush(ctx, s.key, payload).Err()
}

// Pop blocks up to wait for the oldest payload. go-redis BLPOP respects the
// context, so cancellation works even with a long wait.
func (s *RedisSpool) Pop(ctx context.Context, wait time.Duration) ([]byte, error) {
	result, err := s.client.BLPop(ctx, wait, s.key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, ErrEmpty
		}
		return nil, err
	}
	// BLPOP returns [key, value].
	if len(result) < 2 {
		return nil, ErrEmpty
	}
	return []byte(result[1]), nil
}
