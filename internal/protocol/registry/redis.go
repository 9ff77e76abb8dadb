package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"uniagendas/pkg/platform/sentinel"
)

// KeyPrefix namespaces reservation keys.
const KeyPrefix = "uniagendas:protocol:"

// Redis reserves codes with SET NX so every server instance shares one
// view of issued protocols.
type Redis struct {
	client redis.UniversalClient
}

func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{client: client}
}

func (s *Redis) Reserve(ctx context.Context, code string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, KeyPrefix+code, 1, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("reserve protocol %s: %w: %w", code, sentinel.ErrUnavailable, err)
	}
	return ok, nil
}

func (s *Redis) Release(ctx context.Context, code string) error {
	if err := s.client.Del(ctx, KeyPrefix+code).Err(); err != nil {
		return fmt.Errorf("release protocol %s: %w: %w", code, sentinel.ErrUnavailable, err)
	}
	return nil
}
