package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps carts in Redis so they survive restarts and are shared
// across instances
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects a cart store to Redis
func NewRedisStore(addr string, password string, db int, ttl time.Duration) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisStore{client: client, ttl: ttl}
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func cartKey(clientID uint) string {
	return fmt.Sprintf("cart:%d", clientID)
}

func (s *RedisStore) Get(ctx context.Context, clientID uint) (Cart, error) {
	val, err := s.client.Get(ctx, cartKey(clientID)).Result()
	if err == redis.Nil {
		return Cart{}, nil
	}
	if err != nil {
		return nil, err
	}

	var c Cart
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *RedisStore) Save(ctx context.Context, clientID uint, c Cart) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(clientID), payload, s.ttl).Err()
}

func (s *RedisStore) Clear(ctx context.Context, clientID uint) error {
	return s.client.Del(ctx, cartKey(clientID)).Err()
}
