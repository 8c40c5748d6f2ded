package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sangkips/salonpro-api/internal/domain/cart"
	domainRepo "github.com/sangkips/salonpro-api/internal/domain/repository"
)

const cartKeyPrefix = "cart:"

// RedisCartStore keeps each staff member's cart as one JSON value.
// The key expires after ttl so abandoned carts clean themselves up.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a cart store; ttl <= 0 keeps carts forever
func NewRedisCartStore(client *redis.Client, ttl time.Duration) domainRepo.CartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

func cartKey(userID uuid.UUID) string {
	return cartKeyPrefix + userID.String()
}

func (s *RedisCartStore) Load(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		// A blob we cannot read is treated as no cart at all
		_ = s.client.Del(ctx, cartKey(userID)).Err()
		return nil, nil
	}
	if c.Items == nil {
		c.Items = []cart.Item{}
	}
	return &c, nil
}

func (s *RedisCartStore) Save(ctx context.Context, userID uuid.UUID, c *cart.Cart) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, cartKey(userID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.client.Del(ctx, cartKey(userID)).Err()
}
