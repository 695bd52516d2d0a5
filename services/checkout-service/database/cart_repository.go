package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/checkout-service/models"
)

// CartRepository stores carts as JSON under cart:user:<id>.
type CartRepository struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewCartRepository(client redis.Cmdable, ttl time.Duration) *CartRepository {
	return &CartRepository{client: client, ttl: ttl}
}

func cartKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func idemKey(key string) string {
	return "idem:checkout:" + key
}

// GetCart returns the stored cart or an empty one.
func (r *CartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, cartKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{UserID: userID, Items: []models.CartLine{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart %s: %w", userID, err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("decode cart %s: %w", userID, err)
	}
	if cart.Items == nil {
		cart.Items = []models.CartLine{}
	}
	return &cart, nil
}

func (r *CartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, cartKey(cart.UserID), data, r.ttl).Err()
}

func (r *CartRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.client.Del(ctx, cartKey(userID)).Err()
}

// GetIdempotency returns the order id recorded for key, or "" when none.
func (r *CartRepository) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, idemKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *CartRepository) SetIdempotency(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, idemKey(key), orderID, ttl).Err()
}
