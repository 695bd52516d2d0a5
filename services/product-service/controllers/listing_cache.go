package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/kushalmahawar2005/Gopi-Misthan-Bhandar-sub000/services/product-service/models"
)

const (
	listingKeyPrefix = "catalog:listing:"
	generationKey    = "catalog:generation"
)

// CacheManager keeps the storefront listing in redis under a generation
// number. Invalidate bumps the generation, which orphans every older entry
// until its TTL runs out. A nil *CacheManager caches nothing.
type CacheManager struct {
	redis redis.Cmdable
	ttl   time.Duration
	async func(func())
}

func NewCacheManager(rdb redis.Cmdable) *CacheManager {
	return &CacheManager{redis: rdb, ttl: DefaultCacheTTL, async: func(f func()) { go f() }}
}

func (cm *CacheManager) generation(ctx context.Context) (int64, error) {
	gen, err := cm.redis.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func listingKey(gen int64) string {
	return listingKeyPrefix + strconv.FormatInt(gen, 10)
}

// GetProductList returns the listing cached for the current generation.
func (cm *CacheManager) GetProductList(ctx context.Context) ([]models.ProductRecord, bool) {
	if cm == nil {
		return nil, false
	}
	gen, err := cm.generation(ctx)
	if err != nil {
		return nil, false
	}
	raw, err := cm.redis.Get(ctx, listingKey(gen)).Bytes()
	if err != nil {
		return nil, false
	}
	var products []models.ProductRecord
	if err := json.Unmarshal(raw, &products); err != nil {
		zap.L().Warn("Discarding unreadable cached listing", zap.Error(err))
		return nil, false
	}
	return products, true
}

// SetProductListAsync stores products off the request path.
func (cm *CacheManager) SetProductListAsync(products []models.ProductRecord) {
	if cm == nil {
		return
	}
	cm.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		gen, err := cm.generation(ctx)
		if err != nil {
			return
		}
		b, err := json.Marshal(products)
		if err != nil {
			return
		}
		if err := cm.redis.Set(ctx, listingKey(gen), b, cm.ttl).Err(); err != nil {
			zap.L().Warn("Failed to cache product listing", zap.Error(err))
		}
	})
}

// Invalidate moves to the next generation.
func (cm *CacheManager) Invalidate(ctx context.Context) error {
	if cm == nil {
		return nil
	}
	gen, err := cm.redis.Incr(ctx, generationKey).Result()
	if err != nil {
		return err
	}
	zap.L().Info("Catalog cache invalidated", zap.Int64("generation", gen))
	return nil
}
