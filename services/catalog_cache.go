package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/restaurant-api/models"
	"github.com/yeremiapane/restaurant-api/utils"
)

const catalogCacheKey = "catalog:fooditems"

// CatalogCache is a read-through cache for the public food-item list.
// A nil *CatalogCache is valid and always misses.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if client == nil {
		return nil
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// Get -> cached list, ok=false on miss or on any redis problem
func (cc *CatalogCache) Get(ctx context.Context) ([]models.FoodItem, bool) {
	if cc == nil {
		return nil, false
	}
	data, err := cc.client.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			utils.ErrorLogger.Errorf("catalog cache get: %v", err)
		}
		return nil, false
	}

	var items []models.FoodItem
	if err := json.Unmarshal(data, &items); err != nil {
		utils.ErrorLogger.Errorf("catalog cache decode: %v", err)
		return nil, false
	}
	return items, true
}

func (cc *CatalogCache) Set(ctx context.Context, items []models.FoodItem) {
	if cc == nil {
		return
	}
	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := cc.client.Set(ctx, catalogCacheKey, data, cc.ttl).Err(); err != nil {
		utils.ErrorLogger.Errorf("catalog cache set: %v", err)
	}
}

// Invalidate -> called after every catalog write
func (cc *CatalogCache) Invalidate(ctx context.Context) {
	if cc == nil {
		return
	}
	if err := cc.client.Del(ctx, catalogCacheKey).Err(); err != nil {
		utils.ErrorLogger.Errorf("catalog cache invalidate: %v", err)
	}
}
