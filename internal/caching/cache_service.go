package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront"

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// CacheService is a read-through cache for catalog reads. A miss is reported
// as (nil, nil).
type CacheService interface {
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error

	GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error)
	SetCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, categoryID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client RedisClient
	ttl    time.Duration
}

func NewRedisCacheService(client RedisClient, ttl time.Duration) CacheService {
	return &redisCacheService{client: client, ttl: ttl}
}

// NewRedisClient builds the go-redis client from connection settings.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func productKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:product:%s", keyPrefix, id)
}

func categoryKey(id uuid.UUID) string {
	return fmt.Sprintf("%s:category:%s", keyPrefix, id)
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	hit, err := r.get(ctx, productKey(productID), &product)
	if err != nil || !hit {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product) error {
	return r.set(ctx, productKey(product.ID), product)
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	return r.client.Del(ctx, productKey(productID)).Err()
}

func (r *redisCacheService) GetCategory(ctx context.Context, categoryID uuid.UUID) (*models.Category, error) {
	var category models.Category
	hit, err := r.get(ctx, categoryKey(categoryID), &category)
	if err != nil || !hit {
		return nil, err
	}
	return &category, nil
}

func (r *redisCacheService) SetCategory(ctx context.Context, category *models.Category) error {
	return r.set(ctx, categoryKey(category.ID), category)
}

func (r *redisCacheService) DeleteCategory(ctx context.Context, categoryID uuid.UUID) error {
	return r.client.Del(ctx, categoryKey(categoryID)).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCacheService) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, r.ttl).Err()
}

type noopCacheService struct{}

// NewNoopCacheService returns a cache that never hits. It is used when Redis
// is not configured.
func NewNoopCacheService() CacheService {
	return noopCacheService{}
}

func (noopCacheService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, nil
}
func (noopCacheService) SetProduct(context.Context, *models.Product) error   { return nil }
func (noopCacheService) DeleteProduct(context.Context, uuid.UUID) error      { return nil }
func (noopCacheService) SetCategory(context.Context, *models.Category) error { return nil }
func (noopCacheService) DeleteCategory(context.Context, uuid.UUID) error     { return nil }
func (noopCacheService) Ping(context.Context) error                          { return nil }
func (noopCacheService) GetCategory(context.Context, uuid.UUID) (*models.Category, error) {
	return nil, nil
}
