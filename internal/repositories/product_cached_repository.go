package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"productapi/internal/models"
)

const (
	// AllProductsCacheKey holds the JSON encoded product list.
	AllProductsCacheKey = "products:all"
	productCachePrefix  = "product:"

	// InvalidatedCacheValue marks a key a write has just invalidated.
	// Reads treat it as a miss and never overwrite it.
	InvalidatedCacheValue = "invalidated"
	// InvalidationHold is how long an invalidation marker lives.
	InvalidationHold = 30 * time.Second
)

// ProductCacheKey returns the cache key for a single product.
func ProductCacheKey(id int64) string {
	return fmt.Sprintf("%s%d", productCachePrefix, id)
}

// CachedProductRepository wraps a ProductRepository with a Redis read-through cache.
// Cache failures are logged and never surface to callers.
//
// Writes replace the affected keys with InvalidatedCacheValue and reads fill
// keys with SETNX, so a read that started before a write cannot put the old
// row back.
type CachedProductRepository struct {
	next  ProductRepository
	redis *redis.Client
	ttl   time.Duration
}

// NewCachedProductRepository creates a new instance of CachedProductRepository.
func NewCachedProductRepository(next ProductRepository, client *redis.Client, ttl time.Duration) *CachedProductRepository {
	return &CachedProductRepository{
		next:  next,
		redis: client,
		ttl:   ttl,
	}
}

// GetAll returns the cached list or loads and caches it.
func (r *CachedProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if r.load(ctx, AllProductsCacheKey, &products) {
		return products, nil
	}

	products, err := r.next.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, AllProductsCacheKey, products)
	return products, nil
}

// GetByID returns the cached product or loads and caches it.
func (r *CachedProductRepository) GetByID(ctx context.Context, id int64) (*models.Product, error) {
	key := ProductCacheKey(id)
	var product models.Product
	if r.load(ctx, key, &product) {
		return &product, nil
	}

	found, err := r.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, key, found)
	return found, nil
}

// Create inserts the product and drops the cached list.
func (r *CachedProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.next.Create(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, AllProductsCacheKey)
	return nil
}

// Update writes the product and drops its cache entries.
func (r *CachedProductRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.next.Update(ctx, product); err != nil {
		return err
	}
	r.invalidate(ctx, AllProductsCacheKey, ProductCacheKey(int64(product.ID)))
	return nil
}

// Delete removes the product and drops its cache entries.
func (r *CachedProductRepository) Delete(ctx context.Context, id int64) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, AllProductsCacheKey, ProductCacheKey(id))
	return nil
}

func (r *CachedProductRepository) load(ctx context.Context, key string, dst any) bool {
	data, err := r.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Cache read failed for %s: %v", key, err)
		}
		return false
	}
	if string(data) == InvalidatedCacheValue {
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		log.Printf("Cache entry %s is corrupt: %v", key, err)
		return false
	}
	return true
}

func (r *CachedProductRepository) store(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Failed to encode cache entry %s: %v", key, err)
		return
	}
	if err := r.redis.SetNX(ctx, key, data, r.ttl).Err(); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
}

func (r *CachedProductRepository) invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := r.redis.Set(ctx, key, InvalidatedCacheValue, InvalidationHold).Err(); err != nil {
			log.Printf("Cache invalidation failed for %s: %v", key, err)
		}
	}
}
