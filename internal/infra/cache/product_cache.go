package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domproduct "example.com/shop-core/internal/domain/product"
)

// ProductCache is a read-through decorator over the product repository.
// Single-product reads are served from redis when possible; writes pass
// through and invalidate. List queries always hit the database.
type ProductCache struct {
	inner domproduct.Repository
	rdb   *redis.Client
	ttl   time.Duration
}

func NewProductCache(inner domproduct.Repository, rdb *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *ProductCache) key(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (c *ProductCache) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	if raw, err := c.rdb.Get(ctx, c.key(id)).Result(); err == nil {
		var p domproduct.Product
		if err := json.Unmarshal([]byte(raw), &p); err == nil {
			return &p, nil
		}
		// Unreadable entry: drop it and fall through to the database.
		c.rdb.Del(ctx, c.key(id))
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down must not take product reads with it.
		return c.inner.GetByID(ctx, id)
	}

	p, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, p)
	return p, nil
}

func (c *ProductCache) GetByIDs(ctx context.Context, ids []int64) ([]*domproduct.Product, error) {
	// Bulk reads back the cart validate and checkout paths; they want fresh
	// stock numbers, so they bypass the cache.
	return c.inner.GetByIDs(ctx, ids)
}

func (c *ProductCache) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	created, err := c.inner.Create(ctx, p)
	if err != nil {
		return nil, err
	}
	c.store(ctx, created)
	return created, nil
}

func (c *ProductCache) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	updated, err := c.inner.Update(ctx, p)
	if err != nil {
		return nil, err
	}
	c.rdb.Del(ctx, c.key(p.ID))
	return updated, nil
}

func (c *ProductCache) Delete(ctx context.Context, id int64) error {
	if err := c.inner.Delete(ctx, id); err != nil {
		return err
	}
	c.rdb.Del(ctx, c.key(id))
	return nil
}

// Invalidate drops the cached entries for the given products. Checkout calls
// it after the committed stock decrement so single-product reads do not serve
// pre-order stock for the rest of the TTL.
func (c *ProductCache) Invalidate(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, c.key(id))
	}
	c.rdb.Del(ctx, keys...)
}

func (c *ProductCache) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	return c.inner.List(ctx, filter)
}

func (c *ProductCache) store(ctx context.Context, p *domproduct.Product) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(p.ID), raw, c.ttl)
}
