package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ecommerce-api/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// tombstone marks a key whose row was just written. Reads that started before
// the write cannot repopulate the key until it expires, because fills use SETNX.
const tombstone = "-"

// tombstoneTTL bounds how long lookups of a freshly written product skip the cache.
const tombstoneTTL = 10 * time.Second

// cachedRepository is a read-through redis cache in front of another ProductRepository.
// Cache failures are logged and bypassed; the wrapped repository stays the source of truth.
type cachedRepository struct {
	next   ProductRepository
	client redis.Cmdable
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedProductRepository wraps next with a redis cache for lookups by ID.
func NewCachedProductRepository(next ProductRepository, client redis.Cmdable, ttl time.Duration, logger zerolog.Logger) ProductRepository {
	return &cachedRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("repository", "product-cache").Logger(),
	}
}

// CacheKey returns the redis key holding the product with the given ID.
func CacheKey(id int64) string {
	return fmt.Sprintf("product:%d", id)
}

func (r *cachedRepository) Create(ctx context.Context, p *model.Product) error {
	return r.next.Create(ctx, p)
}

func (r *cachedRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	key := CacheKey(id)

	cached, err := r.client.Get(ctx, key).Bytes()
	switch {
	case err == nil && string(cached) == tombstone:
		r.logger.Debug().Int64("product_id", id).Msg("product recently written, bypassing cache")
	case err == nil:
		var p model.Product
		decodeErr := json.Unmarshal(cached, &p)
		if decodeErr == nil {
			r.logger.Debug().Int64("product_id", id).Msg("product cache hit")
			return &p, nil
		}
		r.logger.Warn().Err(decodeErr).Str("key", key).Msg("discarding undecodable cache entry")
		if err := r.client.Del(ctx, key).Err(); err != nil {
			r.logger.Warn().Err(err).Str("key", key).Msg("failed to drop undecodable cache entry")
		}
	case errors.Is(err, redis.Nil):
		r.logger.Debug().Int64("product_id", id).Msg("product cache miss")
	default:
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to read product from cache")
	}

	p, err := r.next.GetByID(ctx, id)
	if err != nil || p == nil {
		return p, err
	}

	payload, err := json.Marshal(p)
	if err != nil {
		r.logger.Warn().Err(err).Int64("product_id", id).Msg("failed to encode product for cache")
		return p, nil
	}
	// SETNX leaves a tombstone from a concurrent write in place
	if err := r.client.SetNX(ctx, key, payload, r.ttl).Err(); err != nil {
		r.logger.Warn().Err(err).Str("key", key).Msg("failed to write product to cache")
	}

	return p, nil
}

func (r *cachedRepository) List(ctx context.Context, q model.ListQuery) ([]model.Product, error) {
	return r.next.List(ctx, q)
}

func (r *cachedRepository) Update(ctx context.Context, id int64, req *model.UpdateProductRequest, updatedAt time.Time) (*model.Product, error) {
	p, err := r.next.Update(ctx, id, req, updatedAt)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, id)
	return p, nil
}

func (r *cachedRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted, err := r.next.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	r.invalidate(ctx, id)
	return deleted, nil
}

func (r *cachedRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

// invalidate replaces the cached copy with a tombstone after a write.
func (r *cachedRepository) invalidate(ctx context.Context, id int64) {
	if err := r.client.Set(ctx, CacheKey(id), tombstone, tombstoneTTL).Err(); err != nil {
		r.logger.Warn().Err(err).Int64("product_id", id).Msg("failed to invalidate cached product")
	}
}
