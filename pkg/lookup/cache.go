package lookup

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/pricescan/pricescan/pkg/logger"
	"github.com/pricescan/pricescan/pkg/schema"
)

// Cache is an optional shared front for resolved products. Entries never
// expire, matching the no-TTL cache semantics of the repository itself.
type Cache interface {
	Get(ctx context.Context, barcode string) (*schema.ProductResponse, bool)
	Set(ctx context.Context, product *schema.ProductResponse)
}

const cacheKeyPrefix = "product:"

// RedisCache keeps product snapshots in Redis, keyed by barcode. Cache
// failures are logged and treated as misses; the repository stays the source
// of truth.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache wraps an already-connected client.
func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, barcode string) (*schema.ProductResponse, bool) {
	raw, err := c.client.Get(ctx, cacheKeyPrefix+barcode).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warn().Err(err).Str("barcode", barcode).Msg("product cache read failed")
		}
		return nil, false
	}
	var product schema.ProductResponse
	if err := json.Unmarshal(raw, &product); err != nil {
		logger.Warn().Err(err).Str("barcode", barcode).Msg("product cache entry corrupt")
		return nil, false
	}
	return &product, true
}

func (c *RedisCache) Set(ctx context.Context, product *schema.ProductResponse) {
	raw, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKeyPrefix+product.Barcode, raw, 0).Err(); err != nil {
		logger.Warn().Err(err).Str("barcode", product.Barcode).Msg("product cache write failed")
	}
}

var _ Cache = (*RedisCache)(nil)
