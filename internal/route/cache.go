package route

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// GeocodeCache stores resolved coordinates by normalized location text.
type GeocodeCache interface {
	// Get returns ok=false on a miss.
	Get(ctx context.Context, location string) (coords domain.Coordinates, ok bool, err error)
	Set(ctx context.Context, location string, coords domain.Coordinates) error
}

// RedisGeocodeCache keeps geocode results in Redis as JSON with a TTL.
type RedisGeocodeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisGeocodeCache returns a cache on client. A zero ttl keeps entries forever.
func NewRedisGeocodeCache(client *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client, ttl: ttl}
}

func cacheKey(location string) string {
	return "geocode:" + strings.ToLower(normalize(location))
}

// Get looks up location.
func (c *RedisGeocodeCache) Get(ctx context.Context, location string) (domain.Coordinates, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(location)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Coordinates{}, false, nil
	}
	if err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("route.RedisGeocodeCache.Get: %w", err)
	}
	var coords domain.Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return domain.Coordinates{}, false, fmt.Errorf("route.RedisGeocodeCache.Get: decode: %w", err)
	}
	return coords, true, nil
}

// Set stores coords for location.
func (c *RedisGeocodeCache) Set(ctx context.Context, location string, coords domain.Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("route.RedisGeocodeCache.Set: encode: %w", err)
	}
	if err := c.client.Set(ctx, cacheKey(location), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("route.RedisGeocodeCache.Set: %w", err)
	}
	return nil
}
