package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shiva/pplme/internal/model"
	"github.com/shiva/pplme/internal/wire"
)

// DefaultFindMatchingTTL bounds how long a cached FindMatching result
// is trusted before a fresh query is required.
const DefaultFindMatchingTTL = 30 * time.Second

// MatchCache caches FindMatching results in Redis, exploiting the
// idempotent-query property: repeated calls with the same origin and
// age against an unchanged grid return the same set of people. It is a
// transient result cache only — it never substitutes for the grid
// itself, so it does not persist the index.
type MatchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewMatchCache wraps client with the default TTL.
func NewMatchCache(client *redis.Client) *MatchCache {
	return &MatchCache{client: client, ttl: DefaultFindMatchingTTL}
}

func matchCacheKey(origin model.GeoPosition, age int) string {
	return fmt.Sprintf("pplme:find:%.6f:%.6f:%d", origin.Lat, origin.Lon, age)
}

// Get returns a cached result for (origin, age), if present and
// unexpired.
func (c *MatchCache) Get(ctx context.Context, origin model.GeoPosition, age int) ([]model.Person, bool, error) {
	raw, err := c.client.Get(ctx, matchCacheKey(origin, age)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("matchcache: get: %w", err)
	}
	resp, err := wire.UnmarshalFindResponse(raw)
	if err != nil {
		return nil, false, fmt.Errorf("matchcache: decode cached response: %w", err)
	}
	return resp.Ppl, true, nil
}

// Set stores people as the cached result for (origin, age).
func (c *MatchCache) Set(ctx context.Context, origin model.GeoPosition, age int, people []model.Person) error {
	raw := wire.MarshalFindResponse(wire.FindResponse{Ppl: people})
	if err := c.client.Set(ctx, matchCacheKey(origin, age), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("matchcache: set: %w", err)
	}
	return nil
}
