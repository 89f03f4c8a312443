// Package cache keeps the public location listing in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"converge-backend/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const activeLocationsKey = "converge:locations:active"

// LocationCache is safe to use with a nil client; every call is then a miss.
// Redis failures are logged and never surface to callers.
type LocationCache struct {
	client *redis.Client
	ttl    time.Duration
	logger echo.Logger
}

func NewLocationCache(client *redis.Client, ttl time.Duration, logger echo.Logger) *LocationCache {
	return &LocationCache{client: client, ttl: ttl, logger: logger}
}

func (c *LocationCache) enabled() bool {
	return c != nil && c.client != nil
}

// ActiveLocations returns the cached listing and whether it was present
func (c *LocationCache) ActiveLocations(ctx context.Context) ([]models.Location, bool) {
	if !c.enabled() {
		return nil, false
	}

	raw, err := c.client.Get(ctx, activeLocationsKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warnf("Failed to read location cache: %v", err)
		}
		return nil, false
	}

	var locations []models.Location
	if err := json.Unmarshal(raw, &locations); err != nil {
		c.logger.Warnf("Discarding malformed location cache entry: %v", err)
		c.client.Del(ctx, activeLocationsKey)
		return nil, false
	}
	return locations, true
}

func (c *LocationCache) StoreActiveLocations(ctx context.Context, locations []models.Location) {
	if !c.enabled() {
		return
	}

	raw, err := json.Marshal(locations)
	if err != nil {
		c.logger.Warnf("Failed to encode location cache entry: %v", err)
		return
	}
	if err := c.client.Set(ctx, activeLocationsKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warnf("Failed to write location cache: %v", err)
	}
}

// InvalidateLocations drops the listing after any location write
func (c *LocationCache) InvalidateLocations(ctx context.Context) {
	if !c.enabled() {
		return
	}
	if err := c.client.Del(ctx, activeLocationsKey).Err(); err != nil {
		c.logger.Warnf("Failed to invalidate location cache: %v", err)
	}
}
