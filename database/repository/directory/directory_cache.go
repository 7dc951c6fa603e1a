package directoryRepo

import (
	"context"
	"encoding/json"
	"time"

	"driveline/models"
	"driveline/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CachedUserDirectory wraps a UserDirectory with a redis read-through cache.
// Reminder waves look up the same customers and chauffeurs once per leg, so
// display data is cached with a TTL; cache errors degrade to the inner lookup.
type CachedUserDirectory struct {
	inner UserDirectory
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedUserDirectory wraps inner with the shared cache client.
func NewCachedUserDirectory(inner UserDirectory, cache *redis.Client, ttl time.Duration) UserDirectory {
	return &CachedUserDirectory{inner: inner, cache: cache, ttl: ttl}
}

func (d *CachedUserDirectory) GetUserByID(id string) (*models.UserProfile, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := "directory:user:" + id
	if raw, err := d.cache.Get(ctx, key).Result(); err == nil {
		var profile models.UserProfile
		if err := json.Unmarshal([]byte(raw), &profile); err == nil {
			return &profile, nil
		}
	}

	profile, err := d.inner.GetUserByID(id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(profile); err == nil {
		if err := d.cache.Set(ctx, key, raw, d.ttl).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache user profile", zap.String("user_id", id), zap.Error(err))
		}
	}
	return profile, nil
}

// CachedFleetDirectory wraps a FleetDirectory with the same read-through cache.
type CachedFleetDirectory struct {
	inner FleetDirectory
	cache *redis.Client
	ttl   time.Duration
}

// NewCachedFleetDirectory wraps inner with the shared cache client.
func NewCachedFleetDirectory(inner FleetDirectory, cache *redis.Client, ttl time.Duration) FleetDirectory {
	return &CachedFleetDirectory{inner: inner, cache: cache, ttl: ttl}
}

func (d *CachedFleetDirectory) GetCarByID(id string) (*models.CarInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := "directory:car:" + id
	if raw, err := d.cache.Get(ctx, key).Result(); err == nil {
		var car models.CarInfo
		if err := json.Unmarshal([]byte(raw), &car); err == nil {
			return &car, nil
		}
	}

	car, err := d.inner.GetCarByID(id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(car); err == nil {
		if err := d.cache.Set(ctx, key, raw, d.ttl).Err(); err != nil {
			utils.GetLogger().Warn("failed to cache car info", zap.String("car_id", id), zap.Error(err))
		}
	}
	return car, nil
}
