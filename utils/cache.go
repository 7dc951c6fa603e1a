// File: utils/cache.go
package utils

import (
	"context"
	"log"
	"time"

	"driveline/config"

	"github.com/go-redis/redis/v8"
)

var (
	// CacheClient caches collaborator display data (user/car lookups).
	CacheClient *redis.Client
	// QueueClient is the dedicated client for queue health checks.
	QueueClient *redis.Client
)

// InitCache initializes the generic Redis cache client (using DB from AppConfig for directory caching).
func InitCache() {
	CacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := CacheClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetCacheClient returns the generic cache client.
func GetCacheClient() *redis.Client {
	if CacheClient == nil {
		InitCache()
	}
	return CacheClient
}

// InitQueueClient initializes the Redis client pointed at the queue DB.
// Asynq owns its own connections; this client only exists for health checks.
func InitQueueClient() {
	QueueClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := QueueClient.Ping(ctx).Result()
	if err != nil {
		log.Fatalf("Failed to connect to Redis (Queue): %v", err)
	}
}

// GetQueueClient returns the Redis client for the queue DB.
func GetQueueClient() *redis.Client {
	if QueueClient == nil {
		InitQueueClient()
	}
	return QueueClient
}
