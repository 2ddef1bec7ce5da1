package database

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"api/config"
	"api/metrics"

	"github.com/redis/go-redis/v9"
)

var RedisClient *redis.Client

const cacheTTL = 10 * time.Minute

// InitRedis initializes the redis client used as a read cache for the challenge catalog
func InitRedis() {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := RedisClient.Ping(ctx).Result(); err != nil {
		log.Fatal("failed to connect to redis: ", err)
	}
}

// GetFromCache reads a cached value into dest. Returns false on a miss or
// when redis is not configured.
func GetFromCache(ctx context.Context, key string, dest interface{}) (bool, error) {
	if RedisClient == nil {
		return false, nil
	}

	data, err := RedisClient.Get(ctx, key).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.Inc()
		return false, nil
	}
	if err != nil {
		metrics.CacheMisses.Inc()
		return false, err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}

	metrics.CacheHits.Inc()
	return true, nil
}

// SetToCache stores a value under key with the default TTL
func SetToCache(ctx context.Context, key string, value interface{}) error {
	if RedisClient == nil {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return RedisClient.Set(ctx, key, data, cacheTTL).Err()
}

// InvalidateCache removes a cached value, used when an admin mutates the catalog
func InvalidateCache(ctx context.Context, keys ...string) {
	if RedisClient == nil || len(keys) == 0 {
		return
	}

	if err := RedisClient.Del(ctx, keys...).Err(); err != nil {
		log.Printf("cache invalidation failed: %v", err)
	}
}
