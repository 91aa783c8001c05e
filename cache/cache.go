package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is how long cached profile entries live.
const DefaultTTL = 3600 * time.Second

// Cache is a best-effort Redis wrapper. Every failure is logged and reported
// as a miss or a no-op so the caller can fall back to the source of truth;
// cache problems never surface as request errors. A nil client (Redis down at
// startup) behaves the same way.
type Cache struct {
	client *redis.Client
}

// New connects to Redis. If the connection fails, caching is disabled and
// the service runs against the database alone.
func New(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v. Caching disabled.", err)
		return &Cache{client: nil}
	}

	log.Println("Connected to Redis")
	return &Cache{client: rdb}
}

// Get unmarshals the cached value for key into dest and reports a hit.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c.client == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("Cache get error for %s: %v", key, err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(data), dest); err != nil {
		log.Printf("Cache decode error for %s: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	if c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		log.Printf("Cache encode error for %s: %v", key, err)
		return
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		log.Printf("Cache set error for %s: %v", key, err)
	}
}

// Delete removes key. Used for write-invalidation before a refill.
func (c *Cache) Delete(ctx context.Context, key string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Printf("Cache delete error for %s: %v", key, err)
	}
}

// ProfileKey is the deterministic cache key for a user profile.
func ProfileKey(userID string) string {
	return "profile:" + userID
}
