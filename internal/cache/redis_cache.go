package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/quietstorm/adserver/internal/models"
)

const redisKeyPrefix = "adserver:"

// redisCache implements Redis-based caching
type redisCache struct {
	client *redis.Client
	config CacheConfig
}

// newRedisCache creates a new Redis cache client
func newRedisCache(config CacheConfig) (*redisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
		DB:       config.RedisDB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisCache{
		client: client,
		config: config,
	}, nil
}

func (rc *redisCache) getCampaigns(ctx context.Context, key string) ([]models.Campaign, error) {
	data, err := rc.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("Redis get error: %w", err)
	}

	var campaigns []models.Campaign
	if err := json.Unmarshal([]byte(data), &campaigns); err != nil {
		return nil, fmt.Errorf("JSON unmarshal error: %w", err)
	}

	return campaigns, nil
}

func (rc *redisCache) setCampaigns(ctx context.Context, key string, campaigns []models.Campaign, ttl time.Duration) error {
	data, err := json.Marshal(campaigns)
	if err != nil {
		return fmt.Errorf("JSON marshal error: %w", err)
	}

	if err := rc.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("Redis set error: %w", err)
	}

	return nil
}

func (rc *redisCache) getCreatives(ctx context.Context, key string) ([]models.Creative, error) {
	data, err := rc.client.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrCacheMiss
		}
		return nil, fmt.Errorf("Redis get error: %w", err)
	}

	var creatives []models.Creative
	if err := json.Unmarshal([]byte(data), &creatives); err != nil {
		return nil, fmt.Errorf("JSON unmarshal error: %w", err)
	}

	return creatives, nil
}

func (rc *redisCache) setCreatives(ctx context.Context, key string, creatives []models.Creative, ttl time.Duration) error {
	data, err := json.Marshal(creatives)
	if err != nil {
		return fmt.Errorf("JSON marshal error: %w", err)
	}

	if err := rc.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("Redis set error: %w", err)
	}

	return nil
}

// clear removes all adserver cache keys from Redis
func (rc *redisCache) clear(ctx context.Context) error {
	keys, err := rc.client.Keys(ctx, redisKeyPrefix+"*").Result()
	if err != nil {
		return fmt.Errorf("Redis keys error: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}

	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("Redis delete error: %w", err)
	}

	return nil
}

// publishInvalidation publishes a cache invalidation event for other replicas
func (rc *redisCache) publishInvalidation(ctx context.Context, event string) error {
	return rc.client.Publish(ctx, redisKeyPrefix+"cache:invalidate", event).Err()
}

// subscribeInvalidation blocks delivering cache invalidation events to the
// handler until the context is cancelled
func (rc *redisCache) subscribeInvalidation(ctx context.Context, handler func(string)) {
	pubsub := rc.client.Subscribe(ctx, redisKeyPrefix+"cache:invalidate")
	go func() {
		<-ctx.Done()
		pubsub.Close()
	}()

	for msg := range pubsub.Channel() {
		handler(msg.Payload)
	}
}

// close closes the Redis connection
func (rc *redisCache) close() error {
	return rc.client.Close()
}

// healthCheck checks Redis connection health
func (rc *redisCache) healthCheck(ctx context.Context) error {
	return rc.client.Ping(ctx).Err()
}
