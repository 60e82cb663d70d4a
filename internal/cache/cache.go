package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quietstorm/adserver/internal/models"
)

// Cache defines the interface for the serving read path: the eligible
// campaign snapshot and per-campaign creative lists. Budget counters are
// never cached; reservations always hit the store.
type Cache interface {
	GetEligibleCampaigns(ctx context.Context) ([]models.Campaign, error)
	SetEligibleCampaigns(ctx context.Context, campaigns []models.Campaign, ttl time.Duration) error

	GetActiveCreatives(ctx context.Context, campaignID string) ([]models.Creative, error)
	SetActiveCreatives(ctx context.Context, campaignID string, creatives []models.Creative, ttl time.Duration) error

	InvalidateAll(ctx context.Context) error
	GetStats() CacheStats
}

// CacheStats holds cache performance statistics
type CacheStats struct {
	Hits        int64
	Misses      int64
	Errors      int64
	HitRatio    float64
	TotalOps    int64
	LastUpdated time.Time
}

// HybridCache layers an in-memory cache over Redis: memory for ultra-fast
// local reads, Redis for state shared across replicas.
type HybridCache struct {
	memoryCache *memoryCache
	redisCache  *redisCache
	config      CacheConfig
	stats       CacheStats
	mu          sync.RWMutex
	stop        context.CancelFunc
}

// CacheConfig holds cache configuration
type CacheConfig struct {
	DefaultTTL      time.Duration
	MemoryCacheSize int
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	EnableMemory    bool
	EnableRedis     bool
}

// NewHybridCache creates a new hybrid cache
func NewHybridCache(config CacheConfig) (*HybridCache, error) {
	hc := &HybridCache{
		config: config,
		stats: CacheStats{
			LastUpdated: time.Now(),
		},
	}

	if config.EnableMemory {
		hc.memoryCache = newMemoryCache(config.MemoryCacheSize)
	}

	if config.EnableRedis {
		var err error
		hc.redisCache, err = newRedisCache(config)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}

		// Listen for invalidations broadcast by other replicas and drop the
		// local memory copy; Redis itself was already cleared by the publisher.
		ctx, cancel := context.WithCancel(context.Background())
		hc.stop = cancel
		go hc.redisCache.subscribeInvalidation(ctx, func(string) {
			if hc.memoryCache != nil {
				hc.memoryCache.clear()
			}
		})
	}

	return hc, nil
}

// GetEligibleCampaigns retrieves the campaign snapshot (memory first, then
// Redis, then miss)
func (hc *HybridCache) GetEligibleCampaigns(ctx context.Context) ([]models.Campaign, error) {
	if hc.memoryCache != nil {
		if campaigns, found := hc.memoryCache.getCampaigns(campaignSnapshotKey); found {
			hc.recordHit()
			return campaigns, nil
		}
	}

	if hc.redisCache != nil {
		campaigns, err := hc.redisCache.getCampaigns(ctx, campaignSnapshotKey)
		if err == nil {
			hc.recordHit()
			// Warm memory cache
			if hc.memoryCache != nil {
				hc.memoryCache.setCampaigns(campaignSnapshotKey, campaigns, hc.config.DefaultTTL)
			}
			return campaigns, nil
		}
	}

	hc.recordMiss()
	return nil, ErrCacheMiss
}

// SetEligibleCampaigns stores the campaign snapshot in both caches
func (hc *HybridCache) SetEligibleCampaigns(ctx context.Context, campaigns []models.Campaign, ttl time.Duration) error {
	var errs []error

	if hc.memoryCache != nil {
		hc.memoryCache.setCampaigns(campaignSnapshotKey, campaigns, ttl)
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.setCampaigns(ctx, campaignSnapshotKey, campaigns, ttl); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		hc.recordError()
		return fmt.Errorf("cache store errors: %v", errs)
	}

	return nil
}

// GetActiveCreatives retrieves a campaign's creative list
func (hc *HybridCache) GetActiveCreatives(ctx context.Context, campaignID string) ([]models.Creative, error) {
	key := creativesKey(campaignID)

	if hc.memoryCache != nil {
		if creatives, found := hc.memoryCache.getCreatives(key); found {
			hc.recordHit()
			return creatives, nil
		}
	}

	if hc.redisCache != nil {
		creatives, err := hc.redisCache.getCreatives(ctx, key)
		if err == nil {
			hc.recordHit()
			if hc.memoryCache != nil {
				hc.memoryCache.setCreatives(key, creatives, hc.config.DefaultTTL)
			}
			return creatives, nil
		}
	}

	hc.recordMiss()
	return nil, ErrCacheMiss
}

// SetActiveCreatives stores a campaign's creative list in both caches
func (hc *HybridCache) SetActiveCreatives(ctx context.Context, campaignID string, creatives []models.Creative, ttl time.Duration) error {
	key := creativesKey(campaignID)
	var errs []error

	if hc.memoryCache != nil {
		hc.memoryCache.setCreatives(key, creatives, ttl)
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.setCreatives(ctx, key, creatives, ttl); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		hc.recordError()
		return fmt.Errorf("cache store errors: %v", errs)
	}

	return nil
}

// InvalidateAll clears all caches and notifies other replicas to drop
// their memory copies
func (hc *HybridCache) InvalidateAll(ctx context.Context) error {
	var errs []error

	if hc.memoryCache != nil {
		hc.memoryCache.clear()
	}

	if hc.redisCache != nil {
		if err := hc.redisCache.clear(ctx); err != nil {
			errs = append(errs, err)
		}
		if err := hc.redisCache.publishInvalidation(ctx, "flush"); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("cache invalidation errors: %v", errs)
	}

	return nil
}

// HealthCheck reports Redis connectivity. Memory-only caches are always
// healthy.
func (hc *HybridCache) HealthCheck(ctx context.Context) error {
	if hc.redisCache == nil {
		return nil
	}
	return hc.redisCache.healthCheck(ctx)
}

// Close stops the cleanup and subscription goroutines and closes the Redis
// connection
func (hc *HybridCache) Close() error {
	if hc.stop != nil {
		hc.stop()
	}
	if hc.memoryCache != nil {
		hc.memoryCache.close()
	}
	if hc.redisCache != nil {
		return hc.redisCache.close()
	}
	return nil
}

// GetStats returns cache statistics
func (hc *HybridCache) GetStats() CacheStats {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	stats := hc.stats
	if stats.TotalOps > 0 {
		stats.HitRatio = float64(stats.Hits) / float64(stats.TotalOps)
	}
	return stats
}

func (hc *HybridCache) recordHit() {
	hc.mu.Lock()
	hc.stats.Hits++
	hc.stats.TotalOps++
	hc.mu.Unlock()
}

func (hc *HybridCache) recordMiss() {
	hc.mu.Lock()
	hc.stats.Misses++
	hc.stats.TotalOps++
	hc.mu.Unlock()
}

func (hc *HybridCache) recordError() {
	hc.mu.Lock()
	hc.stats.Errors++
	hc.mu.Unlock()
}

const campaignSnapshotKey = "campaigns:eligible"

func creativesKey(campaignID string) string {
	return "creatives:" + campaignID
}

// Custom errors
var (
	ErrCacheMiss = fmt.Errorf("cache miss")
)
