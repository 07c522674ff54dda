package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"agoge-backend/shared/config"
	"agoge-backend/shared/database/models"
)

// CacheManager fronts Redis for read-heavy records. Dashboard settings
// are read on every page load of the branded frontend, so they are the
// main tenant of this cache.
type CacheManager struct {
	client *redis.Client
	ctx    context.Context
}

var (
	globalCacheManager *CacheManager
	SettingsTTL        = 30 * time.Minute
)

// InitCacheManager initializes the global cache manager
func InitCacheManager() error {
	cfg := config.GetConfig()

	redisDB, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		log.Printf("❌ Invalid Redis DB number: %s, using default 0", cfg.RedisDB)
		redisDB = 0
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       redisDB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %v", err)
	}

	globalCacheManager = &CacheManager{
		client: client,
		ctx:    ctx,
	}

	log.Printf("✅ Redis Cache Manager initialized successfully - %s:%s DB:%d",
		cfg.RedisHost, cfg.RedisPort, redisDB)

	return nil
}

// GetCacheManager returns the global cache manager instance, or nil when
// Redis is unreachable. Callers treat nil as a cache miss path.
func GetCacheManager() *CacheManager {
	if globalCacheManager == nil {
		if err := InitCacheManager(); err != nil {
			log.Printf("❌ Failed to initialize cache manager: %v", err)
			return nil
		}
	}
	return globalCacheManager
}

func settingsKey(companyID uuid.UUID) string {
	return fmt.Sprintf("settings:company:%s", companyID)
}

// GetSettings returns cached company settings, or nil on a miss.
func (cm *CacheManager) GetSettings(companyID uuid.UUID) *models.CompanySettings {
	data, err := cm.client.Get(cm.ctx, settingsKey(companyID)).Bytes()
	if err != nil {
		return nil
	}

	var settings models.CompanySettings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil
	}
	return &settings
}

// SetSettings caches company settings with the default TTL.
func (cm *CacheManager) SetSettings(settings *models.CompanySettings) {
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}

	if err := cm.client.Set(cm.ctx, settingsKey(settings.CompanyID), data, SettingsTTL).Err(); err != nil {
		log.Printf("❌ Failed to cache settings for company %s: %v", settings.CompanyID, err)
	}
}

// InvalidateSettings drops the cached settings after an update.
func (cm *CacheManager) InvalidateSettings(companyID uuid.UUID) {
	if err := cm.client.Del(cm.ctx, settingsKey(companyID)).Err(); err != nil {
		log.Printf("❌ Failed to invalidate settings cache for company %s: %v", companyID, err)
	}
}

// Close shuts down the Redis connection.
func (cm *CacheManager) Close() error {
	return cm.client.Close()
}
