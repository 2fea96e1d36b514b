package cache

import (
	"context"
	"errors"
	"fmt"

	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"
	"food-translator/internal/pkg/metrics"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisService Redis 快取服務
type RedisService struct {
	client *redis.Client
	config config.CacheConfig
}

// NewRedisService 創建 Redis 快取服務並測試連接
func NewRedisService(cfg config.CacheConfig) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// 測試連接
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	common.LogInfo("Redis 快取已連接",
		zap.String("addr", cfg.Redis.Addr),
		zap.Int("db", cfg.Redis.DB),
		zap.Duration("ttl", cfg.TTL),
	)
	return newRedisService(client, cfg), nil
}

func newRedisService(client *redis.Client, cfg config.CacheConfig) *RedisService {
	return &RedisService{client: client, config: cfg}
}

// Get 獲取緩存
func (s *RedisService) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.RecordCache(config.CacheDriverRedis, false)
			common.LogCacheMiss("redis", key)
			return nil, common.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cache: %w", err)
	}

	metrics.RecordCache(config.CacheDriverRedis, true)
	common.LogCacheHit("redis", key)
	return data, nil
}

// Set 設置緩存
func (s *RedisService) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.key(key), value, s.config.TTL).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}
	return nil
}

// Stats 回傳連線池統計
func (s *RedisService) Stats() map[string]any {
	ps := s.client.PoolStats()
	return map[string]any{
		"driver":      config.CacheDriverRedis,
		"hits":        ps.Hits,
		"misses":      ps.Misses,
		"timeouts":    ps.Timeouts,
		"total_conns": ps.TotalConns,
		"idle_conns":  ps.IdleConns,
	}
}

// Close 關閉連接
func (s *RedisService) Close() error {
	return s.client.Close()
}

// key 生成緩存鍵
func (s *RedisService) key(key string) string {
	return s.config.Redis.KeyPrefix + key
}
