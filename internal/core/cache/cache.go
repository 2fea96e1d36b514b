package cache

import (
	"context"
	"fmt"

	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"

	"go.uber.org/zap"
)

// Store 外部查詢結果的快取
type Store interface {
	// Get 找不到或已過期時回傳 common.ErrCacheMiss
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Stats() map[string]any
	Close() error
}

// New 依設定建立快取；快取關閉時回傳 nil
func New(cfg *config.Config) (Store, error) {
	if !cfg.Cache.Enabled {
		common.LogInfo("Cache disabled")
		return nil, nil
	}

	switch cfg.Cache.Driver {
	case config.CacheDriverRedis:
		svc, err := NewRedisService(cfg.Cache)
		if err != nil {
			return nil, err
		}
		return svc, nil
	case config.CacheDriverMemory, "":
		return NewManager(cfg.Cache), nil
	default:
		common.LogError("Unknown cache driver", zap.String("driver", cfg.Cache.Driver))
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
	}
}
