package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"food-translator/internal/api/handlers/health"
	"food-translator/internal/api/handlers/translator"
	"food-translator/internal/api/middleware"
	"food-translator/internal/core/cache"
	"food-translator/internal/core/service"
	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Dependencies 路由使用的服務；Lookup 與 Cache 可為 nil
type Dependencies struct {
	Translator *service.Translator
	Lookup     health.BreakerState
	Cache      cache.Store
}

// SetupRouter 設置路由；背景清理協程在 ctx 結束時停止
func SetupRouter(ctx context.Context, cfg *config.Config, deps Dependencies) (*gin.Engine, error) {
	if deps.Translator == nil {
		return nil, errors.New("translator service is required")
	}

	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	// 設置 gin 模式
	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// 註冊基礎中間件
	router.Use(middleware.Recovery())
	router.Use(requestid.New()) // 自動生成請求 ID
	router.Use(middleware.Logger())

	// CORS 設置
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", common.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", common.RequestIDHeader},
		AllowCredentials: !allowsAll(cfg.Server.AllowOrigins),
		MaxAge:           12 * time.Hour,
	}))

	// 請求體大小限制
	router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))

	// 請求超時與請求 ID
	router.Use(middleware.RequestContext(cfg.Server.RequestTimeout))

	// 健康檢查路由
	healthHandler := health.NewHandler(cfg, deps.Translator, deps.Lookup, deps.Cache)
	router.GET("/health", healthHandler.HealthCheck)
	router.GET("/ready", healthHandler.ReadinessCheck)
	router.GET("/live", healthHandler.LivenessCheck)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// API 路由組
	api := router.Group("/api/v1")
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		limiter.StartCleanup(5 * time.Minute)
		go stopOnDone(ctx, limiter.Stop)
		api.Use(middleware.RateLimit(limiter, cfg.RateLimit.Window))
	}
	if cfg.DedupWindow > 0 {
		dedup := middleware.NewDeduplicator(cfg.DedupWindow)
		dedup.StartCleanup(10 * time.Minute)
		go stopOnDone(ctx, dedup.Stop)
		api.Use(middleware.Deduplication(dedup))
	}

	translator.NewHandler(deps.Translator, cfg.App.Debug).Register(api)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.Response(false))
	})

	common.LogInfo("Router setup completed successfully",
		zap.Bool("lookup_enabled", deps.Lookup != nil),
		zap.Bool("cache_enabled", deps.Cache != nil),
		zap.Bool("rate_limit_enabled", cfg.RateLimit.Enabled),
		zap.Bool("metrics_enabled", cfg.Metrics.Enabled),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, nil
}

func stopOnDone(ctx context.Context, stop func()) {
	<-ctx.Done()
	stop()
}

// allowsAll 萬用來源不可搭配 credentials
func allowsAll(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
