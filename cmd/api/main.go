package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"food-translator/internal/api"
	"food-translator/internal/core/cache"
	"food-translator/internal/core/catalog"
	"food-translator/internal/core/lookup"
	"food-translator/internal/core/service"
	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	// 載入設定（含 .env）
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(common.LoggerOptions{
		Level: cfg.LogLevel,
		Dir:   cfg.Log.Dir,
		Mode:  cfg.Log.Mode,
	}); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 載入詞庫與料理資料
	store, err := catalog.NewStore(cfg.Catalog)
	if err != nil {
		common.LogFatal("Failed to load catalog", zap.Error(err))
	}
	if cfg.Catalog.Watch {
		go func() {
			if err := store.Watch(ctx); err != nil {
				common.LogError("Catalog watcher stopped", zap.Error(err))
			}
		}()
	}

	// 初始化快取
	cacheStore, err := cache.New(cfg)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}
	if cacheStore != nil {
		defer cacheStore.Close()
	}

	deps := api.Dependencies{Cache: cacheStore}

	// 外部食譜查詢（可選）
	var recipeLookup service.RecipeLookup
	if cfg.Lookup.Enabled {
		client := lookup.NewClient(cfg.Lookup)
		recipeLookup = client
		deps.Lookup = client
	}

	deps.Translator = service.NewTranslator(store, recipeLookup, cacheStore, cfg.Batch)

	// 設置路由
	router, err := api.SetupRouter(ctx, cfg, deps)
	if err != nil {
		common.LogError("Failed to setup router", zap.Error(err))
		os.Exit(1)
	}

	// 設置 HTTP 服務器
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// 啟動服務器
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Int("port", cfg.Server.Port),
			zap.Bool("lookup_enabled", cfg.Lookup.Enabled),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			common.LogError("Failed to start server", zap.Error(err))
			os.Exit(1)
		}
	}()

	// SIGHUP 重新載入資料，SIGINT/SIGTERM 關閉
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	for sig := range signals {
		if sig == syscall.SIGHUP {
			if _, err := store.Reload(); err != nil {
				common.LogWarn("SIGHUP reload failed, keeping current catalog", zap.Error(err))
			}
			continue
		}
		break
	}

	common.LogInfo("Shutting down server...")
	stop()

	// 設置關閉超時
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}

	common.LogInfo("Server exited")
}
