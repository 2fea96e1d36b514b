package health

import (
	"net/http"
	"runtime"
	"time"

	"food-translator/internal/core/cache"
	"food-translator/internal/core/service"
	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BreakerState 可回報斷路器狀態的元件
type BreakerState interface {
	State() string
}

// Handler 健康檢查
type Handler struct {
	config  *config.Config
	svc     *service.Translator
	lookup  BreakerState
	cache   cache.Store
	started time.Time
}

// NewHandler 創建健康檢查處理器；lookup 與 store 可為 nil
func NewHandler(cfg *config.Config, svc *service.Translator, lookup BreakerState, store cache.Store) *Handler {
	return &Handler{
		config:  cfg,
		svc:     svc,
		lookup:  lookup,
		cache:   store,
		started: time.Now(),
	}
}

// HealthResponse 健康檢查響應
type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Uptime    string         `json:"uptime"`
	Runtime   map[string]any `json:"runtime"`
	Catalog   *CatalogStatus `json:"catalog,omitempty"`
	Lookup    LookupStatus   `json:"lookup"`
	Cache     map[string]any `json:"cache,omitempty"`
}

// CatalogStatus 目前資料快照
type CatalogStatus struct {
	Version        uint64    `json:"version"`
	Dishes         int       `json:"dishes"`
	LexiconEntries int       `json:"lexicon_entries"`
	LoadedAt       time.Time `json:"loaded_at"`
}

// LookupStatus 外部查詢狀態
type LookupStatus struct {
	Enabled      bool   `json:"enabled"`
	BreakerState string `json:"breaker_state,omitempty"`
}

// HealthCheck 健康檢查處理器
func (h *Handler) HealthCheck(c *gin.Context) {
	// 獲取運行時信息
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   h.config.App.Version,
		Uptime:    time.Since(h.started).Round(time.Second).String(),
		Runtime: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc":       m.Alloc,
				"total_alloc": m.TotalAlloc,
				"sys":         m.Sys,
				"num_gc":      m.NumGC,
			},
		},
		Lookup: LookupStatus{Enabled: h.lookup != nil},
	}

	if snap, err := h.svc.Snapshot(); err == nil {
		response.Catalog = &CatalogStatus{
			Version:        snap.Version,
			Dishes:         len(snap.Universe),
			LexiconEntries: snap.Lexicon.Len(),
			LoadedAt:       snap.LoadedAt,
		}
	} else {
		response.Status = "degraded"
	}

	if h.lookup != nil {
		response.Lookup.BreakerState = h.lookup.State()
		if response.Lookup.BreakerState == "open" {
			response.Status = "degraded"
		}
	}
	if h.cache != nil {
		response.Cache = h.cache.Stats()
	}

	common.LogDebug("Health check request",
		zap.String("client_ip", c.ClientIP()),
		zap.String("status", response.Status),
	)

	c.JSON(http.StatusOK, response)
}

// ReadinessCheck 資料載入完成才算就緒
func (h *Handler) ReadinessCheck(c *gin.Context) {
	if _, err := h.svc.Snapshot(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not_ready",
			"reason": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
	})
}

// LivenessCheck 存活檢查處理器
func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}
