// Package metrics 定義服務的 Prometheus 指標。
//
// 指標分類：
//   - HTTP：請求數與延遲
//   - Translation：翻譯結果、相似度分佈
//   - Lookup：外部食譜查詢與斷路器狀態
//   - Cache：命中率
//   - Catalog：重新載入次數與資料量
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "food_translator"

var (
	// HTTPRequestsTotal 依路由、方法與狀態碼統計請求數
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPRequestDuration 請求延遲
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// TranslationsTotal 依結果統計翻譯次數
	TranslationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "translations_total",
			Help:      "Total number of translations by outcome",
		},
		[]string{"outcome"},
	)

	// TranslationSimilarity 最佳結果的相似度百分比
	TranslationSimilarity = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "translation_similarity_percent",
			Help:      "Similarity percentage of the winning candidate",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		},
	)

	// SourceResolutions 依來源統計料理解析
	SourceResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_resolutions_total",
			Help:      "Source dish resolutions by origin",
		},
		[]string{"origin"},
	)

	// LookupRequests 外部查詢結果
	LookupRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookup_requests_total",
			Help:      "Remote recipe lookups by result",
		},
		[]string{"result"},
	)

	// LookupDuration 外部查詢延遲
	LookupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "lookup_duration_seconds",
			Help:      "Duration of remote recipe lookups in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// CircuitBreakerState 斷路器狀態（0=closed, 1=half-open, 2=open）
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CacheRequests 快取命中與未命中
	CacheRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups by driver and result",
		},
		[]string{"driver", "result"},
	)

	// CatalogReloads 資料重新載入次數
	CatalogReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog reloads by result",
		},
		[]string{"result"},
	)

	// CatalogDishes 目前快照的料理數
	CatalogDishes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_dishes",
			Help:      "Number of dishes in the current catalog snapshot",
		},
	)

	// CatalogLexiconEntries 目前快照的詞庫條目數
	CatalogLexiconEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_lexicon_entries",
			Help:      "Number of lexicon entries in the current catalog snapshot",
		},
	)
)

// RecordHTTPRequest 記錄一次 HTTP 請求
func RecordHTTPRequest(route, method, status string, d time.Duration) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordTranslation 記錄翻譯結果；成功時一併記錄相似度
func RecordTranslation(outcome string, percent int) {
	TranslationsTotal.WithLabelValues(outcome).Inc()
	if outcome == "success" {
		TranslationSimilarity.Observe(float64(percent))
	}
}

// RecordLookup 記錄外部查詢
func RecordLookup(result string, d time.Duration) {
	LookupRequests.WithLabelValues(result).Inc()
	LookupDuration.Observe(d.Seconds())
}

// RecordCache 記錄快取查詢
func RecordCache(driver string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequests.WithLabelValues(driver, result).Inc()
}
