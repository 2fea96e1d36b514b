package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig       `mapstructure:"app"`
	Server      ServerConfig    `mapstructure:"server"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
	Lookup      LookupConfig    `mapstructure:"lookup"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Batch       BatchConfig     `mapstructure:"batch"`
	RateLimit   RateLimitConfig `mapstructure:"rate_limit"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
	Log         LogConfig       `mapstructure:"log"`
	DedupWindow time.Duration   `mapstructure:"dedup_window"`
	LogLevel    string          `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
	AllowOrigins   []string      `mapstructure:"allow_origins"`
}

// CatalogConfig 詞庫與料理資料設定
type CatalogConfig struct {
	LexiconPath  string `mapstructure:"lexicon_path"`
	UniversePath string `mapstructure:"universe_path"`
	Watch        bool   `mapstructure:"watch"`
}

// LookupConfig 外部食譜查詢設定
type LookupConfig struct {
	Enabled    bool          `mapstructure:"enabled"`
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	SearchPath string        `mapstructure:"search_path"`
	DetailPath string        `mapstructure:"detail_path"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Retries    int           `mapstructure:"retries"`
	Breaker    BreakerConfig `mapstructure:"breaker"`
}

// BreakerConfig 斷路器設定
type BreakerConfig struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Driver          string        `mapstructure:"driver"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Redis           RedisConfig   `mapstructure:"redis"`
}

// RedisConfig Redis 連線設定
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// BatchConfig 批次翻譯設定
type BatchConfig struct {
	Workers    int `mapstructure:"workers"`
	MaxTargets int `mapstructure:"max_targets"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// MetricsConfig Prometheus 設定
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LogConfig 日誌設定
type LogConfig struct {
	Dir  string `mapstructure:"dir"`
	Mode string `mapstructure:"mode"`
}

// 快取驅動
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// LoadConfig 載入設定；.env 不存在時只使用環境變數與預設值
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return Load(viper.New())
}

// Load 以指定的 viper 實例載入設定
func Load(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	// 設定環境變數前綴
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 綁定常用環境變量
	bindings := map[string]string{
		"lookup.base_url":       "RECIPE_API_BASE_URL",
		"lookup.api_key":        "RECIPE_API_KEY",
		"lookup.enabled":        "RECIPE_LOOKUP_ENABLED",
		"catalog.lexicon_path":  "LEXICON_PATH",
		"catalog.universe_path": "UNIVERSE_PATH",
		"cache.enabled":         "CACHE_ENABLED",
		"cache.driver":          "CACHE_DRIVER",
		"cache.redis.addr":      "REDIS_ADDR",
		"cache.redis.password":  "REDIS_PASSWORD",
		"rate_limit.enabled":    "RATE_LIMIT_ENABLED",
		"rate_limit.requests":   "RATE_LIMIT_REQUESTS",
		"rate_limit.window":     "RATE_LIMIT_WINDOW",
		"dedup_window":          "DEDUP_WINDOW",
		"log_level":             "LOG_LEVEL",
		"log.mode":              "LOG_MODE",
		"server.port":           "PORT",
	}
	for key, env := range bindings {
		if err := v.BindEnv(key, "APP_"+strings.ToUpper(strings.ReplaceAll(key, ".", "_")), env); err != nil {
			return nil, fmt.Errorf("failed to bind env %s: %w", env, err)
		}
	}

	// 設定設定檔名稱和路徑
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"recipe_api_key:", maskAPIKey(v.GetString("lookup.api_key")),
		"lexicon:", v.GetString("catalog.lexicon_path"),
		"universe:", v.GetString("catalog.universe_path"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	// 應用程式設定
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "food-translator")

	// 伺服器設定
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "15s")
	v.SetDefault("server.max_body_bytes", 1<<20) // 1MB
	v.SetDefault("server.allow_origins", []string{"*"})

	// 資料檔
	v.SetDefault("catalog.lexicon_path", "data/lexicon.json")
	v.SetDefault("catalog.universe_path", "data/universe.json")
	v.SetDefault("catalog.watch", false)

	// 外部食譜查詢
	v.SetDefault("lookup.enabled", false)
	v.SetDefault("lookup.search_path", "/recipe/search")
	v.SetDefault("lookup.detail_path", "/recipe")
	v.SetDefault("lookup.timeout", "10s")
	v.SetDefault("lookup.retries", 1)
	v.SetDefault("lookup.breaker.max_requests", 3)
	v.SetDefault("lookup.breaker.interval", "1m")
	v.SetDefault("lookup.breaker.timeout", "30s")
	v.SetDefault("lookup.breaker.min_requests", 5)
	v.SetDefault("lookup.breaker.failure_ratio", 0.6)

	// 快取設定
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.driver", CacheDriverMemory)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")
	v.SetDefault("cache.redis.addr", "localhost:6379")
	v.SetDefault("cache.redis.db", 0)
	v.SetDefault("cache.redis.key_prefix", "food-translator:")

	// 批次翻譯
	v.SetDefault("batch.workers", 4)
	v.SetDefault("batch.max_targets", 10)

	// 限流設定
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 100)
	v.SetDefault("rate_limit.window", "1m")

	// 指標
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// 日誌
	v.SetDefault("log.dir", "logs")
	v.SetDefault("log.mode", "")
	v.SetDefault("log_level", "info")

	v.SetDefault("dedup_window", "1s")
}

// validateConfig 驗證設定
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid max body bytes")
	}

	if cfg.Catalog.LexiconPath == "" || cfg.Catalog.UniversePath == "" {
		return fmt.Errorf("catalog lexicon_path and universe_path are required")
	}

	if cfg.Lookup.Enabled && cfg.Lookup.BaseURL == "" {
		return fmt.Errorf("lookup base_url is required when lookup is enabled")
	}

	if cfg.Cache.Enabled {
		switch cfg.Cache.Driver {
		case CacheDriverMemory:
			if cfg.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if cfg.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheDriverRedis:
			if cfg.Cache.Redis.Addr == "" {
				return fmt.Errorf("redis addr is required for redis cache driver")
			}
		default:
			return fmt.Errorf("unknown cache driver %q", cfg.Cache.Driver)
		}
		if cfg.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if cfg.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers")
	}
	if cfg.Batch.MaxTargets <= 0 {
		return fmt.Errorf("invalid batch max targets")
	}

	if cfg.RateLimit.Enabled && (cfg.RateLimit.Requests <= 0 || cfg.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	return nil
}
