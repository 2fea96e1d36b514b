package middleware

import (
	"fmt"
	"math"
	"sync"
	"time"

	"food-translator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter 依用戶端 IP 分別限流
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idle     time.Duration
	done     chan struct{}
	once     sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter 每個 IP 在 window 內最多 requests 次，令牌平均補充
func NewRateLimiter(requests int, window time.Duration) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(window / time.Duration(requests)),
		burst:    requests,
		idle:     max(window*10, time.Minute),
		done:     make(chan struct{}),
	}
}

// Allow 檢查是否允許請求
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	entry, ok := rl.limiters[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	rl.mu.Unlock()

	return entry.limiter.Allow()
}

// StartCleanup 定期移除閒置的限流器，直到 Stop
func (rl *RateLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-rl.done:
				return
			case <-ticker.C:
				rl.cleanup(time.Now())
			}
		}
	}()
}

func (rl *RateLimiter) cleanup(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idle {
			delete(rl.limiters, ip)
		}
	}
}

// Stop 停止清理協程
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.done) })
}

// RateLimit 限流中間件
func RateLimit(limiter *RateLimiter, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			common.LogInfo("Rate limit exceeded",
				zap.String("ip", c.ClientIP()),
				zap.String("path", c.Request.URL.Path),
			)

			c.Header("Retry-After", retryAfter(window))
			c.AbortWithStatusJSON(common.ErrTooManyRequests.Status, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()
	}
}

// retryAfter 以整秒回報，不足一秒進位
func retryAfter(window time.Duration) string {
	return fmt.Sprintf("%d", int(math.Ceil(window.Seconds())))
}
