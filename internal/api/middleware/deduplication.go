package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"sync"
	"time"

	"food-translator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deduplicator 記錄近期 POST 請求的指紋
type Deduplicator struct {
	mu       sync.Mutex
	window   time.Duration
	requests map[string]time.Time
	done     chan struct{}
	once     sync.Once
}

// NewDeduplicator 在 window 內相同路徑與內容的 POST 視為重複
func NewDeduplicator(window time.Duration) *Deduplicator {
	if window <= 0 {
		window = time.Second
	}
	return &Deduplicator{
		window:   window,
		requests: make(map[string]time.Time),
		done:     make(chan struct{}),
	}
}

// StartCleanup 定期清除過期的指紋，直到 Stop
func (d *Deduplicator) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-d.done:
				return
			case now := <-ticker.C:
				d.mu.Lock()
				for k, t := range d.requests {
					if now.Sub(t) > 10*d.window {
						delete(d.requests, k)
					}
				}
				d.mu.Unlock()
			}
		}
	}()
}

// Stop 停止清理協程
func (d *Deduplicator) Stop() {
	d.once.Do(func() { close(d.done) })
}

// seen 記錄指紋並回傳是否在 window 內出現過
func (d *Deduplicator) seen(fingerprint string, now time.Time) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if last, ok := d.requests[fingerprint]; ok && now.Sub(last) <= d.window {
		return true
	}
	d.requests[fingerprint] = now
	return false
}

// Deduplication 請求去重中間件
func Deduplication(d *Deduplicator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 只處理 POST 請求
		if c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		// 計算請求體哈希
		bodyHash := ""
		if c.Request.Body != nil {
			body, err := io.ReadAll(c.Request.Body)
			if err != nil {
				// 交給後續處理器回報（例如超過大小限制）
				c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), errReader{err}))
				c.Next()
				return
			}

			hash := sha256.Sum256(body)
			bodyHash = hex.EncodeToString(hash[:])
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}

		// 生成請求指紋
		fingerprint := c.ClientIP() + ":" + c.Request.URL.Path
		if bodyHash != "" {
			fingerprint += ":" + bodyHash
		}

		if d.seen(fingerprint, time.Now()) {
			common.LogWarn("重複請求",
				zap.String("path", c.Request.URL.Path),
				zap.String("ip", c.ClientIP()),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrorResponse{
				Error: "request too frequent",
				Code:  common.ErrCodeTooManyRequests,
			})
			return
		}

		c.Next()
	}
}

type errReader struct{ err error }

func (r errReader) Read([]byte) (int, error) { return 0, r.err }
