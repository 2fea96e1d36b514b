package lookup

import (
	"context"
	"errors"

	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"
	"food-translator/internal/pkg/metrics"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// newBreaker 依失敗比例跳脫的斷路器；查無資料與請求取消不算失敗
func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[*Recipe] {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
			common.LogWarn("斷路器狀態變更",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))
	return gobreaker.NewCircuitBreaker[*Recipe](settings)
}

// State 回傳斷路器目前狀態
func (c *Client) State() string {
	return c.breaker.State().String()
}
