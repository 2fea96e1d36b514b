package middleware

import (
	"context"
	"errors"
	"time"

	"food-translator/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestContext 設置請求超時，並把請求 ID 放入 context 供下游記錄
func RequestContext(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := requestid.Get(c)
		if id == "" {
			// 未掛 requestid 中間件時
			id = common.RequestID(c.Request)
		}
		ctx := common.WithRequestID(c.Request.Context(), id)

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		// 處理器尚未回應時補上超時錯誤
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			common.LogError("Request timeout",
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", id),
				zap.Duration("timeout", timeout),
			)
			resp := common.ErrGatewayTimeout.Response(false)
			resp.Details = gin.H{"timeout": timeout.String()}
			c.AbortWithStatusJSON(common.ErrGatewayTimeout.Status, resp)
		}
	}
}
