package translator

import (
	"context"
	"errors"
	"net/http"

	"food-translator/internal/core/catalog"
	"food-translator/internal/core/lookup"
	"food-translator/internal/core/translate"
	"food-translator/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// toCustomError 將服務錯誤轉為 API 錯誤
func toCustomError(err error) *common.CustomError {
	var nc *translate.NoCandidatesError
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, translate.ErrSourceNotFound):
		return common.ErrSourceNotFound.Wrap(err)
	case errors.As(err, &nc):
		return common.ErrNoCandidates.WithMessage(nc.Error())
	case errors.Is(err, translate.ErrNoCandidates):
		return common.ErrNoCandidates.Wrap(err)
	case errors.Is(err, lookup.ErrUnavailable):
		return common.ErrLookupUnavailable.Wrap(err)
	case errors.Is(err, catalog.ErrNotLoaded):
		return common.ErrServiceUnavailable.Wrap(err)
	case errors.Is(err, context.DeadlineExceeded):
		return common.ErrGatewayTimeout.Wrap(err)
	case errors.As(err, &tooLarge):
		return common.ErrTooLarge.Wrap(err)
	default:
		return common.AsCustomError(err)
	}
}

// respondError 記錄並回傳錯誤
func (h *Handler) respondError(c *gin.Context, err error) {
	ce := toCustomError(err)

	fields := []zap.Field{
		zap.String("code", ce.Code),
		zap.Error(err),
		zap.String("request_id", requestid.Get(c)),
	}
	if ce.Status >= http.StatusInternalServerError {
		common.LogError("請求處理失敗", fields...)
	} else {
		common.LogDebug("請求處理失敗", fields...)
	}

	c.JSON(ce.Status, ce.Response(h.debug))
}

// bindError 請求格式錯誤
func (h *Handler) bindError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.respondError(c, err)
		return
	}

	common.LogWarn("請求格式無效",
		zap.Error(err),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusBadRequest, common.ErrInvalidRequest.Wrap(err).Response(h.debug))
}
