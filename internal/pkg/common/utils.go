package common

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader 請求 ID 標頭
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// RequestID 取出請求 ID，缺少時生成新的
func RequestID(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		return id
	}
	return GenerateUUID()
}

// NormalizeKey 統一查詢字串格式，去除前後空白並轉小寫，連續空白合併為一格
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// WithRequestID 將請求 ID 放入 context
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext 取出 context 內的請求 ID
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
