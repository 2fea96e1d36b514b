package common

import (
	"errors"
	"net/http"
)

// ErrorResponse 定義 API 錯誤響應結構
type ErrorResponse struct {
	Error   string `json:"error"`             // 錯誤信息
	Code    string `json:"code"`              // 錯誤代碼
	Details any    `json:"details,omitempty"` // 詳細信息（僅在開發模式顯示）
}

// CustomError 定義自定義錯誤類型
type CustomError struct {
	Code    string // 錯誤代碼
	Message string // 錯誤信息
	Err     error  // 原始錯誤
	Status  int    // HTTP 狀態碼
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap 讓 errors.Is / errors.As 可以穿透
func (e *CustomError) Unwrap() error {
	return e.Err
}

// Is 以錯誤代碼比對
func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	return ok && t.Code == e.Code
}

// NewError 創建新的自定義錯誤
func NewError(code string, message string, status int, err error) *CustomError {
	return &CustomError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// WithMessage 複製錯誤並替換訊息
func (e *CustomError) WithMessage(message string) *CustomError {
	return NewError(e.Code, message, e.Status, e.Err)
}

// Wrap 複製錯誤並附上原始錯誤
func (e *CustomError) Wrap(err error) *CustomError {
	return NewError(e.Code, e.Message, e.Status, err)
}

// Response 轉換為 API 錯誤響應；debug 模式附上原始錯誤
func (e *CustomError) Response(debug bool) ErrorResponse {
	resp := ErrorResponse{Error: e.Message, Code: e.Code}
	if debug && e.Err != nil {
		resp.Details = e.Err.Error()
	}
	return resp
}

// ValidationError 表示驗證錯誤
type ValidationError struct {
	message string
}

// Error 實現 error 介面
func (e *ValidationError) Error() string {
	return e.message
}

// NewValidationError 創建新的驗證錯誤
func NewValidationError(message string) error {
	return &ValidationError{
		message: message,
	}
}

// IsValidationError 檢查是否為驗證錯誤
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsCustomError 取出錯誤鏈中的 CustomError；找不到時回傳 ErrInternalError
func AsCustomError(err error) *CustomError {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce
	}
	if IsValidationError(err) {
		return ErrInvalidRequest.WithMessage(err.Error())
	}
	return ErrInternalError.Wrap(err)
}

// 預定義錯誤代碼
const (
	// 客戶端錯誤 (4xx)
	ErrCodeInvalidRequest  = "INVALID_REQUEST"   // 400
	ErrCodeNotFound        = "NOT_FOUND"         // 404
	ErrCodeSourceNotFound  = "SOURCE_NOT_FOUND"  // 404
	ErrCodeNoCandidates    = "NO_CANDIDATES"     // 404
	ErrCodeRequestTimeout  = "REQUEST_TIMEOUT"   // 408
	ErrCodeTooLarge        = "REQUEST_TOO_LARGE" // 413
	ErrCodeTooManyRequests = "TOO_MANY_REQUESTS" // 429

	// 服務器錯誤 (5xx)
	ErrCodeInternalError      = "INTERNAL_ERROR"      // 500
	ErrCodeLookupUnavailable  = "LOOKUP_UNAVAILABLE"  // 502
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503
	ErrCodeGatewayTimeout     = "GATEWAY_TIMEOUT"     // 504
)

// 預定義錯誤
var (
	// 客戶端錯誤
	ErrInvalidRequest  = NewError(ErrCodeInvalidRequest, "invalid request", http.StatusBadRequest, nil)
	ErrNotFound        = NewError(ErrCodeNotFound, "resource not found", http.StatusNotFound, nil)
	ErrSourceNotFound  = NewError(ErrCodeSourceNotFound, "source dish not found", http.StatusNotFound, nil)
	ErrNoCandidates    = NewError(ErrCodeNoCandidates, "no candidate dishes for target cuisine", http.StatusNotFound, nil)
	ErrRequestTimeout  = NewError(ErrCodeRequestTimeout, "request timeout", http.StatusRequestTimeout, nil)
	ErrTooLarge        = NewError(ErrCodeTooLarge, "request body too large", http.StatusRequestEntityTooLarge, nil)
	ErrTooManyRequests = NewError(ErrCodeTooManyRequests, "too many requests", http.StatusTooManyRequests, nil)

	// 服務器錯誤
	ErrInternalError      = NewError(ErrCodeInternalError, "internal server error", http.StatusInternalServerError, nil)
	ErrLookupUnavailable  = NewError(ErrCodeLookupUnavailable, "recipe lookup unavailable", http.StatusBadGateway, nil)
	ErrServiceUnavailable = NewError(ErrCodeServiceUnavailable, "service temporarily unavailable", http.StatusServiceUnavailable, nil)
	ErrGatewayTimeout     = NewError(ErrCodeGatewayTimeout, "gateway timeout", http.StatusGatewayTimeout, nil)

	// 快取錯誤
	ErrCacheMiss = errors.New("cache miss")
	ErrCacheFull = NewError("CACHE_FULL", "cache is full", http.StatusServiceUnavailable, nil)
)
