package lookup

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"
	"food-translator/internal/pkg/metrics"

	"github.com/go-resty/resty/v2"
	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/tidwall/gjson"
)

var (
	// ErrNotFound 外部資料庫沒有這道料理
	ErrNotFound = errors.New("recipe not found")
	// ErrUnavailable 外部服務無法使用（傳輸錯誤、非預期狀態碼或斷路器開啟）
	ErrUnavailable = errors.New("recipe lookup unavailable")
)

// Recipe 外部查詢取得的料理
type Recipe struct {
	Title       string   `json:"title"`
	Cuisine     string   `json:"cuisine"`
	Image       string   `json:"image,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// Client 外部食譜查詢客戶端
type Client struct {
	config  config.LookupConfig
	client  *resty.Client
	breaker *gobreaker.CircuitBreaker[*Recipe]
}

// NewClient 創建食譜查詢客戶端
func NewClient(cfg config.LookupConfig) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(100 * time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err == nil && r.StatusCode() >= http.StatusInternalServerError
		})

	if cfg.APIKey != "" {
		client.SetHeader("X-API-Key", cfg.APIKey)
	}

	return &Client{
		config:  cfg,
		client:  client,
		breaker: newBreaker("recipe-lookup", cfg.Breaker),
	}
}

// FindByTitle 依名稱查詢料理
func (c *Client) FindByTitle(ctx context.Context, title string) (*Recipe, error) {
	start := time.Now()
	requestID := common.RequestIDFromContext(ctx)

	recipe, err := c.breaker.Execute(func() (*Recipe, error) {
		return c.fetch(ctx, title, requestID)
	})
	duration := time.Since(start)

	switch {
	case err == nil:
		metrics.RecordLookup("found", duration)
	case errors.Is(err, ErrNotFound):
		metrics.RecordLookup("not_found", duration)
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.RecordLookup("rejected", duration)
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	default:
		metrics.RecordLookup("error", duration)
		if !errors.Is(err, ErrUnavailable) {
			err = fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	common.LogLookupCall(title, duration, err, requestID)
	return recipe, err
}

// fetch 先搜尋名稱取得 id，再取得詳細內容
func (c *Client) fetch(ctx context.Context, title, requestID string) (*Recipe, error) {
	search, err := c.get(ctx, c.config.SearchPath, requestID, map[string]string{
		"title": title,
		"page":  "1",
		"limit": "1",
	})
	if err != nil {
		return nil, err
	}

	first := firstOf(search, "payload.data.0", "data.0", "0")
	if !first.Exists() {
		return nil, ErrNotFound
	}

	id := firstOf(first, "recipe_id", "Recipe_id")
	if !id.Exists() || id.String() == "" {
		return nil, fmt.Errorf("%w: search result has no recipe id", ErrUnavailable)
	}

	detailPath := strings.TrimRight(c.config.DetailPath, "/") + "/" + url.PathEscape(id.String())
	detail, err := c.get(ctx, detailPath, requestID, nil)
	if err != nil {
		return nil, err
	}

	body := firstOf(detail, "recipe", "payload.data", "data")
	if !body.Exists() {
		body = detail
	}

	recipe := parseRecipe(detail, body, first)
	if recipe.Title == "" {
		recipe.Title = title
	}
	return recipe, nil
}

// get 發送 GET 請求並回傳解析後的 JSON
func (c *Client) get(ctx context.Context, path, requestID string, query map[string]string) (gjson.Result, error) {
	req := c.client.R().SetContext(ctx)
	if requestID != "" {
		req.SetHeader(common.RequestIDHeader, requestID)
	}
	if query != nil {
		req.SetQueryParams(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("failed to send request to recipe API: %w", err)
	}

	if resp.StatusCode() == http.StatusNotFound {
		return gjson.Result{}, ErrNotFound
	}
	if resp.StatusCode() != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%w: recipe API returned status %d", ErrUnavailable, resp.StatusCode())
	}

	body := resp.Body()
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: recipe API returned invalid JSON", ErrUnavailable)
	}
	return gjson.ParseBytes(body), nil
}
