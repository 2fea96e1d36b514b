package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"food-translator/internal/api/handlers/translator"
	"food-translator/internal/core/catalog"
	"food-translator/internal/core/flavor"
	"food-translator/internal/core/service"
	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Version: "test"},
		Server: config.ServerConfig{
			RequestTimeout: 5 * time.Second,
			MaxBodyBytes:   1 << 20,
			AllowOrigins:   []string{"*"},
		},
		Batch:   config.BatchConfig{Workers: 2, MaxTargets: 5},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func testCatalog(t *testing.T) *catalog.Store {
	t.Helper()
	lex, err := flavor.NewLexicon(map[string]flavor.Vector{
		"tomato":  {flavor.Acidity: 3, flavor.Sweetness: 1},
		"basil":   {flavor.Aromatic: 2},
		"chili":   {flavor.Heat: 4},
		"coconut": {flavor.Fattiness: 3, flavor.Sweetness: 1.5},
		"lime":    {flavor.Acidity: 3.5},
		"fish":    {flavor.Saltiness: 3, flavor.Umami: 2.5},
		"cheese":  {flavor.Fattiness: 3, flavor.Umami: 2, flavor.Saltiness: 1.5},
	})
	require.NoError(t, err)

	snap, err := catalog.NewSnapshot(lex, []catalog.DishRecord{
		{Name: "Margherita Pizza", Cuisine: "Italian", Image: "pizza.jpg", Ingredients: []string{"tomato", "basil", "mozzarella cheese"}},
		{Name: "Tom Yum", Cuisine: "Thai", Ingredients: []string{"lime", "chili", "fish sauce"}},
		{Name: "Green Curry", Cuisine: "Thai", Ingredients: []string{"coconut milk", "chili", "thai basil", "fish sauce"}},
		{Name: "Som Tam", Cuisine: "Thai", Ingredients: []string{"lime", "tomato", "chili", "fish sauce"}},
		{Name: "Pico de Gallo", Cuisine: "Mexican", Ingredients: []string{"tomato", "lime", "chili"}},
	})
	require.NoError(t, err)
	return catalog.NewStaticStore(snap)
}

func newTestRouter(t *testing.T, cfg *config.Config, store *catalog.Store) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	svc := service.NewTranslator(store, nil, nil, cfg.Batch)
	router, err := SetupRouter(ctx, cfg, Dependencies{Translator: svc})
	require.NoError(t, err)
	return router
}

func do(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) common.ErrorResponse {
	t.Helper()
	var resp common.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func TestTranslateEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodPost, "/api/v1/translate", `{"dish":"pico","target_cuisine":"Thai","alternatives":1}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(common.RequestIDHeader))

	var resp translator.TranslateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Pico de Gallo", resp.Source.Name)
	assert.Equal(t, "Mexican", resp.Source.Cuisine)
	assert.Equal(t, "Som Tam", resp.Target.Name)
	assert.Equal(t, "Thai", resp.Target.Cuisine)
	assert.InDelta(t, 100.0, resp.Source.Vector[flavor.Acidity], 1e-9)
	assert.Greater(t, resp.Similarity, 0)
	assert.LessOrEqual(t, resp.Similarity, 100)
	assert.Contains(t, resp.SharedTraits, flavor.Acidity)
	require.Len(t, resp.Alternatives, 1)
	assert.LessOrEqual(t, resp.Alternatives[0].Similarity, resp.Similarity)
}

func TestTranslateEndpointResponseShape(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodPost, "/api/v1/translate", `{"ingredients":["water"],"target_cuisine":"Thai"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var raw map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	assert.Equal(t, []any{}, raw["shared_traits"])
	assert.Equal(t, []any{}, raw["alternatives"])
	assert.Equal(t, 0.0, raw["similarity"])

	source := raw["source"].(map[string]any)
	assert.Equal(t, service.CustomDishName, source["name"])
	vector := source["vector"].(map[string]any)
	assert.Len(t, vector, flavor.NumDimensions)
}

func TestTranslateEndpointErrors(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"SourceNotFound", `{"dish":"Bibimbap","target_cuisine":"Thai"}`, http.StatusNotFound, common.ErrCodeSourceNotFound},
		{"NoCandidates", `{"dish":"Tom Yum","target_cuisine":"Japanese"}`, http.StatusNotFound, common.ErrCodeNoCandidates},
		{"CaseSensitiveCuisine", `{"dish":"Tom Yum","target_cuisine":"thai"}`, http.StatusNotFound, common.ErrCodeNoCandidates},
		{"MissingTarget", `{"dish":"Tom Yum"}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"MissingSource", `{"target_cuisine":"Thai"}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"TooManyAlternatives", `{"dish":"Tom Yum","target_cuisine":"Thai","alternatives":11}`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
		{"MalformedJSON", `{"dish":`, http.StatusBadRequest, common.ErrCodeInvalidRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodPost, "/api/v1/translate", tt.body)
			require.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}

	w := do(router, http.MethodPost, "/api/v1/translate", `{"dish":"Bibimbap","target_cuisine":"Thai"}`)
	assert.Equal(t, "source dish not found", decodeError(t, w).Error)

	w = do(router, http.MethodPost, "/api/v1/translate", `{"dish":"Tom Yum","target_cuisine":"Japanese"}`)
	assert.Contains(t, decodeError(t, w).Error, "Japanese")
}

func TestBatchEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodPost, "/api/v1/translate/batch", `{"dish":"Pico de Gallo","target_cuisines":["Thai","Japanese","Italian"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp translator.BatchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 3)

	assert.Equal(t, "Thai", resp.Results[0].TargetCuisine)
	require.NotNil(t, resp.Results[0].Result)
	assert.Equal(t, "Som Tam", resp.Results[0].Result.Target.Name)

	assert.Nil(t, resp.Results[1].Result)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, common.ErrCodeNoCandidates, resp.Results[1].Error.Code)

	require.NotNil(t, resp.Results[2].Result)
	assert.Equal(t, "Margherita Pizza", resp.Results[2].Result.Target.Name)

	w = do(router, http.MethodPost, "/api/v1/translate/batch", `{"dish":"Tom Yum","target_cuisines":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/translate/batch", `{"dish":"Tom Yum","target_cuisines":["A","B","C","D","E","F"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/v1/translate/batch", `{"dish":"Bibimbap","target_cuisines":["Thai"]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVectorizeEndpoint(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodPost, "/api/v1/vectorize", `{"ingredients":["cherry tomato","sea salt","fish sauce"]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp translator.VectorizeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"tomato", "fish"}, resp.Matched)
	assert.InDelta(t, 3.0, resp.Raw[flavor.Acidity], 1e-9)
	assert.InDelta(t, 100.0, resp.Normalized.Max(), 1e-9)

	w = do(router, http.MethodPost, "/api/v1/vectorize", `{"ingredients":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodGet, "/api/v1/dishes?cuisine=Thai", "")
	require.Equal(t, http.StatusOK, w.Code)
	var dishes translator.DishesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dishes))
	assert.Equal(t, 3, dishes.Count)
	assert.Equal(t, "Tom Yum", dishes.Dishes[0].Name)

	w = do(router, http.MethodGet, "/api/v1/dishes?q=PIZZA", "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dishes))
	require.Equal(t, 1, dishes.Count)
	assert.Equal(t, "pizza.jpg", dishes.Dishes[0].Image)

	w = do(router, http.MethodGet, "/api/v1/dishes?q=sushi", "")
	assert.JSONEq(t, `{"dishes":[],"count":0}`, w.Body.String())

	w = do(router, http.MethodGet, "/api/v1/cuisines", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"cuisines":[
		{"name":"Italian","dishes":1},
		{"name":"Thai","dishes":3},
		{"name":"Mexican","dishes":1}
	]}`, w.Body.String())
}

func TestReloadEndpointFailureKeepsCatalog(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodPost, "/api/v1/catalog/reload", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "catalog reload failed", decodeError(t, w).Error)

	w = do(router, http.MethodGet, "/api/v1/cuisines", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	w := do(router, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, "test", health["version"])
	assert.Equal(t, 5.0, health["catalog"].(map[string]any)["dishes"])

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/live", "").Code)

	empty := newTestRouter(t, testConfig(), &catalog.Store{})
	assert.Equal(t, http.StatusServiceUnavailable, do(empty, http.MethodGet, "/ready", "").Code)

	w = do(empty, http.MethodPost, "/api/v1/translate", `{"dish":"Tom Yum","target_cuisine":"Thai"}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsAndNoRoute(t *testing.T) {
	router := newTestRouter(t, testConfig(), testCatalog(t))

	do(router, http.MethodGet, "/api/v1/cuisines", "")
	w := do(router, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "food_translator_http_requests_total")

	w = do(router, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, common.ErrCodeNotFound, decodeError(t, w).Code)
}

func TestBodySizeLimit(t *testing.T) {
	cfg := testConfig()
	cfg.Server.MaxBodyBytes = 16
	router := newTestRouter(t, cfg, testCatalog(t))

	w := do(router, http.MethodPost, "/api/v1/translate", `{"dish":"Tom Yum","target_cuisine":"Thai"}`)
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, common.ErrCodeTooLarge, decodeError(t, w).Code)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, Requests: 2, Window: time.Minute}
	router := newTestRouter(t, cfg, testCatalog(t))

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/cuisines", "").Code)
	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/api/v1/cuisines", "").Code)

	w := do(router, http.MethodGet, "/api/v1/cuisines", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do(router, http.MethodGet, "/health", "").Code, "health is not rate limited")
}

func TestDeduplication(t *testing.T) {
	cfg := testConfig()
	cfg.DedupWindow = time.Minute
	router := newTestRouter(t, cfg, testCatalog(t))

	body := `{"dish":"Tom Yum","target_cuisine":"Thai"}`
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/v1/translate", body).Code)

	w := do(router, http.MethodPost, "/api/v1/translate", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	other := `{"dish":"Tom Yum","target_cuisine":"Italian"}`
	assert.Equal(t, http.StatusOK, do(router, http.MethodPost, "/api/v1/translate", other).Code)
}

func TestSetupRouterRequiresTranslator(t *testing.T) {
	_, err := SetupRouter(context.Background(), testConfig(), Dependencies{})
	assert.Error(t, err)
}
