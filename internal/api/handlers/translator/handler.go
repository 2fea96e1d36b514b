package translator

import (
	"net/http"

	"food-translator/internal/core/service"
	"food-translator/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 風味翻譯相關 API
type Handler struct {
	svc   *service.Translator
	debug bool
}

// NewHandler 創建處理器；debug 時錯誤回應附上原始錯誤
func NewHandler(svc *service.Translator, debug bool) *Handler {
	return &Handler{svc: svc, debug: debug}
}

// Register 註冊路由
func (h *Handler) Register(r gin.IRouter) {
	r.POST("/translate", h.HandleTranslate)
	r.POST("/translate/batch", h.HandleBatch)
	r.POST("/vectorize", h.HandleVectorize)
	r.GET("/dishes", h.HandleDishes)
	r.GET("/cuisines", h.HandleCuisines)
	r.POST("/catalog/reload", h.HandleReload)
}

// HandleTranslate 處理 /translate：找出目標菜系中風味最接近的料理
func (h *Handler) HandleTranslate(c *gin.Context) {
	var req TranslateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	common.LogDebug("開始處理翻譯請求",
		zap.String("dish", req.Dish),
		zap.Int("ingredients", len(req.Ingredients)),
		zap.String("target_cuisine", req.TargetCuisine),
		zap.String("request_id", requestid.Get(c)),
	)

	result, err := h.svc.Translate(c.Request.Context(), service.Request{
		Source: service.Source{
			Dish:        req.Dish,
			Cuisine:     req.SourceCuisine,
			Ingredients: req.Ingredients,
		},
		TargetCuisine: req.TargetCuisine,
		Alternatives:  req.Alternatives,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newTranslateResponse(result))
}

// HandleBatch 處理 /translate/batch：同一道料理翻譯到多個菜系
func (h *Handler) HandleBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	items, err := h.svc.TranslateBatch(c.Request.Context(), service.BatchRequest{
		Source: service.Source{
			Dish:        req.Dish,
			Cuisine:     req.SourceCuisine,
			Ingredients: req.Ingredients,
		},
		TargetCuisines: req.TargetCuisines,
		Alternatives:   req.Alternatives,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := BatchResponse{Results: make([]BatchItemResponse, len(items))}
	for i, item := range items {
		resp.Results[i].TargetCuisine = item.TargetCuisine
		if item.Err != nil {
			e := toCustomError(item.Err).Response(h.debug)
			resp.Results[i].Error = &e
			continue
		}
		resp.Results[i].Result = newTranslateResponse(item.Result)
	}

	c.JSON(http.StatusOK, resp)
}

// HandleVectorize 處理 /vectorize：回傳食材清單的原始與正規化向量
func (h *Handler) HandleVectorize(c *gin.Context) {
	var req VectorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	result, err := h.svc.Vectorize(req.Ingredients)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, VectorizeResponse{
		Raw:        result.Raw,
		Normalized: result.Normalized,
		Matched:    result.Matched,
	})
}

// HandleDishes 處理 /dishes?q=&cuisine=
func (h *Handler) HandleDishes(c *gin.Context) {
	dishes, err := h.svc.Dishes(c.Query("q"), c.Query("cuisine"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := DishesResponse{Dishes: make([]DishView, len(dishes)), Count: len(dishes)}
	for i, d := range dishes {
		resp.Dishes[i] = newDishView(d, d.Normalized())
	}
	c.JSON(http.StatusOK, resp)
}

// HandleCuisines 處理 /cuisines
func (h *Handler) HandleCuisines(c *gin.Context) {
	cuisines, err := h.svc.Cuisines()
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, CuisinesResponse{Cuisines: cuisines})
}

// HandleReload 處理 /catalog/reload：重新讀取詞庫與料理資料
func (h *Handler) HandleReload(c *gin.Context) {
	snap, err := h.svc.Reload()
	if err != nil {
		h.respondError(c, common.ErrInternalError.WithMessage("catalog reload failed").Wrap(err))
		return
	}

	common.LogInfo("資料已透過 API 重新載入",
		zap.Uint64("version", snap.Version),
		zap.String("client_ip", c.ClientIP()),
		zap.String("request_id", requestid.Get(c)),
	)
	c.JSON(http.StatusOK, ReloadResponse{
		Version:        snap.Version,
		Dishes:         len(snap.Universe),
		LexiconEntries: snap.Lexicon.Len(),
		LoadedAt:       snap.LoadedAt,
	})
}
