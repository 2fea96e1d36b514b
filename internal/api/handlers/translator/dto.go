package translator

import (
	"time"

	"food-translator/internal/core/flavor"
	"food-translator/internal/core/translate"
	"food-translator/internal/pkg/common"
)

// TranslateRequest 翻譯請求；dish 與 ingredients 至少提供一個
type TranslateRequest struct {
	Dish          string   `json:"dish"`                                          // 來源料理名稱
	Ingredients   []string `json:"ingredients,omitempty"`                         // 直接提供的食材，優先於名稱查詢
	SourceCuisine string   `json:"source_cuisine,omitempty"`                      // 只在提供食材時使用
	TargetCuisine string   `json:"target_cuisine" binding:"required"`             // 目標菜系，區分大小寫
	Alternatives  int      `json:"alternatives" binding:"omitempty,min=0,max=10"` // 額外回傳的候選數
}

// BatchRequest 批次翻譯請求
type BatchRequest struct {
	Dish           string   `json:"dish"`
	Ingredients    []string `json:"ingredients,omitempty"`
	SourceCuisine  string   `json:"source_cuisine,omitempty"`
	TargetCuisines []string `json:"target_cuisines" binding:"required,min=1"`
	Alternatives   int      `json:"alternatives" binding:"omitempty,min=0,max=10"`
}

// VectorizeRequest 食材向量請求
type VectorizeRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

// DishView 料理與其正規化向量
type DishView struct {
	Name        string        `json:"name"`
	Cuisine     string        `json:"cuisine"`
	Image       string        `json:"image,omitempty"`
	Ingredients []string      `json:"ingredients"`
	Vector      flavor.Vector `json:"vector"`
}

// AlternativeView 替代候選
type AlternativeView struct {
	Dish         DishView           `json:"dish"`
	Similarity   int                `json:"similarity"`
	SharedTraits []flavor.Dimension `json:"shared_traits"`
}

// TranslateResponse 翻譯回應
type TranslateResponse struct {
	Source       DishView           `json:"source"`
	Target       DishView           `json:"target"`
	Similarity   int                `json:"similarity"`
	SharedTraits []flavor.Dimension `json:"shared_traits"`
	Alternatives []AlternativeView  `json:"alternatives"`
}

// BatchItemResponse 批次中單一菜系的結果
type BatchItemResponse struct {
	TargetCuisine string                `json:"target_cuisine"`
	Result        *TranslateResponse    `json:"result,omitempty"`
	Error         *common.ErrorResponse `json:"error,omitempty"`
}

// BatchResponse 批次翻譯回應
type BatchResponse struct {
	Results []BatchItemResponse `json:"results"`
}

// VectorizeResponse 食材向量回應
type VectorizeResponse struct {
	Raw        flavor.Vector `json:"raw"`
	Normalized flavor.Vector `json:"normalized"`
	Matched    []string      `json:"matched"`
}

// DishesResponse 料理搜尋回應
type DishesResponse struct {
	Dishes []DishView `json:"dishes"`
	Count  int        `json:"count"`
}

// CuisinesResponse 菜系列表回應
type CuisinesResponse struct {
	Cuisines []translate.CuisineCount `json:"cuisines"`
}

// ReloadResponse 重新載入回應
type ReloadResponse struct {
	Version        uint64    `json:"version"`
	Dishes         int       `json:"dishes"`
	LexiconEntries int       `json:"lexicon_entries"`
	LoadedAt       time.Time `json:"loaded_at"`
}

func newDishView(d translate.Dish, normalized flavor.Vector) DishView {
	ingredients := d.Ingredients
	if ingredients == nil {
		ingredients = []string{}
	}
	return DishView{
		Name:        d.Name,
		Cuisine:     d.Cuisine,
		Image:       d.Image,
		Ingredients: ingredients,
		Vector:      normalized,
	}
}

func traits(dims []flavor.Dimension) []flavor.Dimension {
	if dims == nil {
		return []flavor.Dimension{}
	}
	return dims
}

func newTranslateResponse(r *translate.Result) *TranslateResponse {
	resp := &TranslateResponse{
		Source:       newDishView(r.Source, r.SourceNormalized),
		Target:       newDishView(r.Match.Dish, r.Match.Normalized),
		Similarity:   r.Match.Percent,
		SharedTraits: traits(r.Match.Shared),
		Alternatives: make([]AlternativeView, 0, len(r.Alternatives)),
	}
	for _, alt := range r.Alternatives {
		resp.Alternatives = append(resp.Alternatives, AlternativeView{
			Dish:         newDishView(alt.Dish, alt.Normalized),
			Similarity:   alt.Percent,
			SharedTraits: traits(alt.Shared),
		})
	}
	return resp
}
