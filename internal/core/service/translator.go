package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"food-translator/internal/core/cache"
	"food-translator/internal/core/catalog"
	"food-translator/internal/core/flavor"
	"food-translator/internal/core/lookup"
	"food-translator/internal/core/translate"
	"food-translator/internal/infrastructure/config"
	"food-translator/internal/pkg/common"
	"food-translator/internal/pkg/metrics"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// CustomDishName 只提供食材時的來源名稱
const CustomDishName = "Custom dish"

// Catalog 目前的詞庫與料理集合
type Catalog interface {
	Current() (*catalog.Snapshot, error)
	Reload() (*catalog.Snapshot, error)
}

// RecipeLookup 外部食譜查詢
type RecipeLookup interface {
	FindByTitle(ctx context.Context, title string) (*lookup.Recipe, error)
}

// Translator 解析來源料理並交給比對引擎
type Translator struct {
	catalog    Catalog
	lookup     RecipeLookup
	cache      cache.Store
	workers    int
	maxTargets int
}

// NewTranslator 創建翻譯服務；lookup 與 store 可為 nil
func NewTranslator(cat Catalog, lk RecipeLookup, store cache.Store, cfg config.BatchConfig) *Translator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Translator{
		catalog:    cat,
		lookup:     lk,
		cache:      store,
		workers:    workers,
		maxTargets: cfg.MaxTargets,
	}
}

// Source 來源料理描述：名稱查詢或直接提供食材
type Source struct {
	Dish        string
	Cuisine     string
	Ingredients []string
}

// Request 單一翻譯請求
type Request struct {
	Source
	TargetCuisine string
	Alternatives  int
}

// BatchRequest 同一道料理翻譯到多個菜系
type BatchRequest struct {
	Source
	TargetCuisines []string
	Alternatives   int
}

// BatchItem 批次中單一菜系的結果；失敗時 Err 不為 nil
type BatchItem struct {
	TargetCuisine string
	Result        *translate.Result
	Err           error
}

// VectorizeResult 食材清單的風味向量
type VectorizeResult struct {
	Raw        flavor.Vector
	Normalized flavor.Vector
	Matched    []string
}

func (s Source) validate() error {
	if strings.TrimSpace(s.Dish) == "" && len(s.Ingredients) == 0 {
		return common.NewValidationError("dish or ingredients is required")
	}
	return nil
}

// Translate 解析來源料理後，找出目標菜系中最相近的料理
func (t *Translator) Translate(ctx context.Context, req Request) (*translate.Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.TargetCuisine) == "" {
		return nil, common.NewValidationError("target_cuisine is required")
	}

	snap, err := t.catalog.Current()
	if err != nil {
		return nil, err
	}

	source, err := t.resolve(ctx, snap, req.Source)
	if err != nil {
		metrics.RecordTranslation(outcome(err), 0)
		return nil, err
	}

	result, err := translate.Translate(source, req.TargetCuisine, snap.Universe,
		translate.WithAlternatives(req.Alternatives))
	if err != nil {
		metrics.RecordTranslation(outcome(err), 0)
		return nil, err
	}

	metrics.RecordTranslation("success", result.Match.Percent)
	common.LogDebug("翻譯完成",
		zap.String("source", source.Name),
		zap.String("target_cuisine", req.TargetCuisine),
		zap.String("match", result.Match.Dish.Name),
		zap.Int("similarity", result.Match.Percent),
		zap.String("request_id", common.RequestIDFromContext(ctx)),
	)
	return result, nil
}

// TranslateBatch 來源只解析一次，各目標菜系並行比對
func (t *Translator) TranslateBatch(ctx context.Context, req BatchRequest) ([]BatchItem, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	if len(req.TargetCuisines) == 0 {
		return nil, common.NewValidationError("target_cuisines is required")
	}
	if t.maxTargets > 0 && len(req.TargetCuisines) > t.maxTargets {
		return nil, common.NewValidationError(fmt.Sprintf("at most %d target cuisines per request", t.maxTargets))
	}

	snap, err := t.catalog.Current()
	if err != nil {
		return nil, err
	}

	source, err := t.resolve(ctx, snap, req.Source)
	if err != nil {
		metrics.RecordTranslation(outcome(err), 0)
		return nil, err
	}

	items := make([]BatchItem, len(req.TargetCuisines))
	p := pool.New().WithMaxGoroutines(t.workers)
	for i, cuisine := range req.TargetCuisines {
		p.Go(func() {
			items[i].TargetCuisine = cuisine
			if err := ctx.Err(); err != nil {
				items[i].Err = err
				return
			}
			if strings.TrimSpace(cuisine) == "" {
				items[i].Err = common.NewValidationError("target cuisine is empty")
				return
			}
			result, err := translate.Translate(source, cuisine, snap.Universe,
				translate.WithAlternatives(req.Alternatives))
			if err != nil {
				metrics.RecordTranslation(outcome(err), 0)
				items[i].Err = err
				return
			}
			metrics.RecordTranslation("success", result.Match.Percent)
			items[i].Result = result
		})
	}
	p.Wait()

	return items, nil
}

// Vectorize 計算食材清單的原始與正規化向量
func (t *Translator) Vectorize(ingredients []string) (*VectorizeResult, error) {
	if len(ingredients) == 0 {
		return nil, common.NewValidationError("ingredients is required")
	}

	snap, err := t.catalog.Current()
	if err != nil {
		return nil, err
	}

	matched := make([]string, 0)
	seen := make(map[string]struct{})
	for _, ing := range ingredients {
		for _, e := range snap.Lexicon.Match(ing) {
			if _, ok := seen[e.Key]; ok {
				continue
			}
			seen[e.Key] = struct{}{}
			matched = append(matched, e.Key)
		}
	}

	raw := snap.Lexicon.Vectorize(ingredients)
	return &VectorizeResult{
		Raw:        raw,
		Normalized: flavor.Normalize(raw),
		Matched:    matched,
	}, nil
}

// Dishes 依名稱與菜系搜尋料理
func (t *Translator) Dishes(query, cuisine string) ([]translate.Dish, error) {
	snap, err := t.catalog.Current()
	if err != nil {
		return nil, err
	}
	return snap.Universe.Search(query, cuisine), nil
}

// Cuisines 列出菜系與料理數
func (t *Translator) Cuisines() ([]translate.CuisineCount, error) {
	snap, err := t.catalog.Current()
	if err != nil {
		return nil, err
	}
	return snap.Universe.Cuisines(), nil
}

// Reload 重新載入資料檔
func (t *Translator) Reload() (*catalog.Snapshot, error) {
	return t.catalog.Reload()
}

// Snapshot 目前的快照
func (t *Translator) Snapshot() (*catalog.Snapshot, error) {
	return t.catalog.Current()
}

// resolve 依序嘗試：直接提供的食材、本地料理、快取、外部查詢
func (t *Translator) resolve(ctx context.Context, snap *catalog.Snapshot, src Source) (translate.Dish, error) {
	if len(src.Ingredients) > 0 {
		name := strings.TrimSpace(src.Dish)
		if name == "" {
			name = CustomDishName
		}
		metrics.SourceResolutions.WithLabelValues("ingredients").Inc()
		return translate.NewDish(snap.Lexicon, name, strings.TrimSpace(src.Cuisine), "", src.Ingredients), nil
	}

	if dish, ok := snap.Universe.Find(src.Dish); ok {
		metrics.SourceResolutions.WithLabelValues("universe").Inc()
		return dish, nil
	}

	if t.lookup == nil {
		metrics.SourceResolutions.WithLabelValues("not_found").Inc()
		return translate.Dish{}, translate.ErrSourceNotFound
	}

	recipe, err := t.remote(ctx, src.Dish)
	if err != nil {
		if errors.Is(err, lookup.ErrNotFound) {
			metrics.SourceResolutions.WithLabelValues("not_found").Inc()
			return translate.Dish{}, translate.ErrSourceNotFound
		}
		return translate.Dish{}, err
	}

	return translate.NewDish(snap.Lexicon, recipe.Title, recipe.Cuisine, recipe.Image, recipe.Ingredients), nil
}

// remote 先查快取，未命中再呼叫外部服務並寫回快取
func (t *Translator) remote(ctx context.Context, title string) (*lookup.Recipe, error) {
	key := "lookup:" + common.NormalizeKey(title)

	if t.cache != nil {
		data, err := t.cache.Get(ctx, key)
		switch {
		case err == nil:
			var recipe lookup.Recipe
			// 欄位不符的舊格式視同未命中
			if err := common.ParseJSONBytesStrict(data, &recipe); err == nil {
				metrics.SourceResolutions.WithLabelValues("cache").Inc()
				return &recipe, nil
			}
			common.LogWarn("快取內容無法解析", zap.String("key", key))
		case !errors.Is(err, common.ErrCacheMiss):
			common.LogWarn("快取讀取失敗", zap.String("key", key), zap.Error(err))
		}
	}

	start := time.Now()
	recipe, err := t.lookup.FindByTitle(ctx, title)
	if err != nil {
		return nil, err
	}
	metrics.SourceResolutions.WithLabelValues("lookup").Inc()
	common.LogDebug("外部查詢取得料理",
		zap.String("title", recipe.Title),
		zap.Int("ingredients", len(recipe.Ingredients)),
		zap.Duration("耗時", time.Since(start)),
	)

	if t.cache != nil {
		data, err := common.MarshalJSON(recipe)
		if err == nil {
			err = t.cache.Set(ctx, key, data)
		}
		if err != nil {
			common.LogWarn("快取寫入失敗", zap.String("key", key), zap.Error(err))
		}
	}
	return recipe, nil
}

// outcome 指標用的失敗分類
func outcome(err error) string {
	switch {
	case errors.Is(err, translate.ErrSourceNotFound):
		return "source_not_found"
	case errors.Is(err, translate.ErrNoCandidates):
		return "no_candidates"
	case errors.Is(err, lookup.ErrUnavailable):
		return "lookup_unavailable"
	default:
		return "error"
	}
}
