package lookup

import (
	"strings"

	"github.com/tidwall/gjson"
)

// DefaultCuisine 外部資料未標示菜系時使用
const DefaultCuisine = "International"

// firstOf 回傳第一個存在的路徑
func firstOf(res gjson.Result, paths ...string) gjson.Result {
	for _, p := range paths {
		if r := res.Get(p); r.Exists() {
			return r
		}
	}
	return gjson.Result{}
}

// parseRecipe 從詳細內容解析料理，缺少的欄位以搜尋結果補上。
// 食材依序取自回應頂層、內層料理，最後才是搜尋結果。
func parseRecipe(response, body, summary gjson.Result) *Recipe {
	detail := body
	if detail.IsArray() {
		detail = detail.Get("0")
	}

	field := func(paths ...string) string {
		if r := firstOf(detail, paths...); r.Exists() {
			return strings.TrimSpace(r.String())
		}
		return strings.TrimSpace(firstOf(summary, paths...).String())
	}

	recipe := &Recipe{
		Title:   field("recipe_title", "name"),
		Cuisine: field("cuisine", "region"),
		Image:   field("img_url", "image_url"),
	}
	if recipe.Cuisine == "" {
		recipe.Cuisine = DefaultCuisine
	}

	ingredients := response.Get("ingredients")
	if !ingredients.Exists() {
		ingredients = detail.Get("ingredients")
	}
	if !ingredients.Exists() {
		ingredients = summary.Get("ingredients")
	}
	recipe.Ingredients = parseIngredients(ingredients)
	return recipe
}

// parseIngredients 食材可以是字串或含 ingredient 欄位的物件
func parseIngredients(res gjson.Result) []string {
	var out []string
	res.ForEach(func(_, item gjson.Result) bool {
		var name string
		switch {
		case item.Type == gjson.String:
			name = item.String()
		case item.IsObject():
			name = firstOf(item, "ingredient", "name").String()
		}
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
		return true
	})
	return out
}
