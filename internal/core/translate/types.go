package translate

import (
	"slices"
	"strings"

	"food-translator/internal/core/flavor"
)

// Dish 料理：名稱、菜系、食材與快取的原始風味向量
type Dish struct {
	Name        string        `json:"name"`
	Cuisine     string        `json:"cuisine"`
	Image       string        `json:"image,omitempty"`
	Ingredients []string      `json:"ingredients"`
	Vector      flavor.Vector `json:"-"`
}

// NewDish 建立料理並計算原始向量
func NewDish(lex *flavor.Lexicon, name, cuisine, image string, ingredients []string) Dish {
	return Dish{
		Name:        name,
		Cuisine:     cuisine,
		Image:       image,
		Ingredients: slices.Clone(ingredients),
		Vector:      lex.Vectorize(ingredients),
	}
}

// SameName 名稱是否相同（不分大小寫）
func (d Dish) SameName(name string) bool {
	return strings.EqualFold(d.Name, name)
}

// Normalized 正規化後的風味向量
func (d Dish) Normalized() flavor.Vector {
	return flavor.Normalize(d.Vector)
}

// Universe 可供比對的料理集合，依宣告順序排列，唯讀
type Universe []Dish

// Find 依宣告順序回傳第一個名稱包含查詢字串的料理（不分大小寫）
func (u Universe) Find(query string) (Dish, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Dish{}, false
	}
	for _, d := range u {
		if strings.Contains(strings.ToLower(d.Name), q) {
			return d, true
		}
	}
	return Dish{}, false
}

// Candidates 菜系完全相符（區分大小寫）且名稱與來源不同的料理
func (u Universe) Candidates(cuisine, sourceName string) []Dish {
	var out []Dish
	for _, d := range u {
		if d.Cuisine == cuisine && !d.SameName(sourceName) {
			out = append(out, d)
		}
	}
	return out
}

// Search 名稱包含 query（不分大小寫）且菜系相符的料理；空字串代表不篩選
func (u Universe) Search(query, cuisine string) []Dish {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Dish, 0)
	for _, d := range u {
		if cuisine != "" && d.Cuisine != cuisine {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(d.Name), q) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// CuisineCount 菜系與料理數量
type CuisineCount struct {
	Name   string `json:"name"`
	Dishes int    `json:"dishes"`
}

// Cuisines 依首次出現順序列出菜系
func (u Universe) Cuisines() []CuisineCount {
	index := make(map[string]int)
	var out []CuisineCount
	for _, d := range u {
		i, ok := index[d.Cuisine]
		if !ok {
			index[d.Cuisine] = len(out)
			out = append(out, CuisineCount{Name: d.Cuisine})
			i = len(out) - 1
		}
		out[i].Dishes++
	}
	return out
}

// Candidate 一個被評分的候選料理
type Candidate struct {
	Dish       Dish
	Normalized flavor.Vector
	Similarity float64
	Percent    int
	Shared     []flavor.Dimension
}

// Result 一次翻譯的結果
type Result struct {
	Source           Dish
	SourceNormalized flavor.Vector
	Match            Candidate
	// Alternatives 勝出者之後的候選，順序與排名規則相同
	Alternatives []Candidate
}
