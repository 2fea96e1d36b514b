package catalog

import (
	"fmt"
	"strings"

	"food-translator/internal/core/flavor"
	"food-translator/internal/core/translate"
	"food-translator/internal/pkg/common"
)

// DishRecord 料理資料檔中的一筆資料
type DishRecord struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Cuisine     string   `json:"cuisine"`
	Image       string   `json:"image,omitempty"`
	Ingredients []string `json:"ingredients"`
}

// LoadLexicon 讀取詞庫檔：{"片段": {"維度": 權重, ...}, ...}
func LoadLexicon(path string) (*flavor.Lexicon, error) {
	var raw map[string]flavor.Vector
	if err := common.DecodeJSONFile(path, &raw); err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	lex, err := flavor.NewLexicon(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid lexicon %s: %w", path, err)
	}
	return lex, nil
}

// LoadDishRecords 讀取料理資料檔（JSON 陣列）
func LoadDishRecords(path string) ([]DishRecord, error) {
	var records []DishRecord
	if err := common.DecodeJSONFile(path, &records); err != nil {
		return nil, fmt.Errorf("failed to read universe: %w", err)
	}
	return records, nil
}

// BuildUniverse 驗證資料並以詞庫計算每道料理的原始向量，保留檔案順序
func BuildUniverse(lex *flavor.Lexicon, records []DishRecord) (translate.Universe, error) {
	universe := make(translate.Universe, 0, len(records))
	seen := make(map[string]int, len(records))

	for i, r := range records {
		name := strings.TrimSpace(r.Name)
		cuisine := strings.TrimSpace(r.Cuisine)
		if name == "" {
			return nil, fmt.Errorf("dish #%d: name is required", i)
		}
		if cuisine == "" {
			return nil, fmt.Errorf("dish %q: cuisine is required", name)
		}
		key := strings.ToLower(name)
		if j, dup := seen[key]; dup {
			return nil, fmt.Errorf("dish %q: duplicate of dish #%d", name, j)
		}
		seen[key] = i

		universe = append(universe, translate.NewDish(lex, name, cuisine, r.Image, r.Ingredients))
	}
	return universe, nil
}
