package flavor

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
)

// ErrEmptyLexicon 詞庫沒有任何條目
var ErrEmptyLexicon = errors.New("flavor lexicon is empty")

// Entry 詞庫條目：食材名稱片段與其風味權重
type Entry struct {
	Key     string `json:"key"`
	Weights Vector `json:"weights"`
}

// Lexicon 食材片段到風味權重的對照表，建立後不可變更
type Lexicon struct {
	entries []Entry
}

// NewLexicon 由片段與權重建立詞庫。片段不分大小寫，重複的片段視為錯誤。
func NewLexicon(weights map[string]Vector) (*Lexicon, error) {
	if len(weights) == 0 {
		return nil, ErrEmptyLexicon
	}

	entries := make([]Entry, 0, len(weights))
	seen := make(map[string]bool, len(weights))
	for key, w := range weights {
		k := strings.ToLower(strings.TrimSpace(key))
		if k == "" {
			return nil, fmt.Errorf("lexicon entry with empty key")
		}
		if seen[k] {
			return nil, fmt.Errorf("duplicate lexicon key %q", k)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("lexicon entry %q: %w", k, err)
		}
		seen[k] = true
		entries = append(entries, Entry{Key: k, Weights: w})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Key, b.Key)
	})

	return &Lexicon{entries: entries}, nil
}

// Len 條目數量
func (l *Lexicon) Len() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Match 回傳名稱包含其片段的所有條目
func (l *Lexicon) Match(ingredient string) []Entry {
	if l == nil {
		return nil
	}
	name := strings.ToLower(ingredient)
	var matched []Entry
	for _, e := range l.entries {
		if strings.Contains(name, e.Key) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Vectorize 將食材清單轉為原始風味向量。
//
// 每個食材會加總所有命中條目的權重；未命中的食材與空清單都得到零向量。
// 累加前先排序食材名稱，浮點加總結果不受輸入順序影響。
func (l *Lexicon) Vectorize(ingredients []string) Vector {
	var acc Vector
	if l == nil || len(ingredients) == 0 {
		return acc
	}

	names := make([]string, len(ingredients))
	for i, ing := range ingredients {
		names[i] = strings.ToLower(ing)
	}
	slices.Sort(names)

	for _, name := range names {
		for _, e := range l.entries {
			if strings.Contains(name, e.Key) {
				acc = acc.Add(e.Weights)
			}
		}
	}
	// 權重各自有限，加總仍可能溢位
	for i, x := range acc {
		if math.IsInf(x, 1) {
			acc[i] = math.MaxFloat64
		}
	}
	return acc
}
