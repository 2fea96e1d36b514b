package translate

import (
	"cmp"
	"slices"

	"food-translator/internal/core/flavor"
)

// MaxAlternatives 最多回傳的替代候選數
const MaxAlternatives = 10

type options struct {
	alternatives int
}

// Option 翻譯選項
type Option func(*options)

// WithAlternatives 除最佳結果外，再回傳 n 個候選
func WithAlternatives(n int) Option {
	return func(o *options) {
		o.alternatives = min(max(n, 0), MaxAlternatives)
	}
}

// Translate 在 universe 中找出 targetCuisine 菜系裡與 source 最相近的料理。
//
// 候選為菜系完全相符且名稱與來源不同的料理；沒有候選時回傳 *NoCandidatesError。
// 相似度相同時，取 universe 中較前面的料理。
func Translate(source Dish, targetCuisine string, universe Universe, opts ...Option) (*Result, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	ranked, err := Rank(source, targetCuisine, universe)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Source:           source,
		SourceNormalized: flavor.Normalize(source.Vector),
		Match:            ranked[0],
	}
	if o.alternatives > 0 && len(ranked) > 1 {
		n := min(o.alternatives, len(ranked)-1)
		result.Alternatives = ranked[1 : 1+n]
	}
	return result, nil
}

// Rank 為所有候選評分並依相似度遞減排序；平手時保留 universe 順序
func Rank(source Dish, targetCuisine string, universe Universe) ([]Candidate, error) {
	candidates := universe.Candidates(targetCuisine, source.Name)
	if len(candidates) == 0 {
		return nil, &NoCandidatesError{Cuisine: targetCuisine}
	}

	scored := make([]Candidate, len(candidates))
	for i, d := range candidates {
		score := flavor.Compare(source.Vector, d.Vector)
		scored[i] = Candidate{
			Dish:       d,
			Normalized: flavor.Normalize(d.Vector),
			Similarity: score.Similarity,
			Percent:    score.Percent(),
			Shared:     score.Shared,
		}
	}

	slices.SortStableFunc(scored, func(a, b Candidate) int {
		return cmp.Compare(b.Similarity, a.Similarity)
	})
	return scored, nil
}
