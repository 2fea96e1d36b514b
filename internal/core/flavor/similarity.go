package flavor

import (
	"cmp"
	"math"
	"slices"
)

// Score 兩個向量的比較結果
type Score struct {
	// Similarity 餘弦相似度，範圍 [0,1]
	Similarity float64
	// Shared 兩者正規化值皆大於 0 的維度，依原始值總和遞減排序
	Shared []Dimension
}

// Percent 相似度四捨五入為整數百分比
func (s Score) Percent() int {
	return int(math.Round(s.Similarity * 100))
}

// Cosine 原始向量的餘弦相似度。任一方為零向量時定義為 0。
func Cosine(a, b Vector) float64 {
	ma, mb := a.Magnitude(), b.Magnitude()
	if ma == 0 || mb == 0 {
		return 0
	}
	sim := a.Dot(b) / (ma * mb)
	switch {
	case math.IsNaN(sim), sim < 0:
		return 0
	case sim > 1:
		return 1
	}
	return sim
}

// SharedDimensions 由正規化向量判斷共同維度，再依原始值總和遞減排序，平手時依宣告順序
func SharedDimensions(a, b Vector) []Dimension {
	na, nb := Normalize(a), Normalize(b)
	shared := make([]Dimension, 0, NumDimensions)
	for _, d := range Dimensions() {
		if na.Get(d) > 0 && nb.Get(d) > 0 {
			shared = append(shared, d)
		}
	}
	slices.SortStableFunc(shared, func(x, y Dimension) int {
		if c := cmp.Compare(a[y]+b[y], a[x]+b[x]); c != 0 {
			return c
		}
		return cmp.Compare(x, y)
	})
	return shared
}

// Compare 計算相似度與共同維度
func Compare(a, b Vector) Score {
	return Score{
		Similarity: Cosine(a, b),
		Shared:     SharedDimensions(a, b),
	}
}
