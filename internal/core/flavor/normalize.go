package flavor

import "math"

// MaxNormalized 正規化後的上限
const MaxNormalized = 100.0

// Normalize 以最大分量為基準，將原始向量縮放到 [0,100]。
// 零向量回傳零向量。結果只用於顯示與共同特徵判斷，不可拿來計算相似度。
func Normalize(v Vector) Vector {
	var out Vector
	ref := v.Max()
	if ref <= 0 || math.IsNaN(ref) || math.IsInf(ref, 0) {
		return out
	}
	for i, x := range v {
		if x <= 0 || math.IsNaN(x) {
			continue
		}
		n := x / ref * MaxNormalized
		if n > MaxNormalized {
			n = MaxNormalized
		}
		out[i] = n
	}
	return out
}
