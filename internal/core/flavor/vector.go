package flavor

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/goccy/go-json"
)

// Vector 風味向量，每個維度固定存在，預設為 0
type Vector [NumDimensions]float64

// Get 取得指定維度的值
func (v Vector) Get(d Dimension) float64 {
	if !d.Valid() {
		return 0
	}
	return v[d]
}

// Add 逐維度相加
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Dot 內積
func (v Vector) Dot(o Vector) float64 {
	var sum float64
	for i := range v {
		sum += v[i] * o[i]
	}
	return sum
}

// Magnitude L2 長度
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// Max 最大分量
func (v Vector) Max() float64 {
	m := v[0]
	for _, x := range v[1:] {
		if x > m {
			m = x
		}
	}
	return m
}

// IsZero 是否為零向量
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Validate 檢查所有分量皆為有限的非負數
func (v Vector) Validate() error {
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%s: not a finite number", Dimension(i))
		}
		if x < 0 {
			return fmt.Errorf("%s: negative weight %g", Dimension(i), x)
		}
	}
	return nil
}

// MarshalJSON 依維度宣告順序輸出所有維度
func (v Vector) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, x := range v {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(dimensionNames[i])
		buf.WriteString(`":`)
		buf.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON 接受部分維度，未列出的維度為 0；未知維度視為錯誤
func (v *Vector) UnmarshalJSON(data []byte) error {
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Vector
	for name, x := range raw {
		d, err := ParseDimension(name)
		if err != nil {
			return err
		}
		out[d] += x
	}
	*v = out
	return nil
}
