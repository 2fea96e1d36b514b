package flavor

import (
	"fmt"
	"strings"
)

// Dimension 風味維度；宣告順序即為排序時的平手順序
type Dimension int

const (
	Sweetness Dimension = iota
	Saltiness
	Acidity
	Bitterness
	Umami
	Heat
	Fattiness
	Aromatic
)

// NumDimensions 維度總數
const NumDimensions = int(Aromatic) + 1

var dimensionNames = [NumDimensions]string{
	"sweetness",
	"saltiness",
	"acidity",
	"bitterness",
	"umami",
	"heat",
	"fattiness",
	"aromatic",
}

// 資料檔常見的別名
var dimensionAliases = map[string]Dimension{
	"sweet":     Sweetness,
	"salty":     Saltiness,
	"salt":      Saltiness,
	"sour":      Acidity,
	"acid":      Acidity,
	"bitter":    Bitterness,
	"savory":    Umami,
	"spicy":     Heat,
	"spice":     Heat,
	"spiciness": Heat,
	"fat":       Fattiness,
	"fatty":     Fattiness,
	"richness":  Fattiness,
	"aroma":     Aromatic,
	"aromatics": Aromatic,
}

// Dimensions 依宣告順序回傳所有維度
func Dimensions() []Dimension {
	dims := make([]Dimension, NumDimensions)
	for i := range dims {
		dims[i] = Dimension(i)
	}
	return dims
}

// Valid 是否為已定義的維度
func (d Dimension) Valid() bool {
	return d >= 0 && int(d) < NumDimensions
}

func (d Dimension) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Dimension(%d)", int(d))
	}
	return dimensionNames[d]
}

// ParseDimension 解析維度名稱（不分大小寫，接受別名）
func ParseDimension(name string) (Dimension, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range dimensionNames {
		if n == key {
			return Dimension(i), nil
		}
	}
	if d, ok := dimensionAliases[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("unknown flavor dimension %q", name)
}

// MarshalText 實現 encoding.TextMarshaler
func (d Dimension) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid flavor dimension %d", int(d))
	}
	return []byte(dimensionNames[d]), nil
}

// UnmarshalText 實現 encoding.TextUnmarshaler
func (d *Dimension) UnmarshalText(text []byte) error {
	parsed, err := ParseDimension(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
