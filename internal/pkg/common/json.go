package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"
)

// ParseJSONBytesStrict 解析 JSON 位元組切片到結構體（禁止未知欄位）
func ParseJSONBytesStrict(data []byte, v any) error {
	return decodeJSON(bytes.NewReader(data), v, true)
}

// DecodeJSONFile 讀取並解析 JSON 檔案
func DecodeJSONFile(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := decodeJSON(f, v, false); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func decodeJSON(r io.Reader, v any, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

// MarshalJSON 將結構體轉換為 JSON 位元組
func MarshalJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}
