package reference

import (
	"encoding/json"
	"fmt"
	"slices"
)

const (
	DefaultOutdoorFile = "page_05.png"
	DefaultHomeFile    = "page_12.png"
)

// DefaultConfig は dir 配下の page_05.png（屋外）と page_12.png（室内）を参照画像とする既定設定です。
func DefaultConfig(dir string) Config {
	return Config{
		Dir:            dir,
		OutdoorFile:    DefaultOutdoorFile,
		HomeFile:       DefaultHomeFile,
		HomePages:      []int{1, 2},
		ReferencePages: []int{5, 12},
	}
}

// ApplyJSON は JSON に含まれるキーだけを base に上書きした設定を返します。
// カタログファイルと同じ JSON を渡せるよう、未知のキーは無視するのだ。
func ApplyJSON(base Config, data []byte) (Config, error) {
	cfg := base
	cfg.HomePages = slices.Clone(base.HomePages)
	cfg.ReferencePages = slices.Clone(base.ReferencePages)
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("参照画像設定の JSON パースに失敗しました: %w", err)
	}
	cfg.Dir = base.Dir
	return cfg, nil
}
