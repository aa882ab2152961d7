package prompts

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

//go:embed default_catalog.json
var DefaultCatalogJSON []byte

// DefaultCatalogConfig は埋め込みの既定カタログを返します。
func DefaultCatalogConfig() (CatalogConfig, error) {
	return ParseCatalogConfig(DefaultCatalogJSON)
}

// ReadCatalogJSON はカタログファイルを読み込み、カタログとして解釈できることを確かめてから生の JSON を返します。
// 同じ JSON を参照画像の設定にも使うので、デコード済みの値ではなくバイト列を返すのだ。
func ReadCatalogJSON(ctx context.Context, reader remoteio.InputReader, path string) ([]byte, error) {
	rc, err := reader.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("カタログファイルのオープンに失敗しました (%s): %w", path, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("カタログファイルの読み込みに失敗しました (%s): %w", path, err)
	}
	if _, err := ParseCatalogConfig(data); err != nil {
		return nil, fmt.Errorf("カタログファイル '%s' が不正です: %w", path, err)
	}
	return data, nil
}

// ParseCatalogConfig は JSON バイト列をカタログ設定にデコードします。
// 参照画像用のキーなど、カタログに関係しないフィールドは無視されるのだ。
func ParseCatalogConfig(data []byte) (CatalogConfig, error) {
	var cfg CatalogConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CatalogConfig{}, fmt.Errorf("カタログの JSON パースに失敗しました: %w", err)
	}
	if len(cfg.Scenes) == 0 {
		return CatalogConfig{}, fmt.Errorf("カタログにシーンが1件もありません")
	}
	return cfg, nil
}
