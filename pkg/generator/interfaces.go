package generator

import (
	"context"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// Predictor は画像生成プロバイダへの1回の推論呼び出しを抽象化します。
// 戻り値の形はプロバイダ次第なので、NormalizeOutput で URL に揃えてから扱うのだ。
type Predictor interface {
	Predict(ctx context.Context, model string, input map[string]any) (any, error)
}

// HTTPClient は生成結果の画像をダウンロードするためのインターフェースです。
type HTTPClient interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// ImageCacher は、エンコード済み参照画像をキャッシュするためのインターフェースです。
type ImageCacher interface {
	// Get は、指定されたキーに紐づくアイテムを取得します。
	Get(key string) (any, bool)
	// Set は、指定されたキーと値、有効期限でアイテムを保存します。
	Set(key string, value any, d time.Duration)
}

// ImageGenerator は GenerationRequest から画像バイト列を得るコンポーネントです。
type ImageGenerator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error)
}
