package generator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// Options は Client の動作設定です。
type Options struct {
	StandardModel string
	FastModel     string
	// CacheTTL はエンコード済み参照画像をキャッシュしておく期間です。
	CacheTTL time.Duration
	// CompressThreshold を超えるサイズの参照画像は JPEG に圧縮してから送ります。0 なら圧縮しません。
	CompressThreshold int64
	CompressQuality   int
}

// DefaultOptions は pkg/config の既定値から Options を組み立てます。
func DefaultOptions() Options {
	return Options{
		StandardModel:     config.DefaultStandardModel,
		FastModel:         config.DefaultFastModel,
		CacheTTL:          config.ReferenceCacheTTL,
		CompressThreshold: config.DefaultReferenceCompressThreshold,
		CompressQuality:   config.DefaultJPEGQuality,
	}
}

// Client は参照画像付きのプロンプトをプロバイダへ送り、生成画像のバイト列を取得します。
// リトライは行いません。失敗したページは呼び出し側で記録して再実行するのだ。
type Client struct {
	predictor  Predictor
	httpClient HTTPClient
	cache      ImageCacher
	opts       Options
}

// NewClient は依存関係を注入して Client を初期化します。
func NewClient(predictor Predictor, httpClient HTTPClient, cache ImageCacher, opts Options) (*Client, error) {
	if predictor == nil {
		return nil, fmt.Errorf("predictor is required")
	}
	if httpClient == nil {
		return nil, fmt.Errorf("httpClient is required")
	}
	if cache == nil {
		return nil, fmt.Errorf("cache is required")
	}
	if opts.StandardModel == "" || opts.FastModel == "" {
		return nil, fmt.Errorf("both standard and fast model ids are required")
	}
	return &Client{
		predictor:  predictor,
		httpClient: httpClient,
		cache:      cache,
		opts:       opts,
	}, nil
}

// ModelFor はモデル種別に対応するモデル ID を返します。
func (c *Client) ModelFor(variant domain.ModelVariant) string {
	if variant == domain.ModelFast {
		return c.opts.FastModel
	}
	return c.opts.StandardModel
}

// Generate は1ページ分の画像を生成してダウンロードします。
func (c *Client) Generate(ctx context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	model := c.ModelFor(req.Variant)

	refURI, err := c.encodeReference(req.ReferencePath)
	if err != nil {
		return nil, &domain.IOError{Op: "encode reference", Path: req.ReferencePath, Err: err}
	}

	input := buildInput(req, refURI)

	slog.InfoContext(ctx, "画像生成をリクエストします", "page", req.PageNumber, "model", model)
	raw, err := c.predictor.Predict(ctx, model, input)
	if err != nil {
		return nil, &domain.GenerationError{Page: req.PageNumber, Model: model, Err: err}
	}

	url, err := NormalizeOutput(raw)
	if err != nil {
		return nil, &domain.GenerationError{Page: req.PageNumber, Model: model, Err: err}
	}

	slog.DebugContext(ctx, "生成画像をダウンロードします", "page", req.PageNumber, "url", url)
	data, err := c.httpClient.FetchBytes(ctx, url)
	if err != nil {
		return nil, &domain.DownloadError{URL: url, Err: err}
	}
	if len(data) == 0 {
		return nil, &domain.DownloadError{URL: url, Err: fmt.Errorf("empty response body")}
	}

	return &domain.GeneratedImage{
		Page:      req.PageNumber,
		Model:     model,
		SourceURL: url,
		Data:      data,
	}, nil
}

// buildInput はプロバイダへ送る入力を組み立てます。キー名は flux-kontext 系モデルの入力スキーマに合わせています。
func buildInput(req domain.GenerationRequest, refURI string) map[string]any {
	return map[string]any{
		"prompt":           req.Prompt,
		"input_image":      refURI,
		"aspect_ratio":     req.Params.AspectRatio,
		"safety_tolerance": req.Params.SafetyTolerance,
		"output_format":    req.Params.OutputFormat,
		"output_quality":   req.Params.OutputQuality,
	}
}
