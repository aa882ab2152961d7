package config

import (
	"time"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// デフォルト値の定義
const (
	DefaultStandardModel   = "black-forest-labs/flux-kontext-pro"
	DefaultFastModel       = "black-forest-labs/flux-kontext-fast"
	DefaultAspectRatio     = "4:3"
	DefaultSafetyTolerance = 2
	DefaultOutputFormat    = "png"
	DefaultOutputQuality   = 90
	DefaultJPEGQuality     = 85
	DefaultRateInterval    = 2 * time.Second
	DefaultHTTPTimeout     = 60 * time.Second
	DefaultBackupDirName   = "pre_consistency_backup"
	DefaultOutputDir       = "output/illustrations"
	DefaultStoryFile       = "output/story.json"
	EstimatedCostPerPage   = 0.05

	// DefaultReferenceCompressThreshold を超える参照画像は送信前に JPEG へ圧縮します。
	DefaultReferenceCompressThreshold = 8 << 20

	// ReferenceCacheTTL は参照画像の data URI をキャッシュしておく期間です。1バッチ分を想定しています。
	ReferenceCacheTTL = 30 * time.Minute
)

// DefaultPages は対象ページが指定されなかった場合に再生成するページなのだ。
var DefaultPages = []int{3, 6, 7, 8, 9}

// Config は Go Storybook Kit の各 Runner を動作させるための基本設定です。
type Config struct {
	// --- Model Settings ---
	StandardModel string
	FastModel     string

	// --- Generation Settings ---
	Params       domain.GenerationParams
	RateInterval time.Duration

	// --- Artifact Settings ---
	JPEGQuality   int
	BackupDirName string

	// --- Timeout ---
	RequestTimeout time.Duration
}

// DefaultConfig は推奨されるデフォルト設定を返すヘルパー関数です。
func DefaultConfig() Config {
	return Config{
		StandardModel: DefaultStandardModel,
		FastModel:     DefaultFastModel,
		Params: domain.GenerationParams{
			AspectRatio:     DefaultAspectRatio,
			SafetyTolerance: DefaultSafetyTolerance,
			OutputFormat:    DefaultOutputFormat,
			OutputQuality:   DefaultOutputQuality,
		},
		RateInterval:   DefaultRateInterval,
		JPEGQuality:    DefaultJPEGQuality,
		BackupDirName:  DefaultBackupDirName,
		RequestTimeout: DefaultHTTPTimeout,
	}
}

// ModelFor はモデル種別に対応するモデル ID を返すのだ。
func (c Config) ModelFor(variant domain.ModelVariant) string {
	if variant == domain.ModelFast {
		return c.FastModel
	}
	return c.StandardModel
}
