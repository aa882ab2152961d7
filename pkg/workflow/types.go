package workflow

import (
	"time"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/generator"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	defaultCacheExpiration = 30 * time.Minute
	cacheCleanupInterval   = 1 * time.Hour
)

// ManagerArgs は Manager の初期化に必要な依存関係と設定です。
type ManagerArgs struct {
	Config     config.Config
	Predictor  generator.Predictor
	HTTPClient generator.HTTPClient
	// Cache を省略すると go-cache のインメモリキャッシュを使います。
	Cache generator.ImageCacher
	// Reader と Writer はストーリー文書と成果物の読み書きに使います。
	Reader remoteio.InputReader
	Writer remoteio.OutputWriter

	OutputDir string
	StoryPath string
	// ReferenceDir を省略すると OutputDir の参照画像を使います。
	ReferenceDir string
	// CatalogJSON を省略すると埋め込みの既定カタログを使います。
	CatalogJSON []byte

	// Renderer を指定すると、再生成が成功した後に本を組み直します。
	Renderer BookRenderer
}
