package builder

import (
	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/generator"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// AppContext は、アプリケーション実行に必要な共通コンテキストを保持する
// これを各Build関数に渡すことで、依存関係の注入を簡素化します。
type AppContext struct {
	Config     *config.Config          // Configは、環境変数から読み込まれたグローバルな設定です（API トークン、既定のパスなど）。
	Options    config.GenerateOptions  // Optionsは、コマンドラインから渡された実行時の設定です（対象ページ、モデル種別など）。
	Reader     remoteio.InputReader    // Readerは、ストーリー文書やカタログの読み込みに使用する入力元です。
	Writer     remoteio.OutputWriter   // Writerは、ストーリー文書と挿絵を保存するための出力先です。
	httpClient httpkit.HTTPClient // httpClient は生成画像のダウンロードに使う共通クライアント
	predictor  generator.Predictor     // predictor は画像生成プロバイダへの呼び出しを担うクライアント
}

// NewAppContext は AppContext の新しいインスタンスを生成する
func NewAppContext(
	cfg *config.Config,
	httpClient httpkit.HTTPClient,
	predictor generator.Predictor,
	reader remoteio.InputReader,
	writer remoteio.OutputWriter,
) AppContext {
	return AppContext{
		Config:     cfg,
		Options:    cfg.Options,
		Reader:     reader,
		Writer:     writer,
		httpClient: httpClient,
		predictor:  predictor,
	}
}
