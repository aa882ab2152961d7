package builder

import (
	"context"
	"fmt"
	"time"

	"github.com/shouni/go-storybook-kit/internal/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/workflow"

	"github.com/shouni/go-http-kit/httpkit"
	"github.com/shouni/go-remote-io/pkg/remoteio"
)

// InitializeHTTPClient は生成画像のダウンロードに使う HTTP クライアントを初期化します。
func InitializeHTTPClient(timeout time.Duration) httpkit.HTTPClient {
	return httpkit.New(timeout)
}

// InitializeIO はストーリー文書・カタログ・挿絵の読み書きに使う入出力を初期化します。
// 扱うのはローカルのファイルだけなので、クラウドのクライアントは渡さないのだ。
func InitializeIO() (remoteio.InputReader, remoteio.OutputWriter) {
	return remoteio.NewUniversalInputReader(nil, nil), remoteio.NewUniversalIOWriter(nil, nil)
}

// InitializePredictor は Replicate の Predictor を初期化します。
// トークンが無い場合は、生成を1回も呼ばずに済むよう MissingCredentialError を返すのだ。
func InitializePredictor(token string) (generator.Predictor, error) {
	if token == "" {
		return nil, &domain.MissingCredentialError{EnvVar: config.EnvReplicateToken}
	}
	p, err := generator.NewReplicatePredictor(token)
	if err != nil {
		return nil, fmt.Errorf("Predictor の初期化に失敗しました: %w", err)
	}
	return p, nil
}

// BuildManager は AppContext から workflow.Manager を構築します。
// カタログファイルが指定されていれば Reader 経由で読み込み、無ければ埋め込みのカタログを使います。
func BuildManager(ctx context.Context, appCtx *AppContext) (*workflow.Manager, error) {
	var catalogJSON []byte
	if path := appCtx.Config.CatalogPath(); path != "" {
		data, err := prompts.ReadCatalogJSON(ctx, appCtx.Reader, path)
		if err != nil {
			return nil, err
		}
		catalogJSON = data
	}

	m, err := workflow.New(workflow.ManagerArgs{
		Config:       appCtx.Config.LibraryConfig(),
		Predictor:    appCtx.predictor,
		HTTPClient:   appCtx.httpClient,
		Reader:       appCtx.Reader,
		Writer:       appCtx.Writer,
		OutputDir:    appCtx.Config.IllustrationDir(),
		StoryPath:    appCtx.Config.StoryPath(),
		ReferenceDir: appCtx.Options.ReferenceDir,
		CatalogJSON:  catalogJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("Manager の構築に失敗しました: %w", err)
	}
	return m, nil
}

// offlinePredictor は一覧表示など、生成を伴わないコマンド用の Predictor です。
type offlinePredictor struct{}

func (offlinePredictor) Predict(context.Context, string, map[string]any) (any, error) {
	return nil, &domain.MissingCredentialError{EnvVar: config.EnvReplicateToken}
}

// InitializeOfflinePredictor は呼ばれると常に MissingCredentialError を返す Predictor を返します。
func InitializeOfflinePredictor() generator.Predictor {
	return offlinePredictor{}
}
