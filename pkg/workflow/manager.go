package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/prompts"
	"github.com/shouni/go-storybook-kit/pkg/publisher"
	"github.com/shouni/go-storybook-kit/pkg/reference"
	"github.com/shouni/go-storybook-kit/pkg/runner"
	"github.com/shouni/go-storybook-kit/pkg/story"

	"github.com/patrickmn/go-cache"
)

// Manager は、再生成ワークフローの各工程を担う部品を構築・管理します。
type Manager struct {
	cfg       config.Config
	catalog   *prompts.Catalog
	selector  *reference.Selector
	generator *generator.Client
	writer    *publisher.Writer
	store     *story.FileStore
	renderer  BookRenderer
}

// New は、設定とカタログを基に新しい Manager を初期化します。
func New(args ManagerArgs) (*Manager, error) {
	if args.Predictor == nil {
		return nil, fmt.Errorf("Predictor は必須です")
	}
	if args.HTTPClient == nil {
		return nil, fmt.Errorf("HTTPClient は必須です")
	}
	if args.Reader == nil {
		return nil, fmt.Errorf("Reader は必須です")
	}
	if args.Writer == nil {
		return nil, fmt.Errorf("Writer は必須です")
	}
	if args.OutputDir == "" {
		return nil, fmt.Errorf("OutputDir は必須です")
	}
	if args.StoryPath == "" {
		return nil, fmt.Errorf("StoryPath は必須です")
	}

	catalogJSON := args.CatalogJSON
	if len(catalogJSON) == 0 {
		catalogJSON = prompts.DefaultCatalogJSON
	}

	catalog, err := initializeCatalog(catalogJSON)
	if err != nil {
		return nil, err
	}

	refDir := args.ReferenceDir
	if refDir == "" {
		refDir = args.OutputDir
	}
	selector, err := initializeSelector(refDir, catalogJSON)
	if err != nil {
		return nil, err
	}

	imgCache := args.Cache
	if imgCache == nil {
		imgCache = cache.New(defaultCacheExpiration, cacheCleanupInterval)
	}

	gen, err := generator.NewClient(args.Predictor, args.HTTPClient, imgCache, generator.Options{
		StandardModel:     args.Config.StandardModel,
		FastModel:         args.Config.FastModel,
		CacheTTL:          config.ReferenceCacheTTL,
		CompressThreshold: config.DefaultReferenceCompressThreshold,
		CompressQuality:   args.Config.JPEGQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("画像生成クライアントの初期化に失敗しました: %w", err)
	}

	writer, err := publisher.NewWriter(args.OutputDir, args.Writer, publisher.Options{
		BackupDirName: args.Config.BackupDirName,
		JPEGQuality:   args.Config.JPEGQuality,
	})
	if err != nil {
		return nil, fmt.Errorf("成果物ライターの初期化に失敗しました: %w", err)
	}

	store, err := story.NewFileStore(args.StoryPath, args.Reader, args.Writer)
	if err != nil {
		return nil, fmt.Errorf("ストーリー文書ストアの初期化に失敗しました: %w", err)
	}

	return &Manager{
		cfg:       args.Config,
		catalog:   catalog,
		selector:  selector,
		generator: gen,
		writer:    writer,
		store:     store,
		renderer:  args.Renderer,
	}, nil
}

// initializeCatalog はカタログ JSON から Catalog を組み立てます。
func initializeCatalog(data []byte) (*prompts.Catalog, error) {
	cfg, err := prompts.ParseCatalogConfig(data)
	if err != nil {
		return nil, err
	}
	catalog, err := prompts.NewCatalog(cfg)
	if err != nil {
		return nil, fmt.Errorf("プロンプトカタログの初期化に失敗しました: %w", err)
	}
	return catalog, nil
}

// initializeSelector は同じカタログ JSON から参照画像の設定を読み取ります。
func initializeSelector(dir string, data []byte) (*reference.Selector, error) {
	cfg, err := reference.ApplyJSON(reference.DefaultConfig(dir), data)
	if err != nil {
		return nil, err
	}
	selector, err := reference.NewSelector(cfg)
	if err != nil {
		return nil, fmt.Errorf("参照画像セレクタの初期化に失敗しました: %w", err)
	}
	return selector, nil
}

// BuildBatchRunner は、挿絵の一括再生成を担当する Runner を作成します。
func (m *Manager) BuildBatchRunner() (BatchRunner, error) {
	r, err := runner.NewBatchRunner(m.cfg, m.catalog, m.selector, m.store, m.generator, m.writer)
	if err != nil {
		return nil, fmt.Errorf("BatchRunner の初期化に失敗しました: %w", err)
	}
	return r, nil
}

// Regenerate はバッチを実行し、1ページでも成功していれば BookRenderer で本を組み直します。
func (m *Manager) Regenerate(ctx context.Context, pages []int, fast bool) (domain.BatchReport, error) {
	r, err := m.BuildBatchRunner()
	if err != nil {
		return domain.BatchReport{}, err
	}

	report, err := r.Run(ctx, pages, fast)
	if err != nil {
		return report, err
	}

	if m.renderer == nil || len(report.Succeeded) == 0 {
		return report, nil
	}

	doc, err := m.store.Load(ctx)
	if err != nil {
		return report, fmt.Errorf("再レンダリング用の文書読み込みに失敗しました: %w", err)
	}
	out, err := m.renderer.Render(ctx, doc, m.writer.OutputDir())
	if err != nil {
		return report, fmt.Errorf("本の再レンダリングに失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "本を再レンダリングしました", "path", out)
	return report, nil
}

// Preflight は生成を行わずに、バッチが開始できるかだけを確かめます。
// 参照ページを除いた対象ページを返し、対象が空なら EmptyBatchError、参照画像が無ければ MissingReferenceError を返すのだ。
func (m *Manager) Preflight(ctx context.Context, pages []int) ([]int, error) {
	allowed, _ := m.selector.Partition(pages)
	if len(allowed) == 0 {
		return nil, &domain.EmptyBatchError{Requested: pages}
	}
	if err := m.selector.Validate(ctx, allowed); err != nil {
		return allowed, err
	}
	return allowed, nil
}

// RegenerablePages はカタログに載っているページのうち、参照ページを除いたものを昇順で返します。
func (m *Manager) RegenerablePages() []int {
	return slices.DeleteFunc(m.catalog.Pages(), m.selector.IsReferencePage)
}

// References は設定されている参照画像を返します。
func (m *Manager) References() []domain.ReferenceImage {
	return m.selector.References()
}

// BackupDir はバックアップディレクトリを返します。
func (m *Manager) BackupDir() string {
	return m.writer.BackupDir()
}

// StoryPath はストーリー文書のパスを返します。
func (m *Manager) StoryPath() string {
	return m.store.Path()
}

// Partition は要求ページを再生成対象と参照ページに分けます。
func (m *Manager) Partition(pages []int) (allowed, rejected []int) {
	return m.selector.Partition(pages)
}

// ModelFor はモデル種別に対応するモデル ID を返します。
func (m *Manager) ModelFor(variant domain.ModelVariant) string {
	return m.cfg.ModelFor(variant)
}
