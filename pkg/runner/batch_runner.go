package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/story"

	"golang.org/x/time/rate"
)

// BatchRunner は指定ページの挿絵を参照画像付きで順番に再生成します。
type BatchRunner struct {
	cfg       config.Config
	prompts   PromptSource
	refs      ReferenceResolver
	store     StoryStore
	generator generator.ImageGenerator
	writer    ArtifactWriter
}

// NewBatchRunner は依存関係を注入して初期化します。
func NewBatchRunner(
	cfg config.Config,
	prompts PromptSource,
	refs ReferenceResolver,
	store StoryStore,
	gen generator.ImageGenerator,
	writer ArtifactWriter,
) (*BatchRunner, error) {
	switch {
	case prompts == nil:
		return nil, fmt.Errorf("prompt source is required")
	case refs == nil:
		return nil, fmt.Errorf("reference resolver is required")
	case store == nil:
		return nil, fmt.Errorf("story store is required")
	case gen == nil:
		return nil, fmt.Errorf("image generator is required")
	case writer == nil:
		return nil, fmt.Errorf("artifact writer is required")
	}
	return &BatchRunner{
		cfg:       cfg,
		prompts:   prompts,
		refs:      refs,
		store:     store,
		generator: gen,
		writer:    writer,
	}, nil
}

// Run はバッチを実行し、成功・失敗ページをまとめた BatchReport を返します。
// 参照画像の欠落など、1回も生成を呼ぶべきでない状況と、文書の読み書きの失敗だけがエラーとして返るのだ。
// バックアップや生成といったページ単位の失敗は記録して次のページへ進みます。
func (r *BatchRunner) Run(ctx context.Context, pages []int, fast bool) (domain.BatchReport, error) {
	var report domain.BatchReport

	// 1. 参照ページは再生成しない
	allowed, rejected := r.refs.Partition(pages)
	for _, p := range rejected {
		slog.WarnContext(ctx, "参照ページは再生成できないためスキップします", "page", p)
	}
	report.Skipped = rejected
	if len(allowed) == 0 {
		return report, &domain.EmptyBatchError{Requested: pages}
	}

	// 2. 生成を呼ぶ前に、必要な参照画像がすべて揃っているか確認
	if err := r.refs.Validate(ctx, allowed); err != nil {
		return report, err
	}

	doc, err := r.store.Load(ctx)
	if err != nil {
		return report, err
	}

	// 3. 上書き前のバックアップ。バックアップできなかったページは上書きしない
	_, backupFailures := r.writer.Backup(allowed)
	report.Failed = append(report.Failed, backupFailures...)
	backedUp := excludeFailed(allowed, backupFailures)

	// 4. 送信するプロンプトを先に文書へ記録
	scenes, unknown := r.collectPrompts(backedUp)
	for _, f := range unknown {
		slog.ErrorContext(ctx, "カタログにプロンプトがありません", "page", f.Page)
	}
	report.Failed = append(report.Failed, unknown...)

	_, updated := story.UpdatePrompts(doc, scenes)
	if err := r.store.Save(ctx, doc); err != nil {
		return report, fmt.Errorf("ストーリー文書の保存に失敗しました: %w", err)
	}
	slog.InfoContext(ctx, "プロンプトを更新しました", "pages", updated)

	// 5. ページ順に生成
	targets := make([]int, 0, len(scenes))
	for _, p := range backedUp {
		if _, ok := scenes[p]; ok {
			targets = append(targets, p)
		}
	}

	variant := domain.ModelStandard
	if fast {
		variant = domain.ModelFast
	}

	var limiter *rate.Limiter
	if r.cfg.RateInterval > 0 {
		limiter = rate.NewLimiter(rate.Every(r.cfg.RateInterval), 1)
	}

	for i, page := range targets {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				report.Failed = append(report.Failed, abandon(ctx, targets[i:], err)...)
				break
			}
		}
		if err := ctx.Err(); err != nil {
			report.Failed = append(report.Failed, abandon(ctx, targets[i:], err)...)
			break
		}

		slog.InfoContext(ctx, "ページを再生成します", "page", page, "progress", fmt.Sprintf("%d/%d", i+1, len(targets)))
		if err := r.processPage(ctx, doc, page, scenes[page], variant); err != nil {
			slog.ErrorContext(ctx, "ページの再生成に失敗しました", "page", page, "error", err)
			report.Failed = append(report.Failed, domain.PageFailure{Page: page, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, page)
	}

	return report, nil
}

// collectPrompts はカタログからページごとのプロンプトを集めます。カタログにないページは失敗として返します。
func (r *BatchRunner) collectPrompts(pages []int) (map[int]string, []domain.PageFailure) {
	scenes := make(map[int]string, len(pages))
	var unknown []domain.PageFailure
	for _, p := range pages {
		prompt, err := r.prompts.PromptFor(p)
		if err != nil {
			unknown = append(unknown, domain.PageFailure{Page: p, Err: err})
			continue
		}
		scenes[p] = prompt
	}
	return scenes, unknown
}

// processPage は1ページ分の 参照解決 → 生成 → 保存 を行います。
func (r *BatchRunner) processPage(ctx context.Context, doc *domain.StoryDocument, page int, scene string, variant domain.ModelVariant) error {
	ref, err := r.refs.ReferenceFor(page)
	if err != nil {
		return err
	}
	slog.DebugContext(ctx, "参照画像", "page", page, "role", ref.Role, "path", ref.Path)

	img, err := r.generator.Generate(ctx, domain.GenerationRequest{
		PageNumber:    page,
		Prompt:        r.prompts.Compose(scene),
		ReferencePath: ref.Path,
		Variant:       variant,
		Params:        r.cfg.Params,
	})
	if err != nil {
		return err
	}

	primary, _, err := r.writer.Persist(ctx, page, img.Data)
	if err != nil {
		return err
	}

	// 画像は保存済みなので、文書の更新に失敗してもページ自体は成功扱い
	if story.SetIllustrationPath(doc, page, primary) {
		if err := r.store.Save(ctx, doc); err != nil {
			slog.WarnContext(ctx, "挿絵パスの記録に失敗しました", "page", page, "error", err)
		}
	}
	return nil
}

// excludeFailed は失敗したページを除いたページ番号を返します。
func excludeFailed(pages []int, failures []domain.PageFailure) []int {
	if len(failures) == 0 {
		return pages
	}
	failed := make(map[int]struct{}, len(failures))
	for _, f := range failures {
		failed[f.Page] = struct{}{}
	}
	kept := make([]int, 0, len(pages))
	for _, p := range pages {
		if _, ok := failed[p]; !ok {
			kept = append(kept, p)
		}
	}
	return kept
}

func abandon(ctx context.Context, pages []int, cause error) []domain.PageFailure {
	slog.WarnContext(ctx, "中断されたため残りのページを失敗として記録します", "pages", pages, "error", cause)
	failures := make([]domain.PageFailure, 0, len(pages))
	for _, p := range pages {
		failures = append(failures, domain.PageFailure{Page: p, Err: cause})
	}
	return failures
}
