package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shouni/go-storybook-kit/internal/builder"
	"github.com/shouni/go-storybook-kit/internal/config"
	libconfig "github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/shouni/go-storybook-kit/pkg/generator"
	"github.com/shouni/go-storybook-kit/pkg/workflow"
)

const rule = "============================================================"

// ExecuteRegenerate は、前提条件の確認 → 一括再生成 → 結果の要約表示までを行うのだ。
// ページ単位の失敗はエラーにせず、要約に再実行用の --pages を表示します。
// ドライランでは API トークンを使わず、参照画像の確認までを行って終了するのだ。
func ExecuteRegenerate(ctx context.Context, cfg *config.Config, out io.Writer) error {
	predictor := builder.InitializeOfflinePredictor()
	if !cfg.Options.DryRun {
		p, err := builder.InitializePredictor(cfg.ReplicateToken)
		if err != nil {
			return err
		}
		predictor = p
	}

	manager, err := setupManager(ctx, cfg, predictor)
	if err != nil {
		return err
	}

	pages := selectPages(cfg.Options, manager)
	allowed, _ := manager.Partition(pages)

	variant := domain.ModelStandard
	if cfg.Options.Fast {
		variant = domain.ModelFast
	}
	printBanner(out, allowed, variant, manager.ModelFor(variant), manager.References())

	if cfg.Options.DryRun {
		if _, err := manager.Preflight(ctx, pages); err != nil {
			return err
		}
		if cfg.ReplicateToken == "" {
			slog.WarnContext(ctx, "API トークンが設定されていません。実行前に設定してください", "env", config.EnvReplicateToken)
		}
		slog.InfoContext(ctx, "ドライランのため生成は行いません。前提条件は満たされています")
		return nil
	}

	report, err := manager.Regenerate(ctx, pages, cfg.Options.Fast)
	if err != nil {
		return err
	}

	printSummary(out, report, manager.BackupDir())
	return nil
}

// ExecuteListPages は、カタログと出力ディレクトリを突き合わせたページ一覧を表示するのだ。
// 生成は行わないので API トークンは不要です。
func ExecuteListPages(ctx context.Context, cfg *config.Config, out io.Writer) error {
	manager, err := setupManager(ctx, cfg, builder.InitializeOfflinePredictor())
	if err != nil {
		return err
	}

	statuses, err := manager.PageStatuses()
	if err != nil {
		return err
	}
	printPageStatuses(out, statuses)
	return nil
}

// setupManager は、共有コンポーネントから AppContext を組み立てて Manager を構築するのだ。
func setupManager(ctx context.Context, cfg *config.Config, predictor generator.Predictor) (*workflow.Manager, error) {
	lib := cfg.LibraryConfig()
	reader, writer := builder.InitializeIO()
	appCtx := builder.NewAppContext(cfg, builder.InitializeHTTPClient(lib.RequestTimeout), predictor, reader, writer)
	return builder.BuildManager(ctx, &appCtx)
}

// selectPages はフラグから対象ページを決めます。
// --pages > --all > 既定のページの順に優先するのだ。
func selectPages(opts config.GenerateOptions, manager *workflow.Manager) []int {
	switch {
	case len(opts.Pages) > 0:
		return opts.Pages
	case opts.All:
		return manager.RegenerablePages()
	default:
		slog.Info("ページ指定が無いため既定のページを再生成します",
			"pages", domain.JoinPages(libconfig.DefaultPages),
			"hint", "--all で全ページ、--pages 1,2,3 で個別指定できます",
		)
		return libconfig.DefaultPages
	}
}

func printBanner(out io.Writer, pages []int, variant domain.ModelVariant, model string, refs []domain.ReferenceImage) {
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "CONSISTENT CHARACTER REGENERATION")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Pages to regenerate: %s\n", formatPages(pages))
	fmt.Fprintf(out, "Model: %s (%s)\n", strings.ToUpper(string(variant)), model)
	for _, ref := range refs {
		fmt.Fprintf(out, "Reference (%s): %s\n", ref.Role, ref.Path)
	}
	fmt.Fprintf(out, "Estimated cost: ~$%.2f\n", float64(len(pages))*libconfig.EstimatedCostPerPage)
	fmt.Fprintln(out, rule)
}

func printSummary(out io.Writer, report domain.BatchReport, backupDir string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "DONE!")
	fmt.Fprintf(out, "  Successful: %s\n", formatPages(report.Succeeded))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(out, "  Skipped (reference pages): %s\n", formatPages(report.Skipped))
	}
	if report.HasFailures() {
		fmt.Fprintf(out, "  Failed: %s\n", formatPages(report.FailedPages()))
		for _, f := range report.Failed {
			fmt.Fprintf(out, "    page %d: %v\n", f.Page, f.Err)
		}
		fmt.Fprintf(out, "  Re-run with: --pages %s\n", report.RetryArgument())
	}
	fmt.Fprintf(out, "  Backups in: %s\n", backupDir)
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Review the new illustrations, then rebuild the book when ready.")
	fmt.Fprintln(out, rule)
}

func printPageStatuses(out io.Writer, statuses []workflow.PageStatus) {
	fmt.Fprintf(out, "%-6s %-9s %-11s %-11s %s\n", "PAGE", "ROLE", "STATUS", "FILES", "BACKUP")
	for _, s := range statuses {
		status := "regenerable"
		switch {
		case s.IsReference:
			status = "reference"
		case !s.InCatalog:
			status = "no-prompt"
		}
		role := string(s.Role)
		if s.IsReference {
			role = "-"
		}
		fmt.Fprintf(out, "%-6d %-9s %-11s %-11s %s\n", s.Page, role, status, joinOrDash(s.Artifacts), joinOrDash(s.BackedUp))
	}
}

func formatPages(pages []int) string {
	if len(pages) == 0 {
		return "[]"
	}
	return "[" + strings.ReplaceAll(domain.JoinPages(pages), ",", ", ") + "]"
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	return strings.Join(items, ",")
}
