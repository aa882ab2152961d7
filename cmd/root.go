package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shouni/go-storybook-kit/internal/config"
	libconfig "github.com/shouni/go-storybook-kit/pkg/config"

	clibase "github.com/shouni/go-cli-base"
	"github.com/spf13/cobra"
)

const appName = "storybook"

// opts は各サブコマンドが共有するフラグの値なのだ。
var opts config.GenerateOptions

// addAppFlags は、アプリケーション全般に適用されるグローバルフラグを定義するのだ。
// --verbose は clibase が用意してくれるので、ここでは入出力まわりだけを足すのだよ。
func addAppFlags(rootCmd *cobra.Command) {
	rootCmd.Long = `絵本の挿絵をページ単位で再生成するツールなのだ。
各ページは屋外・室内どちらかの参照画像を元に生成され、同じ服装・画風の指示が必ず付与されるのだよ。`
	rootCmd.SilenceUsage = true

	// --- 入出力 ---
	rootCmd.PersistentFlags().StringVarP(&opts.StoryFile, "story", "s", "", "ストーリー文書（JSON）のパスなのだ。省略時は STORY_FILE か "+libconfig.DefaultStoryFile)
	rootCmd.PersistentFlags().StringVarP(&opts.OutputDir, "output-dir", "o", "", "挿絵の出力ディレクトリなのだ。省略時は OUTPUT_DIR か "+libconfig.DefaultOutputDir)
	rootCmd.PersistentFlags().StringVar(&opts.ReferenceDir, "reference-dir", "", "参照画像のディレクトリなのだ。省略時は出力ディレクトリを使うのだ。")
	rootCmd.PersistentFlags().StringVarP(&opts.CatalogFile, "catalog", "c", "", "プロンプトカタログ（JSON）のパスなのだ。省略時は組み込みのカタログを使うのだ。")

	// --- 実行制御 ---
	rootCmd.PersistentFlags().DurationVar(&opts.HTTPTimeout, "http-timeout", libconfig.DefaultHTTPTimeout, "生成画像ダウンロードのタイムアウトなのだ。")
}

// preRunAppE は、コマンド実行前にログレベルとシグナル処理を整えるのだ。
// API トークンの確認は生成を行うコマンドの中で行います。
// Ctrl-C を受けると context がキャンセルされ、残りのページは失敗として報告されるのだ。
func preRunAppE(cmd *cobra.Command, args []string) error {
	if clibase.Flags.Verbose {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	cmd.SetContext(ctx)
	cobra.OnFinalize(stop)
	return nil
}

// loadConfig は環境変数を読み込み、フラグの値を重ねた設定を返すのだ。
func loadConfig() *config.Config {
	cfg := config.LoadConfig()
	cfg.Options = opts
	return cfg
}

// Execute は、アプリケーションのメインエントリポイントなのだ。
// main.go から呼び出されて、cobra のコマンドライン解析を開始するのだよ。
func Execute() {
	clibase.Execute(
		appName,
		addAppFlags,
		preRunAppE,
		regenerateCmd,
		pagesCmd,
	)
}
