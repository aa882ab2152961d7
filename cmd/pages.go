package cmd

import (
	"github.com/shouni/go-storybook-kit/internal/pipeline"

	"github.com/spf13/cobra"
)

// pagesCmd は、カタログのページと参照画像の割り当て、既存の成果物を一覧表示するのだ。
var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "再生成できるページと成果物の状態を一覧表示しますなのだ。",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return pipeline.ExecuteListPages(cmd.Context(), loadConfig(), cmd.OutOrStdout())
	},
}
