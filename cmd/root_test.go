package cmd

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddAppFlags(t *testing.T) {
	root := &cobra.Command{Use: appName}
	addAppFlags(root)

	t.Run("入出力の永続フラグが定義されること", func(t *testing.T) {
		for _, name := range []string{"story", "output-dir", "reference-dir", "catalog", "http-timeout"} {
			assert.NotNil(t, root.PersistentFlags().Lookup(name), name)
		}
		assert.Equal(t, "s", root.PersistentFlags().Lookup("story").Shorthand)
		assert.Equal(t, "o", root.PersistentFlags().Lookup("output-dir").Shorthand)
	})

	t.Run("verbose は clibase に任せて重複定義しないこと", func(t *testing.T) {
		assert.Nil(t, root.PersistentFlags().Lookup("verbose"))
	})

	t.Run("失敗時に使い方を表示しないこと", func(t *testing.T) {
		assert.True(t, root.SilenceUsage)
	})
}

func TestRegenerateCmdFlags(t *testing.T) {
	t.Run("再生成用のフラグが揃っていること", func(t *testing.T) {
		for _, name := range []string{"pages", "all", "fast", "interval", "dry-run"} {
			assert.NotNil(t, regenerateCmd.Flags().Lookup(name), name)
		}
	})

	t.Run("--pages と --all は同時に指定できないこと", func(t *testing.T) {
		c := &cobra.Command{Use: "regenerate"}
		var pages []int
		var all bool
		c.Flags().IntSliceVarP(&pages, "pages", "p", nil, "")
		c.Flags().BoolVarP(&all, "all", "a", false, "")
		c.MarkFlagsMutuallyExclusive("pages", "all")

		require.NoError(t, c.ParseFlags([]string{"--pages", "3,6", "--all"}))
		assert.Error(t, c.ValidateFlagGroups())
	})

	t.Run("--pages はカンマ区切りで読めること", func(t *testing.T) {
		c := &cobra.Command{Use: "regenerate"}
		var pages []int
		c.Flags().IntSliceVarP(&pages, "pages", "p", nil, "")
		require.NoError(t, c.ParseFlags([]string{"-p", "3,6,7"}))
		assert.Equal(t, []int{3, 6, 7}, pages)
	})
}

func TestPreRunAppE(t *testing.T) {
	t.Run("シグナルで止まる context に差し替えること", func(t *testing.T) {
		c := &cobra.Command{Use: "pages"}
		base := context.Background()
		c.SetContext(base)

		require.NoError(t, preRunAppE(c, nil))
		ctx := c.Context()
		require.NotNil(t, ctx)
		assert.NotEqual(t, base, ctx)
		assert.NoError(t, ctx.Err())
	})
}

func TestPagesCmd(t *testing.T) {
	t.Run("引数を受け付けないこと", func(t *testing.T) {
		assert.Error(t, pagesCmd.Args(pagesCmd, []string{"extra"}))
		assert.NoError(t, pagesCmd.Args(pagesCmd, nil))
	})
}
