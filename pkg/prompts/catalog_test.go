package prompts

import (
	"testing"

	"github.com/shouni/go-storybook-kit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalogConfig() CatalogConfig {
	return CatalogConfig{
		Outfit:   "wearing a navy hoodie",
		ArtStyle: "Watercolor. Safe, joyful mood.",
		Preamble: "Keep this exact same boy. The boy is {{.Outfit}}.",
		Scenes: map[int]string{
			3: "He climbs a huge oak tree.",
			1: "He plays on a rug, still {{.Outfit}}.",
		},
	}
}

func TestCatalog_PromptFor(t *testing.T) {
	c, err := NewCatalog(testCatalogConfig())
	require.NoError(t, err)

	t.Run("共通の服装指示が全ページに展開されること", func(t *testing.T) {
		for _, page := range c.Pages() {
			p, err := c.PromptFor(page)
			require.NoError(t, err)
			assert.Contains(t, p, "Keep this exact same boy. The boy is wearing a navy hoodie.")
		}

		p, _ := c.PromptFor(1)
		assert.Equal(t, "Keep this exact same boy. The boy is wearing a navy hoodie. He plays on a rug, still wearing a navy hoodie.", p)
	})

	t.Run("未登録ページは UnknownPageError を返すこと", func(t *testing.T) {
		_, err := c.PromptFor(5)
		var unknown *domain.UnknownPageError
		require.ErrorAs(t, err, &unknown)
		assert.Equal(t, 5, unknown.Page)
	})

	t.Run("Pages は昇順で返ること", func(t *testing.T) {
		assert.Equal(t, []int{1, 3}, c.Pages())
		assert.True(t, c.Has(3))
		assert.False(t, c.Has(2))
	})
}

func TestCatalog_Compose(t *testing.T) {
	c, err := NewCatalog(testCatalogConfig())
	require.NoError(t, err)

	assert.Equal(t, "scene\n\nStyle: Watercolor. Safe, joyful mood.", c.Compose("scene"))

	bare, err := NewCatalog(CatalogConfig{Scenes: map[int]string{1: "x"}})
	require.NoError(t, err)
	assert.Equal(t, "scene", bare.Compose("scene"))
}

func TestNewCatalog_Errors(t *testing.T) {
	t.Run("不正なテンプレートはエラーになること", func(t *testing.T) {
		_, err := NewCatalog(CatalogConfig{Scenes: map[int]string{1: "{{.Outfit"}})
		assert.Error(t, err)
	})

	t.Run("存在しないフィールド参照はエラーになること", func(t *testing.T) {
		_, err := NewCatalog(CatalogConfig{Scenes: map[int]string{1: "{{.Shoes}}"}})
		assert.Error(t, err)
	})

	t.Run("空のシーンはエラーになること", func(t *testing.T) {
		_, err := NewCatalog(CatalogConfig{Scenes: map[int]string{2: "  "}})
		assert.Error(t, err)
	})

	t.Run("0以下のページ番号はエラーになること", func(t *testing.T) {
		_, err := NewCatalog(CatalogConfig{Scenes: map[int]string{0: "x"}})
		assert.Error(t, err)
	})
}
