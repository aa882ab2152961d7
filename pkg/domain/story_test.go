package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryDocument_JSON(t *testing.T) {
	input := `{
		"title": "Evan and the Great Tree",
		"framework_used": "hero_journey",
		"theme": "courage",
		"pages": [
			{"page_number": 1, "text": "Once upon a time", "illustration_prompt": "a boy on a rug"},
			{"page_number": 2, "text": "He saw a glow", "illustration_prompt": "a boy at a window", "illustration_path": "output/page_02.png"}
		],
		"character_bible_update": {"hair": "brown"},
		"reading_level": "confident"
	}`

	t.Run("既知フィールドがデコードされること", func(t *testing.T) {
		var doc StoryDocument
		require.NoError(t, json.Unmarshal([]byte(input), &doc))

		assert.Equal(t, "Evan and the Great Tree", doc.Title)
		assert.Equal(t, "courage", doc.Theme)
		require.Len(t, doc.Pages, 2)
		assert.Equal(t, "output/page_02.png", doc.Pages[1].IllustrationPath)
		assert.Equal(t, "brown", doc.CharacterBible["hair"])
	})

	t.Run("未知のトップレベルキーが保存時に保持されること", func(t *testing.T) {
		var doc StoryDocument
		require.NoError(t, json.Unmarshal([]byte(input), &doc))

		out, err := json.Marshal(doc)
		require.NoError(t, err)

		var raw map[string]any
		require.NoError(t, json.Unmarshal(out, &raw))
		assert.Equal(t, "confident", raw["reading_level"])
		assert.Equal(t, "hero_journey", raw["framework_used"])
	})

	t.Run("空のドキュメントでも pages と character_bible_update が出力されること", func(t *testing.T) {
		out, err := json.Marshal(StoryDocument{Title: "t"})
		require.NoError(t, err)
		assert.Contains(t, string(out), `"pages":[]`)
		assert.Contains(t, string(out), `"character_bible_update":{}`)
	})
}

func TestStoryDocument_Helpers(t *testing.T) {
	doc := &StoryDocument{Pages: []Page{
		{PageNumber: 1, IllustrationPrompt: "one"},
		{PageNumber: 3, IllustrationPrompt: "three"},
	}}

	t.Run("FindPage", func(t *testing.T) {
		p := doc.FindPage(3)
		require.NotNil(t, p)
		assert.Equal(t, "three", p.IllustrationPrompt)
		assert.Nil(t, doc.FindPage(2))
	})

	t.Run("Validate は重複や逆順を検出すること", func(t *testing.T) {
		assert.NoError(t, doc.Validate())

		dup := &StoryDocument{Pages: []Page{{PageNumber: 2}, {PageNumber: 2}}}
		assert.Error(t, dup.Validate())

		zero := &StoryDocument{Pages: []Page{{PageNumber: 0}}}
		assert.Error(t, zero.Validate())
	})
}
