package domain

import (
	"encoding/json"
	"fmt"
)

// StoryDocument は絵本1冊分のメタデータ（タイトル、テーマ、ページ列）を保持します。
// 既知のフィールド以外のトップレベルキーも保存時に失われないよう保持します。
type StoryDocument struct {
	Title          string         `json:"title"`
	FrameworkUsed  string         `json:"framework_used,omitempty"`
	Theme          string         `json:"theme"`
	Pages          []Page         `json:"pages"`
	CharacterBible map[string]any `json:"character_bible_update"`

	extra map[string]json.RawMessage
}

// Page は絵本の1ページ分の本文とイラスト情報です。
type Page struct {
	PageNumber         int    `json:"page_number"`
	Text               string `json:"text"`
	IllustrationPrompt string `json:"illustration_prompt"`
	IllustrationPath   string `json:"illustration_path,omitempty"`
}

// knownStoryKeys は StoryDocument が構造体フィールドとして扱うキーなのだ。
var knownStoryKeys = map[string]struct{}{
	"title":                  {},
	"framework_used":         {},
	"theme":                  {},
	"pages":                  {},
	"character_bible_update": {},
}

// storyAlias は (Un)MarshalJSON の再帰呼び出しを避けるための別名型です。
type storyAlias StoryDocument

// UnmarshalJSON は既知のフィールドをデコードし、残りのキーを extra に退避します。
func (d *StoryDocument) UnmarshalJSON(data []byte) error {
	var alias storyAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k := range knownStoryKeys {
		delete(raw, k)
	}
	if len(raw) > 0 {
		alias.extra = raw
	}

	*d = StoryDocument(alias)
	return nil
}

// MarshalJSON は既知のフィールドに extra のキーを合成して出力します。
func (d StoryDocument) MarshalJSON() ([]byte, error) {
	alias := storyAlias(d)
	if alias.CharacterBible == nil {
		alias.CharacterBible = map[string]any{}
	}
	if alias.Pages == nil {
		alias.Pages = []Page{}
	}

	known, err := json.Marshal(alias)
	if err != nil {
		return nil, err
	}
	if len(d.extra) == 0 {
		return known, nil
	}

	merged := make(map[string]json.RawMessage, len(d.extra)+len(knownStoryKeys))
	for k, v := range d.extra {
		merged[k] = v
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, fmt.Errorf("failed to merge story fields: %w", err)
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}
