package prompts

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"text/template"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// CatalogConfig はページごとのシーン描写と、全ページ共通の服装・画風指示をまとめた設定です。
// Scenes の各値は text/template として解釈され、{{.Outfit}} で共通の服装指示を参照できます。
type CatalogConfig struct {
	Outfit   string         `json:"outfit"`
	ArtStyle string         `json:"art_style"`
	Preamble string         `json:"preamble"`
	Scenes   map[int]string `json:"scenes"`
}

// TemplateData はシーンテンプレートに渡すデータ構造です。
type TemplateData struct {
	Outfit string
}

// Catalog はページ番号からプロンプトを引くための読み取り専用カタログなのだ。
// 同じ服装・画風の記述を全ページで繰り返すことで、キャラクターの見た目を揃えるのだよ。
type Catalog struct {
	prompts  map[int]string
	artStyle string
}

// NewCatalog は設定内の全テンプレートを解析・展開して Catalog を生成します。
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	data := TemplateData{Outfit: strings.TrimSpace(cfg.Outfit)}

	rendered := make(map[int]string, len(cfg.Scenes))
	for page, scene := range cfg.Scenes {
		if page <= 0 {
			return nil, fmt.Errorf("scene key must be a positive page number, got %d", page)
		}
		if strings.TrimSpace(scene) == "" {
			return nil, fmt.Errorf("シーン %d のプロンプトが空です", page)
		}

		text, err := render(strconv.Itoa(page), joinNonEmpty(cfg.Preamble, scene), data)
		if err != nil {
			return nil, fmt.Errorf("プロンプト %d の展開に失敗しました: %w", page, err)
		}
		rendered[page] = text
	}

	return &Catalog{
		prompts:  rendered,
		artStyle: strings.TrimSpace(cfg.ArtStyle),
	}, nil
}

// PromptFor は指定ページのシーンプロンプトを返します。未登録なら UnknownPageError を返します。
func (c *Catalog) PromptFor(page int) (string, error) {
	p, ok := c.prompts[page]
	if !ok {
		return "", &domain.UnknownPageError{Page: page}
	}
	return p, nil
}

// Compose はシーンプロンプトに共通の画風指示を付与し、プロバイダへ送る最終プロンプトを作ります。
func (c *Catalog) Compose(scenePrompt string) string {
	if c.artStyle == "" {
		return scenePrompt
	}
	return fmt.Sprintf("%s\n\nStyle: %s", scenePrompt, c.artStyle)
}

// Pages はカタログに登録されているページ番号を昇順で返します。
func (c *Catalog) Pages() []int {
	return slices.Sorted(maps.Keys(c.prompts))
}

// Has はページがカタログに登録されているかを返します。
func (c *Catalog) Has(page int) bool {
	_, ok := c.prompts[page]
	return ok
}

func render(name, content string, data TemplateData) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(content)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return strings.TrimSpace(sb.String()), nil
}

func joinNonEmpty(parts ...string) string {
	var clean []string
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			clean = append(clean, s)
		}
	}
	return strings.Join(clean, " ")
}
