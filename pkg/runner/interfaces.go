package runner

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// PromptSource はページごとのシーンプロンプトを提供します。
type PromptSource interface {
	PromptFor(page int) (string, error)
	Compose(scenePrompt string) string
}

// ReferenceResolver は参照画像の解決と事前チェックを行います。
type ReferenceResolver interface {
	Partition(pages []int) (allowed, rejected []int)
	Validate(ctx context.Context, pages []int) error
	ReferenceFor(page int) (domain.ReferenceImage, error)
}

// StoryStore はストーリー文書を読み書きします。Save は常に全体を上書きするのだ。
type StoryStore interface {
	Load(ctx context.Context) (*domain.StoryDocument, error)
	Save(ctx context.Context, doc *domain.StoryDocument) error
}

// ArtifactWriter はページ画像のバックアップと保存を行います。
// Backup はバックアップできなかったページをページ単位の失敗として返すのだ。
type ArtifactWriter interface {
	Backup(pages []int) (copied []string, failed []domain.PageFailure)
	Persist(ctx context.Context, page int, data []byte) (primary, secondary string, err error)
}
