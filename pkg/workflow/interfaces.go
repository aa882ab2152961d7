package workflow

import (
	"context"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// BatchRunner は、指定ページの挿絵を再生成し、成功・失敗ページを報告する責務を持ちます。
type BatchRunner interface {
	Run(ctx context.Context, pages []int, fast bool) (domain.BatchReport, error)
}

// StoryWriter は、子どものプロフィールから最初のストーリー文書を書き起こす外部の協力者です。
// テキスト生成 API の呼び出しはこのキットの範囲外なので、境界としてのインターフェースだけを定義します。
// このキットに実装は無く、呼び出し側が生成した文書を StoryPath に置いてから再生成を行うのだ。
type StoryWriter interface {
	Write(ctx context.Context, profile map[string]any) (*domain.StoryDocument, error)
}

// BookRenderer は、完成したストーリー文書と挿絵から本（PDF など）を組み上げる外部の協力者です。
// 再生成が1ページでも成功した後に呼ばれ、出力先のパスを返します。
type BookRenderer interface {
	Render(ctx context.Context, doc *domain.StoryDocument, illustrationDir string) (string, error)
}
