package story

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const contentTypeJSON = "application/json; charset=utf-8"

// Load はストーリードキュメントを読み込みます。
// 開けなければ DocumentNotFoundError、内容が不正なら MalformedDocumentError を返すのだ。
func Load(ctx context.Context, reader remoteio.InputReader, path string) (*domain.StoryDocument, error) {
	slog.DebugContext(ctx, "ストーリー文書を読み込んでいます", "path", path)
	rc, err := reader.Open(ctx, path)
	if err != nil {
		return nil, &domain.DocumentNotFoundError{Path: path, Err: err}
	}
	defer rc.Close()

	var doc domain.StoryDocument
	if err := json.NewDecoder(rc).Decode(&doc); err != nil {
		return nil, &domain.MalformedDocumentError{Path: path, Err: err}
	}
	if err := doc.Validate(); err != nil {
		return nil, &domain.MalformedDocumentError{Path: path, Err: err}
	}
	return &doc, nil
}

// UpdatePrompts は指定されたページのイラストプロンプトをその場で置き換え、更新したページ番号を返します。
// ドキュメントに存在しないページは黙って無視します。
func UpdatePrompts(doc *domain.StoryDocument, prompts map[int]string) (*domain.StoryDocument, []int) {
	var updated []int
	if doc == nil {
		return doc, updated
	}
	for i := range doc.Pages {
		p := &doc.Pages[i]
		if prompt, ok := prompts[p.PageNumber]; ok {
			p.IllustrationPrompt = prompt
			updated = append(updated, p.PageNumber)
		}
	}
	return doc, updated
}

// SetIllustrationPath はページの成果物パスを記録します。ページが存在しなければ false を返します。
func SetIllustrationPath(doc *domain.StoryDocument, page int, path string) bool {
	p := doc.FindPage(page)
	if p == nil {
		return false
	}
	p.IllustrationPath = path
	return true
}

// Save はドキュメント全体を上書き保存します（差分更新ではありません）。
func Save(ctx context.Context, writer remoteio.OutputWriter, doc *domain.StoryDocument, path string) error {
	if doc == nil {
		return errors.New("story document is nil")
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode story document: %w", err)
	}
	data = append(data, '\n')

	if err := writer.Write(ctx, path, bytes.NewReader(data), contentTypeJSON); err != nil {
		return &domain.IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// FileStore はパスと入出力を束ねたストーリードキュメントの読み書き窓口です。
type FileStore struct {
	path   string
	reader remoteio.InputReader
	writer remoteio.OutputWriter
}

// NewFileStore は FileStore を生成します。
func NewFileStore(path string, reader remoteio.InputReader, writer remoteio.OutputWriter) (*FileStore, error) {
	switch {
	case path == "":
		return nil, fmt.Errorf("story path is required")
	case reader == nil:
		return nil, fmt.Errorf("input reader is required")
	case writer == nil:
		return nil, fmt.Errorf("output writer is required")
	}
	return &FileStore{path: path, reader: reader, writer: writer}, nil
}

// Path は保存先のパスを返します。
func (s *FileStore) Path() string { return s.path }

// Load は束ねたパスからドキュメントを読み込みます。
func (s *FileStore) Load(ctx context.Context) (*domain.StoryDocument, error) {
	return Load(ctx, s.reader, s.path)
}

// Save は束ねたパスへドキュメントを上書き保存します。
func (s *FileStore) Save(ctx context.Context, doc *domain.StoryDocument) error {
	return Save(ctx, s.writer, doc, s.path)
}
