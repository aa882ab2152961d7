package domain

import (
	"errors"
	"fmt"
)

// ErrPrecondition はバッチ開始前に検出される致命的なエラーの共通センチネルです。
// これに該当するエラーは副作用が発生する前にバッチ全体を中止させます。
var ErrPrecondition = errors.New("precondition failed")

// MissingCredentialError はプロバイダの API 認証情報が環境に存在しないことを示します。
type MissingCredentialError struct {
	EnvVar string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("environment variable %s is not set", e.EnvVar)
}

func (e *MissingCredentialError) Is(target error) bool { return target == ErrPrecondition }

// MissingReferenceError は参照画像ファイルがディスク上に存在しないことを示します。
type MissingReferenceError struct {
	Reference ReferenceImage
	Err       error
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("reference image not found: %s: %v", e.Reference, e.Err)
}

func (e *MissingReferenceError) Unwrap() error { return e.Err }

func (e *MissingReferenceError) Is(target error) bool { return target == ErrPrecondition }

// DocumentNotFoundError はストーリードキュメントが読み込めないことを示します。
type DocumentNotFoundError struct {
	Path string
	Err  error
}

func (e *DocumentNotFoundError) Error() string {
	return fmt.Sprintf("story document not found: %s: %v", e.Path, e.Err)
}

func (e *DocumentNotFoundError) Unwrap() error { return e.Err }

func (e *DocumentNotFoundError) Is(target error) bool { return target == ErrPrecondition }

// MalformedDocumentError はストーリードキュメントの内容が不正であることを示します。
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed story document %s: %v", e.Path, e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

func (e *MalformedDocumentError) Is(target error) bool { return target == ErrPrecondition }

// EmptyBatchError は再生成対象のページが1つも残らなかったことを示します。
type EmptyBatchError struct {
	Requested []int
}

func (e *EmptyBatchError) Error() string {
	return fmt.Sprintf("no pages to regenerate (requested: [%s])", JoinPages(e.Requested))
}

func (e *EmptyBatchError) Is(target error) bool { return target == ErrPrecondition }

// UnknownPageError はプロンプトカタログに該当ページが存在しないことを示します。
type UnknownPageError struct {
	Page int
}

func (e *UnknownPageError) Error() string {
	return fmt.Sprintf("no prompt registered for page %d", e.Page)
}

// GenerationError はプロバイダへの生成リクエストが失敗したことを示します。
type GenerationError struct {
	Page  int
	Model string
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for page %d (model %s): %v", e.Page, e.Model, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// DownloadError は生成結果の画像取得に失敗したことを示します。
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("failed to download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// IOError は成果物やバックアップの書き込みに失敗したことを示します。
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
