package domain

import (
	"slices"
	"strconv"
	"strings"
)

// ModelVariant は生成モデルの種別です。
type ModelVariant string

const (
	ModelStandard ModelVariant = "standard"
	ModelFast     ModelVariant = "fast"
)

// GenerationParams はプロバイダへ毎回固定で渡す生成パラメータです。
type GenerationParams struct {
	AspectRatio     string
	SafetyTolerance int
	OutputFormat    string
	OutputQuality   int
}

// GenerationRequest は1ページ分の画像生成要求です。永続化はされません。
type GenerationRequest struct {
	PageNumber    int
	Prompt        string
	ReferencePath string
	Variant       ModelVariant
	Params        GenerationParams
}

// PageFailure は失敗したページ番号とその原因です。
type PageFailure struct {
	Page int
	Err  error
}

// BatchReport はバッチ実行の成功・失敗ページをまとめた結果なのだ。
type BatchReport struct {
	Succeeded []int
	Failed    []PageFailure
	Skipped   []int
}

// FailedPages は失敗したページ番号を昇順で返します。
func (r BatchReport) FailedPages() []int {
	pages := make([]int, 0, len(r.Failed))
	for _, f := range r.Failed {
		pages = append(pages, f.Page)
	}
	slices.Sort(pages)
	return pages
}

// HasFailures は1ページでも失敗があれば true を返します。
func (r BatchReport) HasFailures() bool {
	return len(r.Failed) > 0
}

// RetryArgument は失敗ページだけを再実行するための --pages 引数値 ("7,9") を返します。
func (r BatchReport) RetryArgument() string {
	return JoinPages(r.FailedPages())
}

// JoinPages はページ番号をカンマ区切りの文字列にします。
func JoinPages(pages []int) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, ",")
}

// GeneratedImage はプロバイダから取得した1ページ分の画像です。
type GeneratedImage struct {
	Page      int
	Model     string
	SourceURL string
	Data      []byte
}
