package workflow

import (
	"errors"
	"io/fs"
	"maps"
	"os"
	"slices"

	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// PageStatus は1ページ分の再生成対象としての状態です。
type PageStatus struct {
	Page        int
	Role        domain.ReferenceRole
	IsReference bool
	InCatalog   bool
	// Artifacts は出力ディレクトリに存在する成果物の拡張子です。
	Artifacts []string
	// BackedUp はバックアップ済みの拡張子です。
	BackedUp []string
}

// Regenerable は再生成の対象にできるページかどうかを返します。
func (s PageStatus) Regenerable() bool {
	return s.InCatalog && !s.IsReference
}

// PageStatuses はカタログ・参照ページ・出力ディレクトリ上の成果物を突き合わせた一覧を返します。
func (m *Manager) PageStatuses() ([]PageStatus, error) {
	artifacts, err := scanPageFiles(m.writer.OutputDir())
	if err != nil {
		return nil, err
	}
	backups, err := scanPageFiles(m.writer.BackupDir())
	if err != nil {
		return nil, err
	}

	pages := make(map[int]struct{})
	for _, p := range m.catalog.Pages() {
		pages[p] = struct{}{}
	}
	for _, p := range m.selector.ReferencePages() {
		pages[p] = struct{}{}
	}
	for p := range artifacts {
		pages[p] = struct{}{}
	}

	statuses := make([]PageStatus, 0, len(pages))
	for _, p := range slices.Sorted(maps.Keys(pages)) {
		statuses = append(statuses, PageStatus{
			Page:        p,
			Role:        m.selector.Resolve(p).Role,
			IsReference: m.selector.IsReferencePage(p),
			InCatalog:   m.catalog.Has(p),
			Artifacts:   artifacts[p],
			BackedUp:    backups[p],
		})
	}
	return statuses, nil
}

// scanPageFiles はディレクトリ内の page_NN.{png,jpg} をページ番号ごとにまとめます。
// ディレクトリがまだ無い場合は空の結果を返すのだ。
func scanPageFiles(dir string) (map[int][]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[int][]string{}, nil
	}
	if err != nil {
		return nil, &domain.IOError{Op: "readdir", Path: dir, Err: err}
	}

	found := make(map[int][]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		page, ext, ok := asset.ParsePageFileName(e.Name())
		if !ok {
			continue
		}
		found[page] = append(found[page], ext)
	}
	for p := range found {
		slices.Sort(found[p])
	}
	return found, nil
}
