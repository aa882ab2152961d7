package reference

import (
	"context"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/shouni/go-storybook-kit/pkg/domain"

	"golang.org/x/sync/errgroup"
)

// Config は参照画像の配置とページの役割（室内シーン・参照ページ）を定義します。
type Config struct {
	// Dir は相対パスで指定された参照画像の基準ディレクトリです。
	Dir            string `json:"-"`
	OutdoorFile    string `json:"outdoor_file"`
	HomeFile       string `json:"home_file"`
	HomePages      []int  `json:"home_pages"`
	ReferencePages []int  `json:"reference_pages"`
}

// Selector はページ番号から、外見の固定に使う参照画像を決定するのだ。
type Selector struct {
	refs           map[domain.ReferenceRole]domain.ReferenceImage
	homePages      map[int]struct{}
	referencePages map[int]struct{}
}

// NewSelector は Config から Selector を生成します。
func NewSelector(cfg Config) (*Selector, error) {
	if cfg.OutdoorFile == "" {
		return nil, fmt.Errorf("outdoor reference file is required")
	}
	if cfg.HomeFile == "" {
		return nil, fmt.Errorf("home reference file is required")
	}

	return &Selector{
		refs: map[domain.ReferenceRole]domain.ReferenceImage{
			domain.RoleOutdoor: {Role: domain.RoleOutdoor, Path: resolve(cfg.Dir, cfg.OutdoorFile)},
			domain.RoleHome:    {Role: domain.RoleHome, Path: resolve(cfg.Dir, cfg.HomeFile)},
		},
		homePages:      toSet(cfg.HomePages),
		referencePages: toSet(cfg.ReferencePages),
	}, nil
}

// Resolve はページに対応する参照画像を返します（存在確認は行いません）。
// 室内シーンのページは home、それ以外は outdoor の参照画像を使うのだ。
func (s *Selector) Resolve(page int) domain.ReferenceImage {
	if _, ok := s.homePages[page]; ok {
		return s.refs[domain.RoleHome]
	}
	return s.refs[domain.RoleOutdoor]
}

// ReferenceFor はページに対応する参照画像を返し、ファイルが存在しなければ MissingReferenceError を返します。
func (s *Selector) ReferenceFor(page int) (domain.ReferenceImage, error) {
	ref := s.Resolve(page)
	if err := checkFile(ref); err != nil {
		return domain.ReferenceImage{}, err
	}
	return ref, nil
}

// IsReferencePage はページが参照ページ（再生成対象外）かどうかを返します。
func (s *Selector) IsReferencePage(page int) bool {
	_, ok := s.referencePages[page]
	return ok
}

// ReferencePages は参照ページを昇順で返します。
func (s *Selector) ReferencePages() []int {
	return slices.Sorted(maps.Keys(s.referencePages))
}

// Partition は要求ページを再生成可能なページと参照ページに分けます。
// allowed は重複を除いた昇順、rejected は要求順のまま返すのだ。
func (s *Selector) Partition(pages []int) (allowed, rejected []int) {
	seen := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if s.IsReferencePage(p) {
			rejected = append(rejected, p)
			continue
		}
		allowed = append(allowed, p)
	}
	slices.Sort(allowed)
	return allowed, rejected
}

// RequiredReferences は指定ページ群が必要とする参照画像を役割ごとに1つずつ返します。
func (s *Selector) RequiredReferences(pages []int) []domain.ReferenceImage {
	var roles []domain.ReferenceRole
	for _, p := range pages {
		role := s.Resolve(p).Role
		if !slices.Contains(roles, role) {
			roles = append(roles, role)
		}
	}
	slices.Sort(roles)

	refs := make([]domain.ReferenceImage, 0, len(roles))
	for _, r := range roles {
		refs = append(refs, s.refs[r])
	}
	return refs
}

// References は設定されているすべての参照画像を役割順に返します。
func (s *Selector) References() []domain.ReferenceImage {
	return []domain.ReferenceImage{s.refs[domain.RoleHome], s.refs[domain.RoleOutdoor]}
}

// Validate は指定ページ群が必要とする全ての参照画像がディスク上に存在することを確認します。
// 生成 API を1回でも呼ぶ前に実行し、どれか1つでも欠けていればバッチ全体を拒否するのだ。
func (s *Selector) Validate(ctx context.Context, pages []int) error {
	eg, egCtx := errgroup.WithContext(ctx)
	for _, ref := range s.RequiredReferences(pages) {
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			return checkFile(ref)
		})
	}
	return eg.Wait()
}

func checkFile(ref domain.ReferenceImage) error {
	info, err := os.Stat(ref.Path)
	if err != nil {
		return &domain.MissingReferenceError{Reference: ref, Err: err}
	}
	if !info.Mode().IsRegular() {
		return &domain.MissingReferenceError{Reference: ref, Err: fmt.Errorf("not a regular file")}
	}
	return nil
}

func resolve(dir, file string) string {
	if dir == "" || filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(dir, file)
}

func toSet(pages []int) map[int]struct{} {
	set := make(map[int]struct{}, len(pages))
	for _, p := range pages {
		set[p] = struct{}{}
	}
	return set
}
