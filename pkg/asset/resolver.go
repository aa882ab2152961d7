package asset

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/shouni/go-utils/urlpath"
)

const (
	// PrimaryExt はプロバイダから取得した画像をそのまま保存する形式の拡張子です。
	PrimaryExt = "png"
	// SecondaryExt はサイズ最適化した派生画像の拡張子です。
	SecondaryExt = "jpg"
)

// Extensions はページごとに管理する成果物の拡張子一覧です（バックアップ対象）。
var Extensions = []string{PrimaryExt, SecondaryExt}

// PageFileRegex はページ画像 (page_06.png, page_06.jpg 等) に一致します。
var PageFileRegex = regexp.MustCompile(`^page_(\d{2,})\.(png|jpg)$`)

// PageFileName はページ番号を2桁ゼロ埋めしたファイル名を返します。
// 例: 6, "png" -> "page_06.png"
func PageFileName(page int, ext string) string {
	return fmt.Sprintf("page_%02d.%s", page, ext)
}

// ResolvePagePath は出力ディレクトリとページ番号から成果物のパスを解決します。
func ResolvePagePath(baseDir string, page int, ext string) (string, error) {
	return urlpath.ResolvePath(baseDir, PageFileName(page, ext))
}

// ResolveBackupDir は出力ディレクトリ配下のバックアップディレクトリのパスを解決します。
func ResolveBackupDir(baseDir, backupDirName string) (string, error) {
	return urlpath.ResolvePath(baseDir, backupDirName)
}

// ParsePageFileName はページ画像のファイル名からページ番号と拡張子を取り出します。
func ParsePageFileName(name string) (int, string, bool) {
	m := PageFileRegex.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return n, m[2], true
}
