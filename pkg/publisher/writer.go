package publisher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
)

const (
	contentTypePNG  = "image/png"
	contentTypeJPEG = "image/jpeg"
)

// Options は Writer の動作を制御する設定項目です。
type Options struct {
	BackupDirName string
	JPEGQuality   int
}

// Writer はページ画像の保存と、上書き前のバックアップを担います。
// 成果物の書き込みは remoteio.OutputWriter に任せ、バックアップだけはローカルの排他作成で行うのだ。
type Writer struct {
	out       remoteio.OutputWriter
	outputDir string
	backupDir string
	quality   int
}

// NewWriter は出力ディレクトリを基準に Writer を生成します。
func NewWriter(outputDir string, out remoteio.OutputWriter, opts Options) (*Writer, error) {
	if outputDir == "" {
		return nil, fmt.Errorf("outputDir is required")
	}
	if out == nil {
		return nil, fmt.Errorf("output writer is required")
	}
	if opts.BackupDirName == "" {
		opts.BackupDirName = config.DefaultBackupDirName
	}
	if opts.JPEGQuality <= 0 || opts.JPEGQuality > 100 {
		opts.JPEGQuality = config.DefaultJPEGQuality
	}

	backupDir, err := asset.ResolveBackupDir(outputDir, opts.BackupDirName)
	if err != nil {
		return nil, fmt.Errorf("バックアップ先の解決に失敗しました: %w", err)
	}

	return &Writer{
		out:       out,
		outputDir: outputDir,
		backupDir: backupDir,
		quality:   opts.JPEGQuality,
	}, nil
}

// OutputDir は成果物の出力ディレクトリを返します。
func (w *Writer) OutputDir() string { return w.outputDir }

// BackupDir はバックアップディレクトリを返します。
func (w *Writer) BackupDir() string { return w.backupDir }

// Backup は指定ページの既存成果物（png / jpg）をバックアップディレクトリへコピーします。
// 既にバックアップがあるページ・形式はスキップするので、何度呼んでも最初の状態が残るのだ。
// 新しくバックアップしたファイルのパスと、バックアップできなかったページを返します。
// 失敗したページは上書きしてはいけないので、呼び出し側は生成対象から外してください。
func (w *Writer) Backup(pages []int) (copied []string, failed []domain.PageFailure) {
	for _, page := range pages {
		done, err := w.backupPage(page)
		copied = append(copied, done...)
		if err != nil {
			slog.Error("バックアップに失敗しました", "page", page, "error", err)
			failed = append(failed, domain.PageFailure{Page: page, Err: err})
		}
	}
	return copied, failed
}

// backupPage は1ページ分の png / jpg をバックアップします。
func (w *Writer) backupPage(page int) ([]string, error) {
	var copied []string
	for _, ext := range asset.Extensions {
		src, err := asset.ResolvePagePath(w.outputDir, page, ext)
		if err != nil {
			return copied, &domain.IOError{Op: "resolve", Path: w.outputDir, Err: err}
		}
		if _, err := os.Stat(src); errors.Is(err, fs.ErrNotExist) {
			continue
		} else if err != nil {
			return copied, &domain.IOError{Op: "stat", Path: src, Err: err}
		}

		dst, err := asset.ResolvePagePath(w.backupDir, page, ext)
		if err != nil {
			return copied, &domain.IOError{Op: "resolve", Path: w.backupDir, Err: err}
		}

		done, err := backupFile(src, dst)
		if err != nil {
			return copied, err
		}
		if done {
			slog.Info("バックアップしました", "page", page, "path", dst)
			copied = append(copied, dst)
		}
	}
	return copied, nil
}

// Persist は画像を png で保存し、再エンコードした jpg も書き出します。
// 変換できないデータではどちらのファイルにも触れずに IOError を返すのだ。
func (w *Writer) Persist(ctx context.Context, page int, data []byte) (primary, secondary string, err error) {
	primary, err = asset.ResolvePagePath(w.outputDir, page, asset.PrimaryExt)
	if err != nil {
		return "", "", &domain.IOError{Op: "resolve", Path: w.outputDir, Err: err}
	}
	secondary, err = asset.ResolvePagePath(w.outputDir, page, asset.SecondaryExt)
	if err != nil {
		return "", "", &domain.IOError{Op: "resolve", Path: w.outputDir, Err: err}
	}

	jpg, err := ToJPEG(data, w.quality)
	if err != nil {
		return "", "", &domain.IOError{Op: "convert", Path: secondary, Err: err}
	}

	if err := w.out.Write(ctx, primary, bytes.NewReader(data), contentTypePNG); err != nil {
		return "", "", &domain.IOError{Op: "write", Path: primary, Err: err}
	}
	if err := w.out.Write(ctx, secondary, bytes.NewReader(jpg), contentTypeJPEG); err != nil {
		return "", "", &domain.IOError{Op: "write", Path: secondary, Err: err}
	}

	slog.InfoContext(ctx, "ページ画像を保存しました", "page", page, "png", primary, "jpg", secondary)
	return primary, secondary, nil
}

// backupFile は dst が存在しない場合に限り src をコピーし、更新時刻も引き継ぎます。
func backupFile(src, dst string) (bool, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, &domain.IOError{Op: "mkdir", Path: filepath.Dir(dst), Err: err}
	}

	in, err := os.Open(src)
	if err != nil {
		return false, &domain.IOError{Op: "open", Path: src, Err: err}
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, &domain.IOError{Op: "create", Path: dst, Err: err}
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return false, &domain.IOError{Op: "copy", Path: dst, Err: err}
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return false, &domain.IOError{Op: "close", Path: dst, Err: err}
	}

	if info, err := in.Stat(); err == nil {
		if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
			slog.Warn("バックアップの更新時刻を設定できませんでした", "path", dst, "error", err)
		}
	}
	return true, nil
}
