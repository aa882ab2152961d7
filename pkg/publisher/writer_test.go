package publisher

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shouni/go-storybook-kit/pkg/asset"
	"github.com/shouni/go-storybook-kit/pkg/config"
	"github.com/shouni/go-storybook-kit/pkg/domain"

	"github.com/shouni/go-remote-io/pkg/remoteio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func transparentPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.NRGBA{R: 255, A: 128})
	return encodePNG(t, img)
}

func palettedPNG(t *testing.T) []byte {
	t.Helper()
	pal := color.Palette{color.Transparent, color.RGBA{G: 255, A: 255}}
	img := image.NewPaletted(image.Rect(0, 0, 4, 4), pal)
	img.SetColorIndex(2, 2, 1)
	return encodePNG(t, img)
}

var localWriter = remoteio.NewUniversalIOWriter(nil, nil)

func newTestWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	dir := t.TempDir()
	w, err := NewWriter(dir, localWriter, Options{})
	require.NoError(t, err)
	return w, dir
}

func pagePath(t *testing.T, dir string, page int, ext string) string {
	t.Helper()
	p, err := asset.ResolvePagePath(dir, page, ext)
	require.NoError(t, err)
	return p
}

func TestNewWriter(t *testing.T) {
	_, err := NewWriter("", localWriter, Options{})
	assert.Error(t, err)
	_, err = NewWriter(t.TempDir(), nil, Options{})
	assert.Error(t, err)

	w, dir := newTestWriter(t)
	expected, err := asset.ResolveBackupDir(dir, config.DefaultBackupDirName)
	require.NoError(t, err)
	assert.Equal(t, expected, w.BackupDir())
	assert.Equal(t, config.DefaultJPEGQuality, w.quality)
}

func TestWriter_Persist(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{name: "透過 PNG", data: transparentPNG},
		{name: "パレット PNG", data: palettedPNG},
		{name: "不透明 PNG", data: func(t *testing.T) []byte {
			return encodePNG(t, image.NewRGBA(image.Rect(0, 0, 4, 4)))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, dir := newTestWriter(t)
			data := tt.data(t)

			primary, secondary, err := w.Persist(context.Background(), 6, data)
			require.NoError(t, err)

			assert.Equal(t, filepath.Base(primary), "page_06.png")
			assert.Equal(t, filepath.Base(secondary), "page_06.jpg")
			assert.Equal(t, pagePath(t, dir, 6, "png"), primary)

			saved, err := os.ReadFile(primary)
			require.NoError(t, err)
			assert.Equal(t, data, saved, "png は受け取ったバイト列そのままであること")

			f, err := os.Open(secondary)
			require.NoError(t, err)
			defer f.Close()
			img, err := jpeg.Decode(f)
			require.NoError(t, err)
			assert.Equal(t, 4, img.Bounds().Dx())
		})
	}

	t.Run("デコードできないデータは IOError になること", func(t *testing.T) {
		w, dir := newTestWriter(t)
		_, _, err := w.Persist(context.Background(), 3, []byte("not an image"))
		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "convert", ioErr.Op)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Empty(t, entries, "どちらのファイルも作られないこと")
	})

	t.Run("変換できないデータで既存の png / jpg が書き換わらないこと", func(t *testing.T) {
		ctx := context.Background()
		w, dir := newTestWriter(t)
		_, _, err := w.Persist(ctx, 7, transparentPNG(t))
		require.NoError(t, err)

		pngBefore, err := os.ReadFile(pagePath(t, dir, 7, "png"))
		require.NoError(t, err)
		jpgBefore, err := os.ReadFile(pagePath(t, dir, 7, "jpg"))
		require.NoError(t, err)

		_, _, err = w.Persist(ctx, 7, []byte("<html>error page</html>"))
		require.Error(t, err)

		pngAfter, err := os.ReadFile(pagePath(t, dir, 7, "png"))
		require.NoError(t, err)
		jpgAfter, err := os.ReadFile(pagePath(t, dir, 7, "jpg"))
		require.NoError(t, err)
		assert.Equal(t, pngBefore, pngAfter)
		assert.Equal(t, jpgBefore, jpgAfter)
	})

	t.Run("出力先を作れなければ IOError になること", func(t *testing.T) {
		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

		w, err := NewWriter(filepath.Join(blocker, "out"), localWriter, Options{})
		require.NoError(t, err)
		_, _, err = w.Persist(context.Background(), 3, transparentPNG(t))
		var ioErr *domain.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "write", ioErr.Op)
	})
}

func TestToJPEG_FlattensOntoWhite(t *testing.T) {
	out, err := ToJPEG(transparentPNG(t), 95)
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)

	r, g, b, a := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0xf000), "完全透過の画素は白になること")
	assert.Greater(t, g, uint32(0xf000))
	assert.Greater(t, b, uint32(0xf000))
}

func TestWriter_Backup(t *testing.T) {
	w, dir := newTestWriter(t)

	original := []byte("first version")
	require.NoError(t, os.WriteFile(pagePath(t, dir, 6, "png"), original, 0o644))
	require.NoError(t, os.WriteFile(pagePath(t, dir, 6, "jpg"), []byte("first jpg"), 0o644))
	past := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, os.Chtimes(pagePath(t, dir, 6, "png"), past, past))

	t.Run("既存の成果物がコピーされること", func(t *testing.T) {
		copied, failed := w.Backup([]int{6, 7})
		require.Empty(t, failed)
		assert.Len(t, copied, 2, "存在しないページ7は無視されること")

		backup, err := os.ReadFile(pagePath(t, w.BackupDir(), 6, "png"))
		require.NoError(t, err)
		assert.Equal(t, original, backup)

		info, err := os.Stat(pagePath(t, w.BackupDir(), 6, "png"))
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(past), "更新時刻が引き継がれること")
	})

	t.Run("2回目のバックアップは最初の状態を上書きしないこと", func(t *testing.T) {
		require.NoError(t, os.WriteFile(pagePath(t, dir, 6, "png"), []byte("second version"), 0o644))

		copied, failed := w.Backup([]int{6})
		require.Empty(t, failed)
		assert.Empty(t, copied)

		backup, err := os.ReadFile(pagePath(t, w.BackupDir(), 6, "png"))
		require.NoError(t, err)
		assert.Equal(t, original, backup)
	})

	t.Run("バックアップ後の Persist でもバックアップは変わらないこと", func(t *testing.T) {
		_, _, err := w.Persist(context.Background(), 6, transparentPNG(t))
		require.NoError(t, err)
		_, failed := w.Backup([]int{6})
		require.Empty(t, failed)

		backup, err := os.ReadFile(pagePath(t, w.BackupDir(), 6, "png"))
		require.NoError(t, err)
		assert.Equal(t, original, backup)
	})
}

func TestWriter_BackupFailuresArePerPage(t *testing.T) {
	w, dir := newTestWriter(t)
	require.NoError(t, os.WriteFile(pagePath(t, dir, 6, "png"), []byte("keep me"), 0o644))
	require.NoError(t, os.WriteFile(w.BackupDir(), []byte("not a directory"), 0o644))

	copied, failed := w.Backup([]int{6, 7, 8})

	assert.Empty(t, copied)
	require.Len(t, failed, 1, "成果物の無いページ7, 8は失敗しないこと")
	assert.Equal(t, 6, failed[0].Page)
	var ioErr *domain.IOError
	require.ErrorAs(t, failed[0].Err, &ioErr)
	assert.Equal(t, "mkdir", ioErr.Op)
}
