package generator

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shouni/gemini-image-kit/imgutil"
)

const cacheKeyDataURI = "data_uri:"

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// MimeTypeFor は拡張子から MIME タイプを返します。未知の拡張子は image/jpeg として扱います。
func MimeTypeFor(path string) string {
	if m, ok := mimeByExt[strings.ToLower(filepath.Ext(path))]; ok {
		return m
	}
	return "image/jpeg"
}

// EncodeDataURI は画像を data:<mime>;base64,<payload> 形式にします。
func EncodeDataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// encodeReference は参照画像を data URI に変換します。
// 同じ参照画像はバッチ中に何度も使われるので、パスと更新時刻をキーにキャッシュするのだ。
func (c *Client) encodeReference(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("%s%s@%d:%d", cacheKeyDataURI, path, info.ModTime().UnixNano(), info.Size())
	if cached, ok := c.cache.Get(key); ok {
		if uri, ok := cached.(string); ok {
			return uri, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	mimeType := MimeTypeFor(path)
	if c.opts.CompressThreshold > 0 && int64(len(data)) > c.opts.CompressThreshold {
		compressed, err := imgutil.CompressToJPEG(bytes.NewReader(data), c.opts.CompressQuality)
		if err != nil {
			// 圧縮できなくても元画像のまま送れるので続行
			slog.Warn("参照画像の圧縮に失敗しました。元データを使用します", "path", path, "error", err)
		} else {
			slog.Debug("参照画像を圧縮しました", "path", path, "before", len(data), "after", len(compressed))
			data = compressed
			mimeType = "image/jpeg"
		}
	}

	uri := EncodeDataURI(mimeType, data)
	c.cache.Set(key, uri, c.opts.CacheTTL)
	return uri, nil
}
