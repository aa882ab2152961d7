package publisher

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ToJPEG は画像を JPEG に再エンコードします。
// JPEG は透過やパレットを表現できないため、白背景に合成してから書き出すのだ。
func ToJPEG(data []byte, quality int) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("画像のデコードに失敗しました: %w", err)
	}

	flat := Flatten(img)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, flat, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("%s から JPEG への変換に失敗しました: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Flatten は透過・パレット画像を不透明な RGBA 画像に変換します。
// YCbCr とグレースケールはそのまま返します。
func Flatten(img image.Image) image.Image {
	switch img.(type) {
	case *image.YCbCr, *image.Gray:
		return img
	}

	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
