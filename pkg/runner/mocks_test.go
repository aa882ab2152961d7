package runner

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/shouni/go-storybook-kit/pkg/domain"
)

// fakeGenerator は generator.ImageGenerator を実装するのだ。
type fakeGenerator struct {
	failPages map[int]error
	requests  []domain.GenerationRequest
	onCall    func(page int)
}

func (f *fakeGenerator) Generate(_ context.Context, req domain.GenerationRequest) (*domain.GeneratedImage, error) {
	f.requests = append(f.requests, req)
	if f.onCall != nil {
		f.onCall(req.PageNumber)
	}
	if err, ok := f.failPages[req.PageNumber]; ok {
		return nil, &domain.GenerationError{Page: req.PageNumber, Model: "test", Err: err}
	}
	return &domain.GeneratedImage{
		Page:      req.PageNumber,
		Model:     "test",
		SourceURL: fmt.Sprintf("https://cdn.example.com/%d.png", req.PageNumber),
		Data:      pngBytes(),
	}, nil
}

func (f *fakeGenerator) pages() []int {
	var out []int
	for _, r := range f.requests {
		out = append(out, r.PageNumber)
	}
	return out
}

func pngBytes() []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.NRGBA{B: 255, A: 200})
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
