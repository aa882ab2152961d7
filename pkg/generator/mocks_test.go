package generator

import (
	"context"
	"sync"
	"time"
)

// mockPredictor は Predictor インターフェースを実装するのだ。
type mockPredictor struct {
	mu     sync.Mutex
	output any
	err    error
	calls  []predictCall
}

type predictCall struct {
	model string
	input map[string]any
}

func (m *mockPredictor) Predict(_ context.Context, model string, input map[string]any) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, predictCall{model: model, input: input})
	if m.err != nil {
		return nil, m.err
	}
	return m.output, nil
}

// mockHTTPClient は HTTPClient インターフェースを実装するのだ。
type mockHTTPClient struct {
	data      []byte
	err       error
	requested []string
}

func (m *mockHTTPClient) FetchBytes(_ context.Context, url string) ([]byte, error) {
	m.requested = append(m.requested, url)
	if m.err != nil {
		return nil, m.err
	}
	return m.data, nil
}

// mockCache は ImageCacher インターフェースを実装するのだ。
type mockCache struct {
	data map[string]any
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string]any)}
}

func (m *mockCache) Get(key string) (any, bool) {
	v, ok := m.data[key]
	return v, ok
}

func (m *mockCache) Set(key string, value any, _ time.Duration) {
	m.sets++
	m.data[key] = value
}
