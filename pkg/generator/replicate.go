package generator

import (
	"context"
	"fmt"

	"github.com/replicate/replicate-go"
)

// ReplicatePredictor は Replicate の公式モデルを呼び出す Predictor 実装です。
type ReplicatePredictor struct {
	client *replicate.Client
}

// NewReplicatePredictor は API トークンから ReplicatePredictor を生成します。
func NewReplicatePredictor(token string) (*ReplicatePredictor, error) {
	if token == "" {
		return nil, fmt.Errorf("replicate api token is required")
	}
	client, err := replicate.NewClient(replicate.WithToken(token))
	if err != nil {
		return nil, fmt.Errorf("replicate クライアントの初期化に失敗しました: %w", err)
	}
	return &ReplicatePredictor{client: client}, nil
}

// Predict は "owner/name" 形式のモデルで推論を実行し、完了まで待って出力を返します。
func (p *ReplicatePredictor) Predict(ctx context.Context, model string, input map[string]any) (any, error) {
	out, err := p.client.Run(ctx, model, replicate.PredictionInput(input), nil)
	if err != nil {
		return nil, err
	}
	return out, nil
}
