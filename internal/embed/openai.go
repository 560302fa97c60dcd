package embed

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ppiankov/moneta/internal/model"
)

// OpenAIEmbedder produces embeddings through the OpenAI embeddings API
// (or any compatible endpoint via BaseURL). Requests are throttled so
// bulk ingestion stays inside the provider's rate limits.
type OpenAIEmbedder struct {
	client  *openai.Client
	limiter *rate.Limiter
	model   string
	dims    int
}

// NewOpenAIEmbedder creates an OpenAI-backed embedder.
func NewOpenAIEmbedder(cfg model.EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required for the openai embedding provider")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = "text-embedding-3-small"
	}

	dims := cfg.Dimensions
	if dims <= 0 {
		dims = 1536 // text-embedding-3-small native length
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(clientConfig),
		limiter: rate.NewLimiter(rate.Limit(rps), 5),
		model:   embModel,
		dims:    dims,
	}, nil
}

// Embed requests one embedding from the API.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) (Vector, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("embedding response contained no data")
	}

	raw := resp.Data[0].Embedding
	vec := make(Vector, len(raw))
	for i, v := range raw {
		vec[i] = float64(v)
	}
	return vec, nil
}

// Dimensions returns the expected vector length.
func (e *OpenAIEmbedder) Dimensions() int {
	return e.dims
}
