// Package embed provides the embedding function the retriever and
// verifier depend on. The embedder is an injected dependency, never an
// ambient global, so tests can substitute deterministic stubs.
package embed

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/moneta/internal/model"
)

// Vector is a fixed-length embedding.
type Vector = []float64

// Embedder turns text into a fixed-length vector.
type Embedder interface {
	// Embed returns the embedding for one text.
	Embed(ctx context.Context, text string) (Vector, error)

	// Dimensions returns the vector length this embedder produces.
	Dimensions() int
}

// Cosine returns the cosine similarity of two vectors, 0 when either
// has zero norm or the lengths differ.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// NewEmbedder creates an embedder from configuration.
func NewEmbedder(cfg model.EmbeddingConfig) (Embedder, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIEmbedder(cfg)
	case "local", "":
		return NewLocalEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s (supported: openai, local)", cfg.Provider)
	}
}
