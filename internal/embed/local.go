package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

const defaultDimensions = 1024

// LocalEmbedder is a deterministic bag-of-tokens feature-hashing
// embedder. It needs no network and always produces the same vector
// for the same text, which makes retrieval ordering reproducible. It
// is the default when no embedding API is configured and the stub of
// choice in tests.
type LocalEmbedder struct {
	dims int
}

// NewLocalEmbedder creates a local embedder with the given vector length.
func NewLocalEmbedder(dims int) *LocalEmbedder {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &LocalEmbedder{dims: dims}
}

// Embed hashes each token into a bucket and L2-normalizes the counts.
func (e *LocalEmbedder) Embed(_ context.Context, text string) (Vector, error) {
	vec := make(Vector, e.dims)
	for _, tok := range Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum64()%uint64(e.dims)]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}
	return vec, nil
}

// Dimensions returns the configured vector length.
func (e *LocalEmbedder) Dimensions() int {
	return e.dims
}

// Tokenize lowercases and splits on anything that is not a letter,
// digit, or interior decimal point, so "7.1%" and "7.1" tokenize the
// same way.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.'
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
