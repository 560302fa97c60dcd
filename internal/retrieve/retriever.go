// Package retrieve turns a user query into ranked evidence.
package retrieve

import (
	"context"
	"fmt"
	"sort"

	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/model"
	"github.com/ppiankov/moneta/internal/store"
)

// Retriever embeds a query and searches the evidence store, applying
// near-duplicate removal and context-tag ordering before returning a
// bounded result.
type Retriever struct {
	store    *store.Store
	embedder embed.Embedder
	topK     int
	pool     int
}

// New creates a retriever over s using embedder.
func New(s *store.Store, embedder embed.Embedder, cfg model.RetrievalConfig) *Retriever {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	pool := cfg.PoolLimit
	if pool < topK {
		pool = topK * 4
	}
	return &Retriever{store: s, embedder: embedder, topK: topK, pool: pool}
}

// Retrieve returns the top evidence chunks for q.
//
// Context tags only bias ordering among similarity ties while the
// oversized candidate pool is trimmed; they never displace evidence
// that ranks higher on relevance, so differing user context cannot
// hide better evidence.
func (r *Retriever) Retrieve(ctx context.Context, q model.Query) (model.RetrievalResult, error) {
	vec, err := r.embedder.Embed(ctx, q.Text)
	if err != nil {
		return model.RetrievalResult{}, fmt.Errorf("embed query: %w", err)
	}

	result, err := r.store.Search(ctx, vec, r.pool, store.Filter{})
	if err != nil {
		return model.RetrievalResult{}, fmt.Errorf("search evidence: %w", err)
	}
	if result.NoEvidence {
		return result, nil
	}

	matches := dedupeOverlapping(result.Matches)

	if len(q.Context) > 0 {
		preferContext(matches, q.Context)
	}
	if len(matches) > r.topK {
		matches = matches[:r.topK]
	}

	return model.RetrievalResult{Matches: matches}, nil
}

// dedupeOverlapping drops chunks that overlap an already-kept,
// higher-ranked chunk of the same document, so near-identical passages
// cannot double-count as evidence.
func dedupeOverlapping(matches []model.ScoredChunk) []model.ScoredChunk {
	kept := matches[:0:0]
	for _, m := range matches {
		overlaps := false
		for _, k := range kept {
			if m.Chunk.Overlaps(k.Chunk) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, m)
		}
	}
	return kept
}

// preferContext re-sorts matches so that among similarity ties, chunks
// whose document topics intersect the user's context tags come first.
// Relative order is otherwise preserved.
func preferContext(matches []model.ScoredChunk, tags []string) {
	const simEpsilon = 1e-9
	tagSet := make(map[string]bool, len(tags))
	for _, t := range tags {
		tagSet[t] = true
	}
	hit := make([]bool, len(matches))
	for i := range matches {
		hit[i] = topicHit(matches[i], tagSet)
	}
	idx := make([]int, len(matches))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		diff := matches[idx[a]].Similarity - matches[idx[b]].Similarity
		if diff > simEpsilon || diff < -simEpsilon {
			return diff > 0
		}
		return hit[idx[a]] && !hit[idx[b]]
	})
	reordered := make([]model.ScoredChunk, len(matches))
	for i, j := range idx {
		reordered[i] = matches[j]
	}
	copy(matches, reordered)
}

func topicHit(m model.ScoredChunk, tags map[string]bool) bool {
	for _, topic := range m.Topics {
		if tags[topic] {
			return true
		}
	}
	return false
}
