// Package store holds the evidence corpus: chunked, embedded documents
// with nearest-neighbor search. Reads are lock-free relative to each
// other; ingestion is append-only and publishes a document's chunks
// atomically, so a reader never sees a half-written chunk set.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/model"
)

// simEpsilon is the window within which two similarity scores count as
// tied and ranking falls through to authority, recency, then id.
const simEpsilon = 1e-9

// Filter restricts a search to documents carrying at least one of the
// given topics. An empty filter matches everything.
type Filter struct {
	Topics []string
}

func (f Filter) matches(doc *model.Document) bool {
	if len(f.Topics) == 0 {
		return true
	}
	for _, want := range f.Topics {
		for _, have := range doc.Topics {
			if want == have {
				return true
			}
		}
	}
	return false
}

// Store is the evidence store. Safe for concurrent use; retrieval and
// verification are read-only and never block each other.
type Store struct {
	mu      sync.RWMutex
	docs    map[string]*model.Document
	chunks  []model.Chunk
	floor   float64
	chunker *Chunker
	embed   embed.Embedder
	db      *persistence // nil when running purely in memory
}

// Open creates a store, loading any persisted corpus from
// cfg.Path. An empty path keeps the store purely in memory.
func Open(cfg model.StoreConfig, embedder embed.Embedder) (*Store, error) {
	s := &Store{
		docs:    make(map[string]*model.Document),
		floor:   cfg.SimilarityFloor,
		chunker: NewChunker(cfg.MaxChunkTokens),
		embed:   embedder,
	}

	if cfg.Path != "" {
		db, err := openPersistence(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("open evidence db: %w", err)
		}
		docs, chunks, err := db.loadAll()
		if err != nil {
			db.close()
			return nil, fmt.Errorf("load corpus: %w", err)
		}
		for i := range docs {
			s.docs[docs[i].ID] = &docs[i]
		}
		s.chunks = chunks
		s.db = db
	}

	return s, nil
}

// Close releases the persistence handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.close()
}

// Ingest chunks and embeds doc, persists everything, then publishes the
// chunk set in one step. Returns the new chunk ids. Documents are
// immutable: re-ingesting an existing id is an error, not an update.
func (s *Store) Ingest(ctx context.Context, doc model.Document) ([]string, error) {
	if doc.ID == "" {
		return nil, fmt.Errorf("document id is required")
	}

	s.mu.RLock()
	_, exists := s.docs[doc.ID]
	s.mu.RUnlock()
	if exists {
		return nil, fmt.Errorf("document already ingested: %s", doc.ID)
	}

	// Chunk and embed outside the lock; readers keep going.
	chunks := s.chunker.Chunk(doc.ID, doc.Text)
	ids := make([]string, 0, len(chunks))
	for i := range chunks {
		vec, err := s.embed.Embed(ctx, chunks[i].Text)
		if err != nil {
			return nil, fmt.Errorf("embed chunk %s: %w", chunks[i].ID, err)
		}
		chunks[i].Embedding = vec
		ids = append(ids, chunks[i].ID)
	}

	if s.db != nil {
		if err := s.db.saveDocument(doc, chunks); err != nil {
			return nil, fmt.Errorf("persist document %s: %w", doc.ID, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[doc.ID]; exists {
		return nil, fmt.Errorf("document already ingested: %s", doc.ID)
	}
	s.docs[doc.ID] = &doc
	s.chunks = append(s.chunks, chunks...)

	return ids, nil
}

// Search returns the top-k chunks by cosine similarity to queryVec,
// subject to filter. Matches below the similarity floor are discarded;
// when nothing clears the floor the result says so explicitly instead
// of surfacing low-relevance chunks as if they were relevant.
func (s *Store) Search(ctx context.Context, queryVec embed.Vector, k int, filter Filter) (model.RetrievalResult, error) {
	if k <= 0 {
		k = 5
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []model.ScoredChunk
	for i := range s.chunks {
		if err := ctx.Err(); err != nil {
			return model.RetrievalResult{}, err
		}
		ch := &s.chunks[i]
		doc := s.docs[ch.DocID]
		if doc == nil || doc.Deprecated || !filter.matches(doc) {
			continue
		}
		sim := embed.Cosine(queryVec, ch.Embedding)
		if sim < s.floor {
			continue
		}
		matches = append(matches, model.ScoredChunk{
			Chunk:       *ch,
			Similarity:  sim,
			Authority:   doc.Authority,
			PublishedAt: doc.PublishedAt,
			Topics:      doc.Topics,
		})
	}

	if len(matches) == 0 {
		return model.RetrievalResult{NoEvidence: true}, nil
	}

	RankMatches(matches)
	if len(matches) > k {
		matches = matches[:k]
	}

	return model.RetrievalResult{Matches: matches}, nil
}

// RankMatches orders matches by similarity, breaking ties by authority
// weight, then recency, then document id, then chunk sequence. The
// ordering is total, so repeated searches over a fixed corpus are
// stable.
func RankMatches(matches []model.ScoredChunk) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if diff := a.Similarity - b.Similarity; diff > simEpsilon || diff < -simEpsilon {
			return a.Similarity > b.Similarity
		}
		if a.Authority != b.Authority {
			return a.Authority.Weight() > b.Authority.Weight()
		}
		if !a.PublishedAt.Equal(b.PublishedAt) {
			return a.PublishedAt.After(b.PublishedAt)
		}
		if a.Chunk.DocID != b.Chunk.DocID {
			return a.Chunk.DocID < b.Chunk.DocID
		}
		return a.Chunk.Seq < b.Chunk.Seq
	})
}

// Deprecate retires a document. It stays persisted for citation
// history but is excluded from all future searches.
func (s *Store) Deprecate(docID string) error {
	s.mu.Lock()
	doc, ok := s.docs[docID]
	if ok {
		doc.Deprecated = true
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("unknown document: %s", docID)
	}
	if s.db != nil {
		if err := s.db.markDeprecated(docID); err != nil {
			return fmt.Errorf("persist deprecation of %s: %w", docID, err)
		}
	}
	return nil
}

// Document returns the document with the given id, if present.
func (s *Store) Document(id string) (model.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return model.Document{}, false
	}
	return *doc, true
}

// Empty reports whether the store holds no active (non-deprecated)
// documents.
func (s *Store) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if !doc.Deprecated {
			return false
		}
	}
	return true
}
