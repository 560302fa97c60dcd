package model

import "time"

// Query is one user question entering the pipeline.
type Query struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`          // Resolved language code (en, hi, ta, te)
	Context  []string `json:"context,omitempty"` // User-context tags, bias topic filtering only
}

// ScoredChunk is one retrieval match: the chunk, its similarity to the
// query, and the ranking metadata carried over from the parent document.
type ScoredChunk struct {
	Chunk       Chunk     `json:"chunk"`
	Similarity  float64   `json:"similarity"`
	Authority   Authority `json:"authority"`
	PublishedAt time.Time `json:"published_at"`
	Topics      []string  `json:"topics,omitempty"`
}

// RetrievalResult is the ordered evidence for one query. It lives only
// for the duration of a request.
type RetrievalResult struct {
	Matches    []ScoredChunk `json:"matches"`
	NoEvidence bool          `json:"no_evidence"` // Corpus empty or nothing above the similarity floor
}

// DocIDs returns the distinct parent document ids in rank order.
func (r RetrievalResult) DocIDs() []string {
	seen := make(map[string]bool)
	var ids []string
	for _, m := range r.Matches {
		if !seen[m.Chunk.DocID] {
			seen[m.Chunk.DocID] = true
			ids = append(ids, m.Chunk.DocID)
		}
	}
	return ids
}
