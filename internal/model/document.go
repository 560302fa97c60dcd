package model

import "time"

// Authority is the trust classification of a document's source.
// It is assigned once at ingestion and never re-derived downstream.
type Authority int

const (
	AuthorityUnverified Authority = 0 // Blogs, forums, unclassified sources
	AuthorityAggregator Authority = 1 // Encyclopedias, major publishers, financial portals
	AuthorityOfficial   Authority = 2 // Regulators, government bodies, official documents
)

func (a Authority) String() string {
	switch a {
	case AuthorityOfficial:
		return "official"
	case AuthorityAggregator:
		return "aggregator"
	default:
		return "unverified"
	}
}

// Weight returns the tie-break weight used during retrieval ranking.
func (a Authority) Weight() float64 {
	switch a {
	case AuthorityOfficial:
		return 1.0
	case AuthorityAggregator:
		return 0.6
	default:
		return 0.3
	}
}

// ParseAuthority maps a manifest/CLI string to an Authority.
// Unknown values classify as unverified, never as something stronger.
func ParseAuthority(s string) Authority {
	switch s {
	case "official", "regulator", "primary":
		return AuthorityOfficial
	case "aggregator", "secondary":
		return AuthorityAggregator
	default:
		return AuthorityUnverified
	}
}

// Document is an immutable source record. Documents are created at
// ingestion and retired by the Deprecated flag; they are never mutated
// or hard-deleted, so citation history stays resolvable.
type Document struct {
	ID          string    `json:"id"`
	Authority   Authority `json:"authority"`
	PublishedAt time.Time `json:"published_at"`
	Topics      []string  `json:"topics,omitempty"`
	Text        string    `json:"text"`
	Deprecated  bool      `json:"deprecated,omitempty"`
}

// Chunk is a sentence-bounded slice of a Document's text plus its
// embedding. A Chunk never outlives its Document.
type Chunk struct {
	ID        string    `json:"id"`
	DocID     string    `json:"doc_id"`
	Seq       int       `json:"seq"`
	Start     int       `json:"start"` // Byte offset into the parent Document text
	End       int       `json:"end"`
	Text      string    `json:"text"`
	Embedding []float64 `json:"embedding,omitempty"`
}

// Overlaps reports whether two chunks of the same document cover
// intersecting offset ranges.
func (c Chunk) Overlaps(other Chunk) bool {
	if c.DocID != other.DocID {
		return false
	}
	return c.Start < other.End && other.Start < c.End
}
