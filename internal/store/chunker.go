package store

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/ppiankov/moneta/internal/model"
)

// Chunker splits document text into sentence-bounded chunks with a
// maximum token length. Windows never overlap, so a passage can only
// count once as evidence.
type Chunker struct {
	maxTokens int
}

// NewChunker creates a chunker with the given per-chunk token bound.
func NewChunker(maxTokens int) *Chunker {
	if maxTokens <= 0 {
		maxTokens = 120
	}
	return &Chunker{maxTokens: maxTokens}
}

type sentence struct {
	text  string
	start int // Byte offset into the document text
	end   int
}

// Chunk slices text into chunks for docID. Embeddings are filled in by
// the store after chunking.
func (c *Chunker) Chunk(docID, text string) []model.Chunk {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []model.Chunk
	var cur []sentence
	curTokens := 0

	flush := func() {
		if len(cur) == 0 {
			return
		}
		start := cur[0].start
		end := cur[len(cur)-1].end
		chunks = append(chunks, model.Chunk{
			ID:    fmt.Sprintf("%s#%d", docID, len(chunks)),
			DocID: docID,
			Seq:   len(chunks),
			Start: start,
			End:   end,
			Text:  strings.TrimSpace(text[start:end]),
		})
		cur = nil
		curTokens = 0
	}

	for _, s := range sentences {
		n := tokenCount(s.text)
		// A single oversized sentence still becomes its own chunk;
		// splitting mid-sentence would break the semantic boundary.
		if curTokens > 0 && curTokens+n > c.maxTokens {
			flush()
		}
		cur = append(cur, s)
		curTokens += n
	}
	flush()

	return chunks
}

// splitSentences splits text on sentence terminators, tracking byte
// offsets so each chunk can point back into the parent document.
func splitSentences(text string) []sentence {
	var sentences []sentence
	start := -1

	appendSentence := func(end int) {
		if start < 0 {
			return
		}
		raw := text[start:end]
		if strings.TrimSpace(raw) != "" {
			sentences = append(sentences, sentence{text: raw, start: start, end: end})
		}
		start = -1
	}

	for i, r := range text {
		if start < 0 && !unicode.IsSpace(r) {
			start = i
		}
		switch r {
		case '.':
			// A period only ends a sentence before whitespace or end of
			// text, so decimals like 7.1 do not split.
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' || text[i+1] == '\n' {
				appendSentence(i + 1)
			}
		case '!', '?', '\n', '।':
			appendSentence(i + len(string(r)))
		}
	}
	appendSentence(len(text))

	return sentences
}

// tokenCount is a cheap whitespace token count; the bound is a budget,
// not a tokenizer contract.
func tokenCount(s string) int {
	return len(strings.Fields(s))
}
