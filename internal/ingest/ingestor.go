package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/moneta/internal/store"
	"github.com/ppiankov/moneta/internal/worker"
)

// Ingestor loads manifest entries into the evidence store through a
// bounded worker pool. The store serializes its own writes, so entries
// can be prepared concurrently.
type Ingestor struct {
	store   *store.Store
	fetcher *Fetcher
	workers int
	verbose bool
}

// NewIngestor creates an ingestor.
func NewIngestor(s *store.Store, f *Fetcher, workers int, verbose bool) *Ingestor {
	if workers <= 0 {
		workers = 4
	}
	return &Ingestor{store: s, fetcher: f, workers: workers, verbose: verbose}
}

// EntryResult is the outcome for one manifest entry.
type EntryResult struct {
	ID       string
	ChunkIDs []string
	Err      error
}

// GetError returns the entry's error, if any.
func (r *EntryResult) GetError() error {
	return r.Err
}

// entryJob adapts one manifest entry to the worker pool.
type entryJob struct {
	entry    Entry
	ingestor *Ingestor
}

// Execute loads, converts, and stores one entry.
func (j *entryJob) Execute(ctx context.Context) worker.Result {
	result := &EntryResult{ID: j.entry.ID}

	text, err := j.ingestor.loadText(ctx, j.entry)
	if err != nil {
		result.Err = fmt.Errorf("load %s: %w", j.entry.ID, err)
		return result
	}

	doc, err := j.entry.Document(text)
	if err != nil {
		result.Err = err
		return result
	}

	chunkIDs, err := j.ingestor.store.Ingest(ctx, doc)
	if err != nil {
		result.Err = fmt.Errorf("ingest %s: %w", j.entry.ID, err)
		return result
	}

	result.ChunkIDs = chunkIDs
	if j.ingestor.verbose {
		fmt.Fprintf(os.Stderr, "ingested %s: %d chunks\n", j.entry.ID, len(chunkIDs))
	}
	return result
}

// Run processes every manifest entry and returns one result per entry.
// Individual failures do not stop the batch.
func (ing *Ingestor) Run(ctx context.Context, m *Manifest) []*EntryResult {
	pool := worker.NewPool(ing.workers)
	pool.Start()

	for _, entry := range m.Documents {
		pool.Submit(&entryJob{entry: entry, ingestor: ing})
	}

	raw := pool.Wait()
	results := make([]*EntryResult, 0, len(raw))
	for _, r := range raw {
		results = append(results, r.(*EntryResult))
	}
	return results
}

// loadText resolves an entry's source to plain text. HTML sources are
// stripped to their visible text.
func (ing *Ingestor) loadText(ctx context.Context, e Entry) (string, error) {
	if e.IsURL() {
		body, err := ing.fetcher.Fetch(ctx, e.Source)
		if err != nil {
			return "", err
		}
		return VisibleText(body), nil
	}

	data, err := os.ReadFile(e.Source)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	text := string(data)
	if strings.HasSuffix(e.Source, ".html") || strings.HasSuffix(e.Source, ".htm") {
		return VisibleText(text), nil
	}
	return strings.TrimSpace(text), nil
}
