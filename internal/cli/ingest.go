package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moneta/internal/cache"
	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/ingest"
	"github.com/ppiankov/moneta/internal/store"
)

var (
	ingestDBPath  string
	ingestWorkers int
	ingestTimeout time.Duration
	ingestNoCache bool
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest <manifest.yaml>",
	Short: "Load documents from a manifest into the evidence store",
	Long: `Ingest reads a yaml manifest of documents and loads them into the
evidence store. Each entry names a local file or URL, its source
authority (official, aggregator, unverified), topic tags, and an
optional publication date.

Entries are processed concurrently; URL sources respect robots.txt and
are rate-limited per host.

Example manifest:
  documents:
    - id: rbi-ppf-2026
      source: https://www.rbi.org.in/ppf-rates
      authority: official
      topics: [savings instruments]
      published: 2026-04-01`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)

	ingestCmd.Flags().StringVar(&ingestDBPath, "db", "", "evidence store path (default: ~/.moneta/evidence.db)")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 0, "concurrent ingestion workers (default from config)")
	ingestCmd.Flags().DurationVar(&ingestTimeout, "timeout", 10*time.Minute, "overall batch timeout")
	ingestCmd.Flags().BoolVar(&ingestNoCache, "no-cache", false, "disable the fetched-page cache")
}

func runIngest(cmd *cobra.Command, args []string) error {
	manifestPath := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if ingestDBPath != "" {
		cfg.Store.Path = ingestDBPath
	}
	if ingestWorkers > 0 {
		cfg.Concurrency.IngestWorkers = ingestWorkers
	}
	if ingestNoCache {
		cfg.Cache.Enabled = false
	}

	manifest, err := ingest.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	embedder, err := embed.NewEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	pageCache := cache.FromConfig(cfg.Cache)
	if pageCache != nil {
		embedder = embed.NewCachedEmbedder(embedder, pageCache, cfg.Cache.DiskTTL)
	}

	s, err := store.Open(cfg.Store, embedder)
	if err != nil {
		return fmt.Errorf("open evidence store: %w", err)
	}
	defer s.Close()

	fetcher := ingest.NewFetcher(cfg.HTTP, cfg.RateLimiting, pageCache)
	ingestor := ingest.NewIngestor(s, fetcher, cfg.Concurrency.IngestWorkers, cfg.Output.Verbose)

	results := ingestor.Run(ctx, manifest)

	var failed int
	for _, r := range results {
		if err := r.GetError(); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.ID, err)
			continue
		}
		fmt.Printf("✓ %s: %d chunks\n", r.ID, len(r.ChunkIDs))
	}

	fmt.Printf("\nIngested %d/%d documents into %s\n", len(results)-failed, len(results), cfg.Store.Path)
	if failed > 0 {
		return fmt.Errorf("%d entries failed", failed)
	}
	return nil
}
