package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/store"
)

var deprecateDBPath string

// deprecateCmd represents the deprecate command
var deprecateCmd = &cobra.Command{
	Use:   "deprecate <doc-id>",
	Short: "Retire a document from retrieval",
	Long: `Deprecate flags a document so it no longer surfaces as evidence.
The document stays in the store; existing citations remain resolvable.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeprecate,
}

func init() {
	rootCmd.AddCommand(deprecateCmd)
	deprecateCmd.Flags().StringVar(&deprecateDBPath, "db", "", "evidence store path (default: ~/.moneta/evidence.db)")
}

func runDeprecate(cmd *cobra.Command, args []string) error {
	docID := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if deprecateDBPath != "" {
		cfg.Store.Path = deprecateDBPath
	}

	embedder, err := embed.NewEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}

	s, err := store.Open(cfg.Store, embedder)
	if err != nil {
		return fmt.Errorf("open evidence store: %w", err)
	}
	defer s.Close()

	if err := s.Deprecate(docID); err != nil {
		return err
	}
	fmt.Printf("Deprecated %s; it will no longer surface as evidence.\n", docID)
	return nil
}
