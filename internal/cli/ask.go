package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/moneta/internal/assemble"
	"github.com/ppiankov/moneta/internal/cache"
	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/llm"
	"github.com/ppiankov/moneta/internal/model"
	"github.com/ppiankov/moneta/internal/pipeline"
	"github.com/ppiankov/moneta/internal/store"
)

var (
	askLang        string
	askContext     []string
	askJSON        bool
	askTimeout     time.Duration
	askDBPath      string
	askLLMProvider string
	askLLMModel    string
)

// askCmd represents the ask command
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a financial question with verified citations",
	Long: `Ask runs the full advisory pipeline:
- Retrieve evidence from the local store
- Generate a candidate answer (requires a configured LLM provider)
- Extract and verify every claim against the evidence
- Classify risk and attach mandatory disclaimers
- Optionally translate the final answer

Example:
  moneta ask "What is the current PPF interest rate?"
  moneta ask "How do I save for my daughter's education?" --lang ta --context farmer
  moneta ask "Is this fund safe?" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)

	askCmd.Flags().StringVar(&askLang, "lang", "", "answer language: en, hi, ta, te (default: detected from the question)")
	askCmd.Flags().StringSliceVar(&askContext, "context", nil, "user context tags (e.g. farmer, senior); bias evidence ordering only")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "print the full response as JSON")
	askCmd.Flags().DurationVar(&askTimeout, "timeout", 2*time.Minute, "overall query timeout")
	askCmd.Flags().StringVar(&askDBPath, "db", "", "evidence store path (default: ~/.moneta/evidence.db)")
	askCmd.Flags().StringVar(&askLLMProvider, "llm-provider", "", "LLM provider (openai, anthropic, ollama)")
	askCmd.Flags().StringVar(&askLLMModel, "llm-model", "", "LLM model name")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if askDBPath != "" {
		cfg.Store.Path = askDBPath
	}
	if askLLMProvider != "" {
		cfg.LLM.Provider = askLLMProvider
		// Re-resolve the API key for the overridden provider.
		switch askLLMProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if askLLMModel != "" {
		cfg.LLM.Model = askLLMModel
	}

	ctx, cancel := context.WithTimeout(context.Background(), askTimeout)
	defer cancel()

	provider, err := llm.NewProvider(cfg.LLM, cfg.HTTP)
	if err != nil {
		return err
	}
	if provider == nil {
		return fmt.Errorf("no LLM provider configured; set llm.provider or pass --llm-provider")
	}

	embedder, err := embed.NewEmbedder(cfg.Embedding)
	if err != nil {
		return err
	}
	if c := cache.FromConfig(cfg.Cache); c != nil {
		embedder = embed.NewCachedEmbedder(embedder, c, cfg.Cache.DiskTTL)
	}

	s, err := store.Open(cfg.Store, embedder)
	if err != nil {
		return fmt.Errorf("open evidence store: %w", err)
	}
	defer s.Close()

	if s.Empty() {
		fmt.Fprintln(os.Stderr, "Evidence store is empty; run 'moneta ingest <manifest>' first.")
	}

	var translator assemble.Translator = llm.NewTranslator(provider)
	advisor := pipeline.New(s, embedder, llm.NewGenerator(provider), translator, cfg)
	resp, err := advisor.Ask(ctx, model.Query{
		Text:     question,
		Language: askLang,
		Context:  askContext,
	})
	if err != nil && !errors.Is(err, pipeline.ErrNoEvidence) {
		// The safe response still prints below; surface the cause too.
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if askJSON {
		return printJSON(resp)
	}
	printResponse(resp)
	return nil
}

func printJSON(resp model.Response) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func printResponse(resp model.Response) {
	fmt.Println(resp.Text)
	fmt.Println()

	if len(resp.Citations) > 0 {
		fmt.Printf("Sources: %s\n", strings.Join(resp.Citations, ", "))
	}
	fmt.Printf("Risk tier: %s    Confidence: %.2f\n", resp.Risk.Tier, resp.Confidence)
	if resp.TranslationUnavailable {
		fmt.Println("(translation unavailable; showing source language)")
	}

	for _, d := range resp.Disclaimers {
		fmt.Printf("\n! %s\n", d.Text)
	}
}
