// Package llm wraps the generation and translation collaborators. The
// pipeline treats both as black boxes: it hands them text and evidence
// and only ever inspects the text that comes back.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/moneta/internal/model"
)

// Provider is one chat-completion backend.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a system and user prompt and returns the text reply
	Complete(ctx context.Context, system, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

const generatorSystem = "You are a financial information assistant for Indian retail savers. " +
	"Answer ONLY from the evidence excerpts provided. If the excerpts do not cover the question, " +
	"say you cannot confirm the answer. Never invent rates, amounts, or scheme rules."

const translatorSystem = "You are a translator. Return only the translated text, " +
	"preserving numbers, percentages, and currency amounts exactly."

// Generator produces candidate answers from retrieved evidence.
type Generator struct {
	provider Provider
}

// NewGenerator wraps a provider as the generation collaborator.
func NewGenerator(provider Provider) *Generator {
	return &Generator{provider: provider}
}

// Generate asks the provider for a candidate answer grounded in the
// retrieval result. The answer is unverified text; the caller runs
// claim extraction and verification on it before surfacing anything.
func (g *Generator) Generate(ctx context.Context, query model.Query, evidence model.RetrievalResult) (string, error) {
	answer, err := g.provider.Complete(ctx, generatorSystem, buildGeneratePrompt(query, evidence))
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("generate answer: empty response from %s", g.provider.Name())
	}
	return answer, nil
}

// Translator converts finalized text between languages.
type Translator struct {
	provider Provider
}

// NewTranslator wraps a provider as the translation collaborator.
func NewTranslator(provider Provider) *Translator {
	return &Translator{provider: provider}
}

// Translate renders text into the target language.
func (t *Translator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	prompt := fmt.Sprintf("Translate the following text to %s:\n\n%s", languageName(targetLang), text)
	out, err := t.provider.Complete(ctx, translatorSystem, prompt)
	if err != nil {
		return "", fmt.Errorf("translate to %s: %w", targetLang, err)
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("translate to %s: empty response", targetLang)
	}
	return out, nil
}

// buildGeneratePrompt lays the evidence out as numbered excerpts so the
// model has nothing else to draw on.
func buildGeneratePrompt(query model.Query, evidence model.RetrievalResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Question: %s\n\nEvidence excerpts:\n", query.Text)
	for i, m := range evidence.Matches {
		fmt.Fprintf(&b, "[%d] (%s, source: %s) %s\n", i+1, m.Authority, m.Chunk.DocID, m.Chunk.Text)
	}
	b.WriteString("\nAnswer the question using only these excerpts. Keep it short and factual.")
	return b.String()
}

func languageName(code string) string {
	switch code {
	case "hi":
		return "Hindi"
	case "ta":
		return "Tamil"
	case "te":
		return "Telugu"
	default:
		return "English"
	}
}
