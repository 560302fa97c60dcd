// Package pipeline orchestrates one advisory query end to end:
// retrieve evidence, generate a candidate answer, extract and verify
// its claims, classify risk, and assemble the response.
package pipeline

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/moneta/internal/assemble"
	"github.com/ppiankov/moneta/internal/embed"
	"github.com/ppiankov/moneta/internal/extract"
	"github.com/ppiankov/moneta/internal/lang"
	"github.com/ppiankov/moneta/internal/model"
	"github.com/ppiankov/moneta/internal/retrieve"
	"github.com/ppiankov/moneta/internal/risk"
	"github.com/ppiankov/moneta/internal/store"
	"github.com/ppiankov/moneta/internal/verify"
)

// Generator is the external answer-generation collaborator. The
// pipeline never inspects anything but its output text.
type Generator interface {
	Generate(ctx context.Context, query model.Query, evidence model.RetrievalResult) (string, error)
}

// Advisor runs the full pipeline for one query at a time. Queries are
// independent; concurrent Ask calls share only the read-only store.
type Advisor struct {
	retriever  *retrieve.Retriever
	generator  Generator
	extractor  *extract.ClaimExtractor
	verifier   *verify.Verifier
	classifier *risk.Classifier
	assembler  *assemble.Assembler
	verbose    bool
}

// New wires an advisor over the evidence store. A nil translator
// disables translation; the generator must be non-nil.
func New(s *store.Store, embedder embed.Embedder, generator Generator, translator assemble.Translator, cfg *model.Config) *Advisor {
	return &Advisor{
		retriever:  retrieve.New(s, embedder, cfg.Retrieval),
		generator:  generator,
		extractor:  extract.NewClaimExtractor(),
		verifier:   verify.New(s, embedder, cfg.Verify),
		classifier: risk.NewClassifier(),
		assembler:  assemble.New(translator, cfg.Output.Verbose),
		verbose:    cfg.Output.Verbose,
	}
}

// Ask answers one query. Every return path yields a complete Response;
// terminal failures additionally return a sentinel error so callers can
// distinguish a safe fallback from a verified answer.
func (a *Advisor) Ask(ctx context.Context, query model.Query) (model.Response, error) {
	query.Language = lang.Resolve(query.Language, query.Text)

	evidence, err := a.retriever.Retrieve(ctx, query)
	if err != nil {
		a.logf("retrieval failed: %v", err)
		return a.safeResponse(ctx, query.Language), fmt.Errorf("%w: %v", ErrNoEvidence, err)
	}
	if evidence.NoEvidence {
		a.logf("no evidence above floor for %q", query.Text)
		return a.safeResponse(ctx, query.Language), ErrNoEvidence
	}
	a.logf("retrieved %d evidence chunks", len(evidence.Matches))

	answer, err := a.generator.Generate(ctx, query, evidence)
	if err != nil {
		a.logf("generation failed: %v", err)
		return a.safeResponse(ctx, query.Language), fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	claims := a.extractor.Extract(answer)
	a.logf("extracted %d claims", len(claims))

	records := a.verifier.VerifyAll(ctx, claims)
	confidence := model.AggregateConfidence(records)

	topics := gatherTopics(query, answer, evidence)
	assessment := a.classifier.Classify(records, topics)
	a.logf("tier %s, confidence %.2f", assessment.Tier, confidence)

	citations := citedDocs(records)
	resp := a.assembler.Assemble(ctx, answer, citations, assessment, confidence, query.Language)
	if resp.TranslationUnavailable {
		// Recoverable: the response fell back to the source language.
		return resp, ErrTranslationFailed
	}
	return resp, nil
}

// safeResponse is the generic critical fallback for terminal failures.
// It makes no factual claims and always carries a disclaimer.
func (a *Advisor) safeResponse(ctx context.Context, language string) model.Response {
	assessment := model.RiskAssessment{
		Tier:        model.TierCritical,
		Reasons:     []string{"insufficient-information"},
		Disclaimers: []string{risk.DisclaimerCriticalWarning, risk.DisclaimerGeneralInfo},
	}
	const text = "I do not have enough verified information to answer this question. Please consult a qualified financial professional."
	return a.assembler.Assemble(ctx, text, nil, assessment, 0, language)
}

// gatherTopics merges curated tags from the evidence documents with
// sensitivity topics detected in the question and answer text. An
// unsupported answer with no matching document still has to trigger
// the sensitivity table on its own wording.
func gatherTopics(query model.Query, answer string, evidence model.RetrievalResult) []string {
	seen := map[string]bool{}
	var topics []string
	add := func(t string) {
		if t != "" && !seen[t] {
			seen[t] = true
			topics = append(topics, t)
		}
	}
	for _, m := range evidence.Matches {
		for _, t := range m.Topics {
			add(t)
		}
	}
	for _, t := range risk.DetectTopics(query.Text + " " + answer) {
		add(t)
	}
	return topics
}

// citedDocs lists the documents whose chunks supported or partially
// supported a claim, in record order, deduplicated.
func citedDocs(records []model.VerificationRecord) []string {
	seen := map[string]bool{}
	var ids []string
	for _, r := range records {
		if !r.Verdict.Supportive() || r.DocID == "" {
			continue
		}
		if !seen[r.DocID] {
			seen[r.DocID] = true
			ids = append(ids, r.DocID)
		}
	}
	return ids
}

func (a *Advisor) logf(format string, args ...any) {
	if a.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
