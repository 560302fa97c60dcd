// Package assemble builds the final Response: verified answer text,
// citations, risk assessment, disclaimers, and an optional last-step
// translation into the caller's language.
package assemble

import (
	"context"
	"fmt"
	"os"

	"github.com/ppiankov/moneta/internal/lang"
	"github.com/ppiankov/moneta/internal/model"
)

// Translator is the external translation collaborator. It only ever
// sees finalized text, never intermediate verification artifacts.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// disclaimerTexts maps disclaimer ids to their English templates.
// Translation of these happens with the answer body, at assembly time.
var disclaimerTexts = map[string]string{
	"consult-advisor":           "Investment decisions carry risk. Consult a registered financial advisor before investing.",
	"consult-tax-professional":  "Tax rules change and depend on your situation. Consult a qualified tax professional.",
	"verify-lender":             "Verify loan terms directly with the lender before committing to anything.",
	"consult-insurance-agent":   "Policy terms vary. Confirm coverage details with a licensed insurance agent.",
	"general-information":       "This is general information, not personalized financial advice.",
	"professional-verification": "Parts of this answer could not be fully verified. Confirm with a professional before acting.",
	"critical-warning":          "This answer could not be verified against trusted sources. Do not act on it without independent professional advice.",
}

// Assembler merges the pipeline's outputs into one Response.
type Assembler struct {
	translator Translator
	verbose    bool
}

// New creates an assembler. A nil translator means responses stay in
// the source language.
func New(translator Translator, verbose bool) *Assembler {
	return &Assembler{translator: translator, verbose: verbose}
}

// Assemble produces the Response. Translation runs last, on the answer
// body and disclaimer texts only, after all verification and risk
// logic has finished on source-language text. A failed translation
// falls back to the source language with an explicit flag instead of
// failing the request.
func (a *Assembler) Assemble(ctx context.Context, answer string, citations []string, risk model.RiskAssessment, confidence float64, targetLang string) model.Response {
	resp := model.Response{
		Text:        answer,
		Citations:   citations,
		Risk:        risk,
		Disclaimers: resolveDisclaimers(risk.Disclaimers),
		Confidence:  confidence,
		Language:    lang.English,
	}

	if targetLang == "" || targetLang == lang.English || a.translator == nil {
		if lang.Supported(targetLang) {
			resp.Language = targetLang
		}
		return resp
	}

	translated, err := a.translate(ctx, &resp, targetLang)
	if err != nil {
		if a.verbose {
			fmt.Fprintf(os.Stderr, "translation to %s failed, returning source text: %v\n", targetLang, err)
		}
		resp.TranslationUnavailable = true
		return resp
	}
	return translated
}

// translate converts the answer body and every disclaimer text. Any
// single failure aborts the whole translation so the response is never
// a mix of languages.
func (a *Assembler) translate(ctx context.Context, resp *model.Response, targetLang string) (model.Response, error) {
	text, err := a.translator.Translate(ctx, resp.Text, targetLang)
	if err != nil {
		return model.Response{}, fmt.Errorf("translate answer: %w", err)
	}

	out := *resp
	out.Text = text
	out.Language = targetLang
	out.Disclaimers = make([]model.Disclaimer, len(resp.Disclaimers))
	for i, d := range resp.Disclaimers {
		translated, err := a.translator.Translate(ctx, d.Text, targetLang)
		if err != nil {
			return model.Response{}, fmt.Errorf("translate disclaimer %s: %w", d.ID, err)
		}
		out.Disclaimers[i] = model.Disclaimer{ID: d.ID, Text: translated}
	}
	return out, nil
}

// resolveDisclaimers expands ids into their templates. Unknown ids
// still surface, with the id as text, rather than dropping a mandatory
// notice.
func resolveDisclaimers(ids []string) []model.Disclaimer {
	if len(ids) == 0 {
		return nil
	}
	out := make([]model.Disclaimer, len(ids))
	for i, id := range ids {
		text, ok := disclaimerTexts[id]
		if !ok {
			text = id
		}
		out[i] = model.Disclaimer{ID: id, Text: text}
	}
	return out
}
