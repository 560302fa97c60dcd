package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/moneta/internal/model"
)

type stubProvider struct {
	system string
	prompt string
	reply  string
	err    error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Complete(_ context.Context, system, prompt string) (string, error) {
	s.system = system
	s.prompt = prompt
	return s.reply, s.err
}

func (s *stubProvider) IsAvailable(_ context.Context) bool { return true }

func TestGenerator_PromptCarriesEvidenceOnly(t *testing.T) {
	stub := &stubProvider{reply: "PPF rate is 7.1%."}
	g := NewGenerator(stub)

	evidence := model.RetrievalResult{Matches: []model.ScoredChunk{
		{
			Chunk:      model.Chunk{ID: "rbi-ppf#0", DocID: "rbi-ppf", Text: "PPF interest rate is 7.1%."},
			Similarity: 0.9,
			Authority:  model.AuthorityOfficial,
		},
	}}
	answer, err := g.Generate(context.Background(), model.Query{Text: "What is the PPF rate?"}, evidence)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if answer != "PPF rate is 7.1%." {
		t.Errorf("answer = %q", answer)
	}

	if !strings.Contains(stub.prompt, "What is the PPF rate?") {
		t.Error("prompt missing the question")
	}
	if !strings.Contains(stub.prompt, "PPF interest rate is 7.1%.") {
		t.Error("prompt missing the evidence excerpt")
	}
	if !strings.Contains(stub.prompt, "rbi-ppf") {
		t.Error("prompt missing the source document id")
	}
	if !strings.Contains(stub.system, "ONLY from the evidence") {
		t.Errorf("system prompt does not constrain to evidence: %q", stub.system)
	}
}

func TestGenerator_EmptyReplyIsError(t *testing.T) {
	g := NewGenerator(&stubProvider{reply: "   "})
	if _, err := g.Generate(context.Background(), model.Query{Text: "q"}, model.RetrievalResult{}); err == nil {
		t.Error("blank completion must be an error, not an empty answer")
	}
}

func TestGenerator_ErrorWrapped(t *testing.T) {
	backendErr := errors.New("backend down")
	g := NewGenerator(&stubProvider{err: backendErr})
	_, err := g.Generate(context.Background(), model.Query{Text: "q"}, model.RetrievalResult{})
	if !errors.Is(err, backendErr) {
		t.Errorf("provider error not wrapped: %v", err)
	}
}

func TestTranslator_PromptNamesLanguage(t *testing.T) {
	stub := &stubProvider{reply: "அஞ்சல் அலுவலக சேமிப்பு"}
	tr := NewTranslator(stub)

	out, err := tr.Translate(context.Background(), "post office savings", "ta")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out == "" {
		t.Error("empty translation")
	}
	if !strings.Contains(stub.prompt, "Tamil") {
		t.Errorf("prompt does not name the target language: %q", stub.prompt)
	}
	if !strings.Contains(stub.prompt, "post office savings") {
		t.Error("prompt missing source text")
	}
}

func TestNewProvider(t *testing.T) {
	httpCfg := model.HTTPConfig{}

	p, err := NewProvider(model.LLMConfig{Provider: ""}, httpCfg)
	if p != nil || err != nil {
		t.Errorf("empty provider should disable generation: %v %v", p, err)
	}

	if _, err := NewProvider(model.LLMConfig{Provider: "frobnicator"}, httpCfg); err == nil {
		t.Error("unknown provider must error")
	}

	if _, err := NewProvider(model.LLMConfig{Provider: "openai"}, httpCfg); err == nil {
		t.Error("openai without API key must error")
	}

	p, err = NewProvider(model.LLMConfig{Provider: "ollama", Model: "llama3.1:8b"}, httpCfg)
	if err != nil || p == nil || p.Name() != "ollama" {
		t.Errorf("ollama provider: %v %v", p, err)
	}
}
