package model

// Disclaimer is one mandatory notice, kept structurally separate from
// the answer text so downstream consumers can render or log it
// independently.
type Disclaimer struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Response is the only entity returned across the system boundary.
type Response struct {
	Text        string         `json:"text"`
	Citations   []string       `json:"citations,omitempty"` // Cited document ids
	Risk        RiskAssessment `json:"risk"`
	Disclaimers []Disclaimer   `json:"disclaimers,omitempty"`
	Confidence  float64        `json:"confidence"` // Verifier aggregate, surfaced as-is
	Language    string         `json:"language"`

	// TranslationUnavailable is set when the translation collaborator
	// failed and the text fell back to the source language.
	TranslationUnavailable bool `json:"translation_unavailable,omitempty"`
}
