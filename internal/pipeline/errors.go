package pipeline

import "errors"

// Terminal and recoverable failure classes for one query. Recoverable
// failures degrade the risk tier instead of surfacing here.
var (
	// ErrNoEvidence: the evidence store is empty or nothing cleared the
	// similarity floor. The caller still receives a safe critical
	// response alongside this error.
	ErrNoEvidence = errors.New("no evidence above similarity floor")

	// ErrGenerationFailed: the generation collaborator errored or timed
	// out. No partial answer is ever surfaced.
	ErrGenerationFailed = errors.New("candidate answer generation failed")

	// ErrTranslationFailed marks a translation fallback; the response
	// carries source-language text with an explicit flag.
	ErrTranslationFailed = errors.New("translation failed")
)
