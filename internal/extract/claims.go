// Package extract decomposes a generated candidate answer into atomic,
// checkable claims.
package extract

import (
	"strings"

	"github.com/ppiankov/moneta/internal/model"
)

// Sentences shorter than this carry no checkable assertion ("Yes.",
// "Sure!") and are skipped as malformed rather than verified.
const minClaimLength = 8

// ClaimExtractor splits candidate answers into minimal assertions.
// Non-factual text (greetings, hedges, offers of further help) is
// discarded, not turned into claims.
type ClaimExtractor struct {
	fluff []string
}

// NewClaimExtractor creates an extractor with the default fluff table.
func NewClaimExtractor() *ClaimExtractor {
	return &ClaimExtractor{
		fluff: []string{
			"hello", "hi there", "namaste", "vanakkam",
			"great question", "good question", "sure", "of course",
			"i hope this helps", "hope this helps", "feel free",
			"let me know", "happy to help", "glad to help",
			"thanks for asking", "thank you", "you're welcome",
			"as an ai", "i am an ai", "in summary", "to summarize",
		},
	}
}

// Extract returns the ordered claims found in a candidate answer.
// Numeric statements become a distinct claim subtype carrying the
// literal number so the verifier can exact-match it.
func (e *ClaimExtractor) Extract(answer string) []model.Claim {
	var claims []model.Claim
	seen := make(map[string]bool)

	for i, sentence := range sentences(answer) {
		text := strings.TrimSpace(sentence)
		if len(text) < minClaimLength {
			continue // Malformed: nothing checkable
		}
		if strings.HasSuffix(text, "?") {
			continue // A question asserts nothing
		}
		if e.isFluff(text) {
			continue
		}

		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true

		claim := model.Claim{
			Text:     text,
			Kind:     model.ClaimKindFact,
			Sentence: i,
			Answer:   answer,
		}
		if nums := Numbers(text); len(nums) > 0 {
			claim.Kind = model.ClaimKindNumeric
			claim.Value = nums[0].Value
			claim.Unit = nums[0].Unit
		}
		claims = append(claims, claim)
	}

	return claims
}

func (e *ClaimExtractor) isFluff(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, f := range e.fluff {
		if strings.HasPrefix(lower, f) || lower == f+"." || lower == f+"!" {
			return true
		}
	}
	return false
}

// sentences splits plain text on sentence terminators. Offsets are not
// needed here; the claim keeps its sentence index as the back-reference
// position.
func sentences(text string) []string {
	var out []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			out = append(out, s)
		}
		current.Reset()
	}

	for i, r := range text {
		current.WriteRune(r)
		switch r {
		case '.':
			// Only a period followed by whitespace (or end of text)
			// terminates a sentence; decimals like 7.1 stay intact.
			if i+1 >= len(text) || text[i+1] == ' ' || text[i+1] == '\t' || text[i+1] == '\n' {
				flush()
			}
		case '!', '?', '\n', '।':
			flush()
		}
	}
	flush()

	return out
}
