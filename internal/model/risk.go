package model

import "fmt"

// Tier is the ordered advisory-caution classification. Higher is more
// cautious; the classifier only ever moves it upward as evidence
// weakens or topic sensitivity rises.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
	TierCritical
)

func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierMedium:
		return "medium"
	case TierHigh:
		return "high"
	default:
		return "critical"
	}
}

func (t Tier) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", t.String())), nil
}

func (t *Tier) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"low"`:
		*t = TierLow
	case `"medium"`:
		*t = TierMedium
	case `"high"`:
		*t = TierHigh
	case `"critical"`:
		*t = TierCritical
	default:
		return fmt.Errorf("unknown risk tier: %s", data)
	}
	return nil
}

// RiskAssessment is the classifier's output: the tier, the decision
// table rows that fired, and the disclaimer ids the assembler must
// attach. Invariant: tier >= high always carries at least one
// disclaimer id.
type RiskAssessment struct {
	Tier        Tier     `json:"tier"`
	Reasons     []string `json:"reasons,omitempty"`
	Disclaimers []string `json:"disclaimers,omitempty"`
}
