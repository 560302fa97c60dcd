// Package risk maps verification outcomes and topic sensitivity to an
// advisory caution tier and the disclaimer ids that tier requires.
package risk

import (
	"strings"

	"github.com/ppiankov/moneta/internal/model"
)

// highSensitivity lists topics that force extra caution regardless of
// how well the evidence supports the answer. The table is static so a
// reviewer can audit it in one place.
var highSensitivity = map[string]bool{
	"investment guarantee": true,
	"stock recommendation": true,
	"crypto currency":      true,
	"high-return scheme":   true,
	"tax filing":           true,
	"tax evasion":          true,
	"loan default":         true,
}

// Disclaimer ids. Texts live with the assembler; the classifier only
// decides which ones are mandatory.
const (
	DisclaimerConsultAdvisor     = "consult-advisor"
	DisclaimerConsultTaxPro      = "consult-tax-professional"
	DisclaimerVerifyLender       = "verify-lender"
	DisclaimerConsultInsurance   = "consult-insurance-agent"
	DisclaimerGeneralInfo        = "general-information"
	DisclaimerProfessionalVerify = "professional-verification"
	DisclaimerCriticalWarning    = "critical-warning"
)

// Classifier assigns risk tiers with a fixed decision table. It is
// stateless and safe for concurrent use.
type Classifier struct{}

// NewClassifier creates a classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify walks the decision table in order, first match wins. The
// tier only ever rises as evidence weakens or sensitivity increases.
func (c *Classifier) Classify(records []model.VerificationRecord, topics []string) model.RiskAssessment {
	sensitive := anySensitive(topics)

	// An answer with nothing verifiable in it cannot be vouched for at
	// all, which is worse than a partially supported one.
	if len(records) == 0 {
		return c.finish(model.TierHigh, []string{"no-verifiable-claims"}, topics)
	}

	var unsupported, partial bool
	for _, r := range records {
		switch r.Verdict {
		case model.VerdictUnsupported, model.VerdictNoMatch:
			unsupported = true
		case model.VerdictPartial:
			partial = true
		}
	}

	switch {
	case unsupported && sensitive:
		return c.finish(model.TierCritical, []string{"unsupported-claim", "high-sensitivity-topic"}, topics)
	case unsupported:
		return c.finish(model.TierHigh, []string{"unsupported-claim"}, topics)
	case partial && sensitive:
		return c.finish(model.TierHigh, []string{"partially-supported-claim", "high-sensitivity-topic"}, topics)
	case partial:
		return c.finish(model.TierMedium, []string{"partially-supported-claim"}, topics)
	case sensitive:
		// Fully supported advice on a sensitive topic still carries a
		// mandatory disclaimer; financial outcomes are probabilistic.
		return c.finish(model.TierMedium, []string{"high-sensitivity-topic"}, topics)
	default:
		return c.finish(model.TierLow, []string{"fully-supported"}, topics)
	}
}

// finish attaches the mandatory disclaimer set for the tier and topics.
func (c *Classifier) finish(tier model.Tier, reasons []string, topics []string) model.RiskAssessment {
	return model.RiskAssessment{
		Tier:        tier,
		Reasons:     reasons,
		Disclaimers: disclaimersFor(tier, topics),
	}
}

// disclaimersFor derives the mandatory disclaimer ids. Topic-specific
// disclaimers apply from medium upward; tier high always yields at
// least one id, and critical adds the hard warning.
func disclaimersFor(tier model.Tier, topics []string) []string {
	if tier < model.TierMedium {
		return nil
	}

	var ids []string
	seen := map[string]bool{}
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, t := range topics {
		switch topicCategory(t) {
		case "investment":
			add(DisclaimerConsultAdvisor)
		case "tax":
			add(DisclaimerConsultTaxPro)
		case "loan":
			add(DisclaimerVerifyLender)
		case "insurance":
			add(DisclaimerConsultInsurance)
		}
	}

	add(DisclaimerGeneralInfo)
	if tier >= model.TierHigh {
		add(DisclaimerProfessionalVerify)
	}
	if tier >= model.TierCritical {
		add(DisclaimerCriticalWarning)
	}
	return ids
}

func anySensitive(topics []string) bool {
	for _, t := range topics {
		if highSensitivity[normalizeTopic(t)] {
			return true
		}
	}
	return false
}

// topicCategory buckets a free-form topic tag for disclaimer purposes.
func topicCategory(topic string) string {
	t := normalizeTopic(topic)
	switch {
	case strings.Contains(t, "invest"), strings.Contains(t, "stock"),
		strings.Contains(t, "crypto"), strings.Contains(t, "mutual fund"),
		strings.Contains(t, "return"):
		return "investment"
	case strings.Contains(t, "tax"):
		return "tax"
	case strings.Contains(t, "loan"), strings.Contains(t, "emi"), strings.Contains(t, "credit"):
		return "loan"
	case strings.Contains(t, "insurance"):
		return "insurance"
	default:
		return ""
	}
}

func normalizeTopic(topic string) string {
	return strings.ToLower(strings.TrimSpace(topic))
}
