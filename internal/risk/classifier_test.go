package risk

import (
	"testing"

	"github.com/ppiankov/moneta/internal/model"
)

func rec(verdict model.Verdict) model.VerificationRecord {
	return model.VerificationRecord{Verdict: verdict}
}

func TestClassify_DecisionTable(t *testing.T) {
	c := NewClassifier()
	tests := []struct {
		name    string
		records []model.VerificationRecord
		topics  []string
		want    model.Tier
	}{
		{"unsupported sensitive", []model.VerificationRecord{rec(model.VerdictUnsupported)}, []string{"investment guarantee"}, model.TierCritical},
		{"no-match counts as unsupported", []model.VerificationRecord{rec(model.VerdictNoMatch)}, []string{"tax filing"}, model.TierCritical},
		{"unsupported plain", []model.VerificationRecord{rec(model.VerdictUnsupported)}, []string{"savings instruments"}, model.TierHigh},
		{"partial sensitive", []model.VerificationRecord{rec(model.VerdictPartial)}, []string{"loan default"}, model.TierHigh},
		{"partial plain", []model.VerificationRecord{rec(model.VerdictPartial)}, []string{"savings instruments"}, model.TierMedium},
		{"supported sensitive", []model.VerificationRecord{rec(model.VerdictSupported)}, []string{"stock recommendation"}, model.TierMedium},
		{"supported plain", []model.VerificationRecord{rec(model.VerdictSupported)}, []string{"savings instruments"}, model.TierLow},
		{"worst claim wins", []model.VerificationRecord{rec(model.VerdictSupported), rec(model.VerdictUnsupported)}, nil, model.TierHigh},
		{"no claims at all", nil, []string{"savings instruments"}, model.TierHigh},
	}
	for _, tt := range tests {
		got := c.Classify(tt.records, tt.topics)
		if got.Tier != tt.want {
			t.Errorf("%s: tier = %s, want %s (reasons %v)", tt.name, got.Tier, tt.want, got.Reasons)
		}
	}
}

func TestClassify_HighTierAlwaysHasDisclaimer(t *testing.T) {
	c := NewClassifier()
	cases := [][]model.VerificationRecord{
		{rec(model.VerdictUnsupported)},
		{rec(model.VerdictPartial)},
		nil,
	}
	topicSets := [][]string{nil, {"savings instruments"}, {"tax evasion"}, {"crypto currency", "loan default"}}

	for _, records := range cases {
		for _, topics := range topicSets {
			got := c.Classify(records, topics)
			if got.Tier >= model.TierMedium && len(got.Disclaimers) == 0 {
				t.Errorf("tier %s with topics %v carries no disclaimers", got.Tier, topics)
			}
		}
	}
}

func TestClassify_TopicDisclaimers(t *testing.T) {
	c := NewClassifier()
	got := c.Classify([]model.VerificationRecord{rec(model.VerdictPartial)}, []string{"tax filing", "home loan"})

	want := map[string]bool{DisclaimerConsultTaxPro: false, DisclaimerVerifyLender: false, DisclaimerGeneralInfo: false}
	for _, id := range got.Disclaimers {
		if _, ok := want[id]; ok {
			want[id] = true
		}
	}
	for id, seen := range want {
		if !seen {
			t.Errorf("missing disclaimer %s in %v", id, got.Disclaimers)
		}
	}
}

func TestClassify_CriticalWarning(t *testing.T) {
	c := NewClassifier()
	got := c.Classify([]model.VerificationRecord{rec(model.VerdictUnsupported)}, []string{"investment guarantee"})

	found := false
	for _, id := range got.Disclaimers {
		if id == DisclaimerCriticalWarning {
			found = true
		}
	}
	if !found {
		t.Errorf("critical tier missing hard warning: %v", got.Disclaimers)
	}
}

func TestClassify_LowTierNoDisclaimers(t *testing.T) {
	c := NewClassifier()
	got := c.Classify([]model.VerificationRecord{rec(model.VerdictSupported)}, []string{"savings instruments"})
	if len(got.Disclaimers) != 0 {
		t.Errorf("low tier should carry no disclaimers, got %v", got.Disclaimers)
	}
}

// Weakening any single verdict must never lower the tier.
func TestClassify_MonotonicCaution(t *testing.T) {
	c := NewClassifier()
	weaker := map[model.Verdict]model.Verdict{
		model.VerdictSupported: model.VerdictPartial,
		model.VerdictPartial:   model.VerdictUnsupported,
	}
	base := []model.VerificationRecord{rec(model.VerdictSupported), rec(model.VerdictSupported), rec(model.VerdictPartial)}
	topicSets := [][]string{nil, {"savings instruments"}, {"tax filing"}}

	for _, topics := range topicSets {
		before := c.Classify(base, topics).Tier
		for i := range base {
			next, ok := weaker[base[i].Verdict]
			if !ok {
				continue
			}
			degraded := append([]model.VerificationRecord{}, base...)
			degraded[i] = rec(next)
			after := c.Classify(degraded, topics).Tier
			if after < before {
				t.Errorf("topics %v: weakening claim %d lowered tier %s -> %s", topics, i, before, after)
			}
		}
	}
}
