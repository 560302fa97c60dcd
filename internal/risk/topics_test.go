package risk

import "testing"

func TestDetectTopics(t *testing.T) {
	tests := []struct {
		text string
		want []string
	}{
		{"this mutual fund guarantees 15% annual returns", []string{"investment guarantee"}},
		{"how do I file tax returns this year", []string{"tax filing"}},
		{"what happens if I default on my home loan", []string{"loan default"}},
		{"is bitcoin a good idea", []string{"crypto currency"}},
		{"what is the current PPF rate", nil},
	}
	for _, tt := range tests {
		got := DetectTopics(tt.text)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("DetectTopics(%q) = %v, want %v", tt.text, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("DetectTopics(%q) = %v, want %v", tt.text, got, tt.want)
				break
			}
		}
	}
}

func TestDetectTopics_Deterministic(t *testing.T) {
	text := "guaranteed returns from crypto, just skip emi payments"
	first := DetectTopics(text)
	for i := 0; i < 5; i++ {
		again := DetectTopics(text)
		if len(again) != len(first) {
			t.Fatalf("run %d: %v vs %v", i, again, first)
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("run %d: %v vs %v", i, again, first)
			}
		}
	}
}
