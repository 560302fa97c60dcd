package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"What is the current PPF rate?", English},
		{"पीपीएफ की ब्याज दर क्या है?", Hindi},
		{"பிபிஎஃப் வட்டி விகிதம் என்ன?", Tamil},
		{"పీపీఎఫ్ వడ్డీ రేటు ఎంత?", Telugu},
		{"", English},
		{"PPF rate में कितना बदलाव?", Hindi}, // Mixed text: first Indic rune wins
	}

	for _, tt := range tests {
		if got := Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestResolve(t *testing.T) {
	if got := Resolve("ta", "hello"); got != Tamil {
		t.Errorf("explicit code should win, got %q", got)
	}
	if got := Resolve("fr", "hello"); got != English {
		t.Errorf("unsupported code should fall back to detection, got %q", got)
	}
	if got := Resolve("", "నమస్తే"); got != Telugu {
		t.Errorf("empty code should detect from text, got %q", got)
	}
}
