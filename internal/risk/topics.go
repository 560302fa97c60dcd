package risk

import (
	"sort"
	"strings"
)

// topicKeywords maps phrases found in query or answer text to the
// sensitivity-table topics they imply. Evidence documents carry curated
// topic tags, but an unsupported answer may have no matching document
// at all; the text itself still has to trigger the right caution.
var topicKeywords = map[string]string{
	"guarantee":        "investment guarantee",
	"guaranteed":       "investment guarantee",
	"assured return":   "investment guarantee",
	"which stock":      "stock recommendation",
	"stock tip":        "stock recommendation",
	"should i buy":     "stock recommendation",
	"crypto":           "crypto currency",
	"bitcoin":          "crypto currency",
	"double your":      "high-return scheme",
	"high return":      "high-return scheme",
	"quick money":      "high-return scheme",
	"tax return":       "tax filing",
	"file tax":         "tax filing",
	"filing tax":       "tax filing",
	"itr":              "tax filing",
	"tax evasion":      "tax evasion",
	"evade tax":        "tax evasion",
	"avoid paying tax": "tax evasion",
	"loan default":     "loan default",
	"default on":       "loan default",
	"missed emi":       "loan default",
	"skip emi":         "loan default",
}

// DetectTopics scans free text for sensitivity-table topics. Returned
// topics are deduplicated; order follows first appearance semantics
// loosely but is deterministic for a given input.
func DetectTopics(text string) []string {
	t := strings.ToLower(text)
	seen := map[string]bool{}
	var topics []string
	// Iterate keywords in a fixed order so output is reproducible.
	for _, kw := range sortedKeywords {
		if strings.Contains(t, kw) {
			topic := topicKeywords[kw]
			if !seen[topic] {
				seen[topic] = true
				topics = append(topics, topic)
			}
		}
	}
	return topics
}

var sortedKeywords = func() []string {
	kws := make([]string, 0, len(topicKeywords))
	for kw := range topicKeywords {
		kws = append(kws, kw)
	}
	sort.Strings(kws)
	return kws
}()
