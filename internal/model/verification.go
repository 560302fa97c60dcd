package model

// Agreement score bands. A claim at or above SupportedFloor is
// supported; between PartialFloor and SupportedFloor it is partially
// supported; below PartialFloor it is unsupported.
const (
	SupportedFloor = 0.8
	PartialFloor   = 0.4
)

// Verdict is the banded outcome of verifying one claim.
type Verdict string

const (
	VerdictSupported   Verdict = "supported"
	VerdictPartial     Verdict = "partially_supported"
	VerdictUnsupported Verdict = "unsupported"
	VerdictNoMatch     Verdict = "no_match"
)

// VerdictFor maps an agreement score to its band. matched is false when
// no chunk cleared the similarity floor (or the lookup timed out).
func VerdictFor(score float64, matched bool) Verdict {
	if !matched {
		return VerdictNoMatch
	}
	switch {
	case score >= SupportedFloor:
		return VerdictSupported
	case score >= PartialFloor:
		return VerdictPartial
	default:
		return VerdictUnsupported
	}
}

// Supportive reports whether the verdict counts as any level of support.
func (v Verdict) Supportive() bool {
	return v == VerdictSupported || v == VerdictPartial
}

// VerificationRecord is the outcome of checking one claim against the
// evidence store. The full set for a query is the evidentiary basis for
// risk classification. Ephemeral.
type VerificationRecord struct {
	Claim     Claim   `json:"claim"`
	ChunkID   string  `json:"chunk_id,omitempty"` // Best-matching chunk, empty on no match
	DocID     string  `json:"doc_id,omitempty"`
	Agreement float64 `json:"agreement"` // In [0,1]
	Verdict   Verdict `json:"verdict"`
	Rationale string  `json:"rationale,omitempty"` // e.g. "numeric-exact", "unverified-source", "timeout"
}

// AggregateConfidence combines per-claim agreement conservatively: the
// minimum across all records, so one bad claim is never diluted by
// several good ones. No records aggregates to zero.
func AggregateConfidence(records []VerificationRecord) float64 {
	if len(records) == 0 {
		return 0
	}
	minScore := 1.0
	for _, r := range records {
		if r.Agreement < minScore {
			minScore = r.Agreement
		}
	}
	return minScore
}
