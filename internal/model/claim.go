package model

// ClaimKind categorizes how a claim can be checked.
type ClaimKind string

const (
	ClaimKindFact    ClaimKind = "fact"    // Checked by semantic match only
	ClaimKindNumeric ClaimKind = "numeric" // Carries a literal number for exact-match checking
)

// NumericUnit labels the literal carried by a numeric claim.
type NumericUnit string

const (
	UnitPlain    NumericUnit = "plain"
	UnitPercent  NumericUnit = "percent"
	UnitCurrency NumericUnit = "currency"
)

// Claim is an atomic assertion extracted from a candidate answer.
// Ephemeral; Answer is the back-reference to the text it came from.
type Claim struct {
	Text     string      `json:"text"`
	Kind     ClaimKind   `json:"kind"`
	Value    float64     `json:"value,omitempty"` // Literal number for numeric claims
	Unit     NumericUnit `json:"unit,omitempty"`
	Sentence int         `json:"sentence"` // Sentence index in the candidate answer (0-based)
	Answer   string      `json:"-"`
}
