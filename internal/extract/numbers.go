package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/moneta/internal/model"
)

// Number is a literal numeric value found in text, with enough unit
// context to compare like with like.
type Number struct {
	Value float64
	Unit  model.NumericUnit
}

// numberPattern matches optional currency prefix, a number with
// optional thousands separators and decimals, and an optional
// percent/scale suffix.
var numberPattern = regexp.MustCompile(`(?i)(₹|rs\.?\s*|inr\s*)?(-?\d+(?:,\d{2,3})*(?:\.\d+)?)\s*(%|percent|per cent|lakh|crore)?`)

// Numbers extracts every numeric literal from text in order.
func Numbers(text string) []Number {
	var out []Number
	for _, m := range numberPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(m[2], ",", "")
		val, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		unit := model.UnitPlain
		suffix := strings.ToLower(strings.TrimSpace(m[3]))
		switch suffix {
		case "%", "percent", "per cent":
			unit = model.UnitPercent
		case "lakh":
			val *= 100_000
			unit = model.UnitCurrency
		case "crore":
			val *= 10_000_000
			unit = model.UnitCurrency
		default:
			if strings.TrimSpace(m[1]) != "" {
				unit = model.UnitCurrency
			}
		}

		out = append(out, Number{Value: val, Unit: unit})
	}
	return out
}

// SameQuantity reports whether two numbers agree. Units must be
// compatible; values match exactly or within a 0.5% relative
// tolerance, which absorbs rounding in source documents without
// accepting genuinely different figures.
func SameQuantity(a, b Number) bool {
	return withinTolerance(a, b, 0.005)
}

// NearQuantity reports a looser 2% agreement, enough to count as
// partial numeric support but never as exact.
func NearQuantity(a, b Number) bool {
	return withinTolerance(a, b, 0.02)
}

func withinTolerance(a, b Number, tol float64) bool {
	if a.Unit != b.Unit && a.Unit != model.UnitPlain && b.Unit != model.UnitPlain {
		return false
	}
	if a.Value == b.Value {
		return true
	}
	scale := a.Value
	if scale < 0 {
		scale = -scale
	}
	if scale < 1 {
		scale = 1
	}
	diff := a.Value - b.Value
	if diff < 0 {
		diff = -diff
	}
	return diff/scale <= tol
}
