// Package scoring holds the pure arithmetic and validation rules of the
// proposal scoring engine: raw score bounds, the weight-sum invariant and
// the weighted-score rounding rule. Nothing here touches the database.
package scoring

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	RawScoreMin = 1.0
	RawScoreMax = 10.0

	// Criterion weights for one template must sum to WeightSumTarget
	// within WeightSumTolerance.
	WeightSumTarget    = 100.0
	WeightSumTolerance = 0.01
)

func ValidateRawScore(raw float64) error {
	if raw < RawScoreMin || raw > RawScoreMax {
		return NewError(KindScoreOutOfRange, "raw score %.2f is out of range, must be between %.0f and %.0f", raw, RawScoreMin, RawScoreMax)
	}
	return nil
}

// ValidateWeights checks every weight is in [0,100] and the sum lands on the
// target. Summation is done on decimals so e.g. three 33.33 weights plus one
// 0.01 weight are judged on their exact values.
func ValidateWeights(weights []float64) error {
	if len(weights) == 0 {
		return NewError(KindEmptyTemplate, "a scoring template requires at least one criterion")
	}
	sum := decimal.Zero
	for _, w := range weights {
		if w < 0 || w > 100 {
			return NewError(KindInvalidWeightSum, "criterion weight %.2f is out of range, must be between 0 and 100", w)
		}
		sum = sum.Add(decimal.NewFromFloat(w))
	}
	diff := sum.Sub(decimal.NewFromFloat(WeightSumTarget)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(WeightSumTolerance)) {
		return NewError(KindInvalidWeightSum, "criterion weights sum to %s, must sum to %.0f", sum.String(), WeightSumTarget)
	}
	return nil
}

// WeightedScore computes round(raw * weight / 100, 2) with round half away
// from zero on exact decimal values. float64 arithmetic would turn
// 7.3 * 15 / 100 into 1.0949999... and round it down to 1.09; the decimal
// form keeps it at 1.095 and rounds to 1.10.
func WeightedScore(raw, weight float64) float64 {
	v := decimal.NewFromFloat(raw).
		Mul(decimal.NewFromFloat(weight)).
		Div(decimal.NewFromInt(100)).
		Round(2)
	return v.InexactFloat64()
}

func ValidateReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return NewError(KindReasonRequired, "a non-empty reason is required to revise a score")
	}
	return nil
}
