// Package sentiment turns generation-service output into calibrated
// per-article sentiment scores and fuses the two classifiers.
package sentiment

import (
	"math"
	"strings"

	"StockNews/internal/domain"
)

var labelSynonyms = map[string]domain.Label{
	"pos":      domain.LabelPositive,
	"positive": domain.LabelPositive,
	"正面":       domain.LabelPositive,
	"neg":      domain.LabelNegative,
	"negative": domain.LabelNegative,
	"負面":       domain.LabelNegative,
	"neu":      domain.LabelNeutral,
	"neutral":  domain.LabelNeutral,
	"中性":       domain.LabelNeutral,
}

// NormalizeLabel maps a classifier's label token onto the canonical set.
// Normalization is idempotent; unknown tokens report ok=false.
func NormalizeLabel(raw string) (domain.Label, bool) {
	token := strings.ToLower(strings.TrimSpace(raw))
	token = strings.Trim(token, "「」\"'.。，, ")
	label, ok := labelSynonyms[token]
	return label, ok
}

// Score maps a label and a confidence c in [0,1] to a continuous score in
// [0,1]. Neutral is pinned at 0.5; a positive or negative label shifts the
// score by (c/0.67 - 33/67)/2, so full confidence saturates at 1.0 or 0.0.
// The constants are a deliberate calibration, do not simplify them.
func Score(label domain.Label, confidence float64) float64 {
	c := clamp01(confidence)
	term := (c/0.67 - 33.0/67.0) / 2

	switch label {
	case domain.LabelPositive:
		return clamp01(0.5 + term)
	case domain.LabelNegative:
		return clamp01(0.5 - term)
	default:
		return 0.5
	}
}

// Fuse combines the two classifier scores with the configured weights and
// rounds to two decimals.
func Fuse(primary, secondary, wPrimary, wSecondary float64) float64 {
	return Round2(wPrimary*primary + wSecondary*secondary)
}

// Round2 rounds to two decimal places, the precision of all persisted
// scores.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
