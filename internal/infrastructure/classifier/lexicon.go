// Package classifier provides the secondary sentiment classifier: a
// deterministic keyword scorer over the English translation, uncorrelated
// with the generation service's own judgment.
package classifier

import (
	"math"
	"strings"

	"StockNews/internal/domain"
	"StockNews/internal/ports"
)

// Weighted financial-news keyword dictionaries (lowercase).
var bullishTerms = map[string]float64{
	"surge": 0.7, "rally": 0.6, "soar": 0.7, "jump": 0.5,
	"record high": 0.7, "beat expectations": 0.6, "beats estimate": 0.6,
	"upgrade": 0.6, "outperform": 0.6, "strong demand": 0.5,
	"growth": 0.4, "profit": 0.3, "expansion": 0.4, "recovery": 0.5,
	"raise": 0.4, "dividend": 0.3, "new order": 0.5, "breakthrough": 0.5,
	"bullish": 0.7, "positive": 0.4, "gain": 0.4, "rebound": 0.5,
}

var bearishTerms = map[string]float64{
	"plunge": 0.7, "slump": 0.6, "crash": 0.8, "tumble": 0.6,
	"downgrade": 0.6, "underperform": 0.6, "miss": 0.5, "warning": 0.5,
	"loss": 0.4, "decline": 0.5, "drop": 0.4, "weak demand": 0.5,
	"lawsuit": 0.6, "investigation": 0.5, "fraud": 0.8, "recall": 0.6,
	"layoff": 0.6, "cut": 0.3, "bearish": 0.7, "negative": 0.4,
	"selloff": 0.7, "concern": 0.3, "risk": 0.3,
}

// neutralBand is the net-score region treated as no clear direction.
const neutralBand = 0.25

// Lexicon scores text by weighted keyword matches. No signal yields the
// neutral default at confidence 0.5.
type Lexicon struct{}

var _ ports.TextClassifier = (*Lexicon)(nil)

// NewLexicon returns the shared dictionary-backed classifier.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

// Classify returns a canonical label and a confidence in [0,1].
func (l *Lexicon) Classify(text string) (domain.Label, float64) {
	lower := strings.ToLower(text)

	var bull, bear float64
	matches := 0

	for term, weight := range bullishTerms {
		if strings.Contains(lower, term) {
			bull += weight
			matches++
		}
	}
	for term, weight := range bearishTerms {
		if strings.Contains(lower, term) {
			bear += weight
			matches++
		}
	}

	if matches == 0 || bull+bear == 0 {
		return domain.LabelNeutral, 0.5
	}

	net := (bull - bear) / (bull + bear)
	confidence := math.Min(0.5+float64(matches)*0.1+math.Abs(net)*0.2, 0.95)

	switch {
	case net > neutralBand:
		return domain.LabelPositive, confidence
	case net < -neutralBand:
		return domain.LabelNegative, confidence
	default:
		return domain.LabelNeutral, 0.5
	}
}
