package sentiment

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"StockNews/internal/domain"
)

// The generation service is asked for a structured label/confidence answer
// but routinely wraps it in markdown fences, renames keys or answers in
// prose. Parsing is an ordered cascade of strategies; each either returns a
// definite result or reports no match, and the terminal default is a neutral
// verdict at confidence 0.5.

var (
	codeFenceExpr  = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\\n?(.*?)\\n?```\\s*$")
	labelTokenExpr = regexp.MustCompile(`(?i)(正面|負面|中性|positive|negative|neutral|pos|neg|neu)`)
	confidenceExpr = regexp.MustCompile(`\d+(?:\.\d+)?\s*%|[01]?\.\d+|1\.0`)
)

type verdict struct {
	label      domain.Label
	confidence float64
}

// ParseClassification extracts a canonical label and a confidence from the
// raw primary-classifier response. It never fails: when every strategy
// misses, the documented default (neu, 0.5) is returned.
func ParseClassification(raw string) (domain.Label, float64) {
	text := StripCodeFence(raw)

	strategies := []func(string) (verdict, bool){
		parseJSON,
		parseKeyValue,
		parseLoose,
	}

	for _, strategy := range strategies {
		if v, ok := strategy(text); ok {
			return v.label, clamp01(v.confidence)
		}
	}

	return domain.LabelNeutral, 0.5
}

// StripCodeFence removes a single markdown code fence wrapping the whole
// response, if present.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := codeFenceExpr.FindStringSubmatch(trimmed); m != nil {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

func parseJSON(text string) (verdict, bool) {
	var payload struct {
		Label      string          `json:"label"`
		Confidence json.RawMessage `json:"confidence"`
	}

	if err := json.Unmarshal([]byte(text), &payload); err != nil {
		return verdict{}, false
	}

	label, ok := NormalizeLabel(payload.Label)
	if !ok {
		return verdict{}, false
	}

	confidence, ok := parseConfidenceValue(string(payload.Confidence))
	if !ok {
		confidence = 0.5
	}

	return verdict{label: label, confidence: confidence}, true
}

func parseKeyValue(text string) (verdict, bool) {
	var (
		label      domain.Label
		confidence = 0.5
		foundLabel bool
	)

	for _, line := range strings.Split(text, "\n") {
		key, value, ok := splitKeyValue(line)
		if !ok {
			continue
		}

		switch key {
		case "label", "標籤", "情緒":
			if l, ok := NormalizeLabel(value); ok {
				label = l
				foundLabel = true
			}
		case "confidence", "信心", "信心度":
			if c, ok := parseConfidenceValue(value); ok {
				confidence = c
			}
		}
	}

	if !foundLabel {
		return verdict{}, false
	}
	return verdict{label: label, confidence: confidence}, true
}

// parseLoose scavenges the first recognizable label token and the first
// number that looks like a confidence from free text.
func parseLoose(text string) (verdict, bool) {
	token := labelTokenExpr.FindString(text)
	if token == "" {
		return verdict{}, false
	}

	label, ok := NormalizeLabel(token)
	if !ok {
		return verdict{}, false
	}

	confidence := 0.5
	if num := confidenceExpr.FindString(text); num != "" {
		if c, ok := parseConfidenceValue(num); ok {
			confidence = c
		}
	}

	return verdict{label: label, confidence: confidence}, true
}

func splitKeyValue(line string) (key, value string, ok bool) {
	idx := strings.IndexAny(line, ":：")
	if idx < 0 {
		return "", "", false
	}

	key = strings.ToLower(strings.TrimSpace(strings.Trim(line[:idx], "\"' *-")))
	// The index points at the first byte of a possibly multi-byte colon.
	rest := line[idx:]
	for _, sep := range []string{":", "："} {
		if strings.HasPrefix(rest, sep) {
			rest = rest[len(sep):]
			break
		}
	}
	value = strings.TrimSpace(strings.Trim(rest, "\"',"))
	return key, value, key != ""
}

func parseConfidenceValue(raw string) (float64, bool) {
	s := strings.TrimSpace(strings.Trim(raw, "\"'"))
	if s == "" {
		return 0, false
	}

	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	if percent || v > 1 {
		v /= 100
	}
	if v < 0 || v > 1 {
		return 0, false
	}
	return v, true
}
