package sentiment

import (
	"testing"

	"StockNews/internal/domain"
)

func TestParseClassificationJSON(t *testing.T) {
	t.Parallel()

	label, confidence := ParseClassification(`{"label": "positive", "confidence": 0.85}`)
	if label != domain.LabelPositive || confidence != 0.85 {
		t.Fatalf("got (%q, %v), want (pos, 0.85)", label, confidence)
	}
}

func TestParseClassificationFencedJSON(t *testing.T) {
	t.Parallel()

	raw := "```json\n{\"label\": \"負面\", \"confidence\": \"0.7\"}\n```"
	label, confidence := ParseClassification(raw)
	if label != domain.LabelNegative || confidence != 0.7 {
		t.Fatalf("got (%q, %v), want (neg, 0.7)", label, confidence)
	}
}

func TestParseClassificationKeyValue(t *testing.T) {
	t.Parallel()

	raw := "標籤:正面\n信心:0.9"
	label, confidence := ParseClassification(raw)
	if label != domain.LabelPositive || confidence != 0.9 {
		t.Fatalf("got (%q, %v), want (pos, 0.9)", label, confidence)
	}

	raw = "label: negative\nconfidence: 0.6"
	label, confidence = ParseClassification(raw)
	if label != domain.LabelNegative || confidence != 0.6 {
		t.Fatalf("got (%q, %v), want (neg, 0.6)", label, confidence)
	}
}

func TestParseClassificationLooseText(t *testing.T) {
	t.Parallel()

	label, confidence := ParseClassification("整體而言我認為這則新聞是正面的，信心大約 0.8 左右。")
	if label != domain.LabelPositive || confidence != 0.8 {
		t.Fatalf("got (%q, %v), want (pos, 0.8)", label, confidence)
	}
}

func TestParseClassificationLooseWithoutNumber(t *testing.T) {
	t.Parallel()

	label, confidence := ParseClassification("這則新聞偏向負面。")
	if label != domain.LabelNegative || confidence != 0.5 {
		t.Fatalf("got (%q, %v), want (neg, 0.5)", label, confidence)
	}
}

func TestParseClassificationDefault(t *testing.T) {
	t.Parallel()

	label, confidence := ParseClassification("I cannot help with that request.")
	if label != domain.LabelNeutral || confidence != 0.5 {
		t.Fatalf("got (%q, %v), want (neu, 0.5)", label, confidence)
	}

	label, confidence = ParseClassification("")
	if label != domain.LabelNeutral || confidence != 0.5 {
		t.Fatalf("empty input: got (%q, %v), want (neu, 0.5)", label, confidence)
	}
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	if got := StripCodeFence("```\nplain body\n```"); got != "plain body" {
		t.Fatalf("got %q", got)
	}
	if got := StripCodeFence("no fence here"); got != "no fence here" {
		t.Fatalf("got %q", got)
	}
}
