package verdict

import (
	"strings"
	"testing"

	"github.com/truthylabs/truthy/internal/taxonomy"
)

func TestParse_CleanJSON(t *testing.T) {
	raw := `{"is_hallucinated": true, "confidence": 85, "hallucination_types": ["1A"], "hallucinated_elements": ["Steven Spielberg"], "explanation": "Wrong director.", "correct_answer": "Christopher Nolan"}`
	res := Parse(raw)
	if !res.IsHallucinated {
		t.Fatal("expected is_hallucinated=true")
	}
	if res.Confidence != 85 {
		t.Errorf("confidence: got %d, want 85", res.Confidence)
	}
	if len(res.Types) != 1 || res.Types[0] != taxonomy.EntityOutOfContext {
		t.Errorf("types: got %v, want [1A]", res.Types)
	}
	if len(res.Elements) != 1 || res.Elements[0] != "Steven Spielberg" {
		t.Errorf("elements: got %v", res.Elements)
	}
	if res.CorrectAnswer != "Christopher Nolan" {
		t.Errorf("correct_answer: got %q", res.CorrectAnswer)
	}
}

func TestParse_MarkdownFence(t *testing.T) {
	raw := "```json\n{\"is_hallucinated\": false, \"confidence\": 90, \"explanation\": \"Faithful.\"}\n```"
	res := Parse(raw)
	if res.IsHallucinated {
		t.Error("expected is_hallucinated=false")
	}
	if res.Confidence != 90 {
		t.Errorf("confidence: got %d, want 90", res.Confidence)
	}
}

func TestParse_JSONWrappedInProse(t *testing.T) {
	raw := `Sure! Here is my analysis:

{"is_hallucinated": true, "confidence": "72", "hallucination_types": ["2A"], "explanation": "Intent inverted."}

Let me know if you need more detail.`
	res := Parse(raw)
	if !res.IsHallucinated {
		t.Fatal("expected is_hallucinated=true")
	}
	// String-typed confidence must still parse.
	if res.Confidence != 72 {
		t.Errorf("confidence: got %d, want 72", res.Confidence)
	}
	if len(res.Types) != 1 || res.Types[0] != taxonomy.IntentOutOfContext {
		t.Errorf("types: got %v, want [2A]", res.Types)
	}
}

func TestParse_UnknownCodesDropped(t *testing.T) {
	raw := `{"is_hallucinated": true, "confidence": 60, "hallucination_types": ["1A", "5X", "totally-made-up"]}`
	res := Parse(raw)
	if len(res.Types) != 1 || res.Types[0] != taxonomy.EntityOutOfContext {
		t.Errorf("types: got %v, want [1A]", res.Types)
	}
}

func TestParse_ConfidenceClamped(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{`{"is_hallucinated": false, "confidence": 250}`, 100},
		{`{"is_hallucinated": false, "confidence": -10}`, 0},
	}
	for _, tt := range tests {
		if got := Parse(tt.raw).Confidence; got != tt.want {
			t.Errorf("Parse(%q).Confidence = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestParse_CleanVerdictDropsTypes(t *testing.T) {
	raw := `{"is_hallucinated": false, "confidence": 80, "hallucination_types": ["1A"], "hallucinated_elements": ["x"]}`
	res := Parse(raw)
	if res.Types != nil || res.Elements != nil {
		t.Errorf("clean verdict should carry no types/elements, got %v / %v", res.Types, res.Elements)
	}
}

func TestParse_ProseRecovery(t *testing.T) {
	raw := "The answer is hallucinated (type 1A). The claimed director contradicts the paragraph. Confidence: 75%."
	res := Parse(raw)
	if !res.IsHallucinated {
		t.Fatal("expected recovery to flag hallucination")
	}
	if res.Confidence != 75 {
		t.Errorf("confidence: got %d, want 75", res.Confidence)
	}
	if len(res.Types) != 1 || res.Types[0] != taxonomy.EntityOutOfContext {
		t.Errorf("types: got %v, want [1A]", res.Types)
	}
	if res.Explanation == "" {
		t.Error("recovery should carry the raw text as explanation")
	}
}

func TestParse_ProseRecoveryNegative(t *testing.T) {
	raw := "There is no hallucination here; the answer is accurate."
	res := Parse(raw)
	if res.IsHallucinated {
		t.Error("expected is_hallucinated=false")
	}
}

func TestParse_GarbageStillYieldsResult(t *testing.T) {
	res := Parse("%%%%% not even words {{")
	if res.Confidence != 30 {
		t.Errorf("default recovery confidence: got %d, want 30", res.Confidence)
	}
	if res.Explanation == "" {
		t.Error("expected raw text preserved in explanation")
	}
}

func TestParse_LongExplanationTruncated(t *testing.T) {
	res := Parse(strings.Repeat("x", 2000))
	if len(res.Explanation) > 520 {
		t.Errorf("explanation not truncated: len=%d", len(res.Explanation))
	}
}
