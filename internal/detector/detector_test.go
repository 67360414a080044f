package detector

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/truthylabs/truthy/internal/classifier"
	"github.com/truthylabs/truthy/internal/evidence"
	"github.com/truthylabs/truthy/internal/model"
)

// stubTier is a scriptable classifier tier.
type stubTier struct {
	name   string
	out    classifier.Output
	err    error
	prompt classifier.Prompt
	cred   string
	calls  int
}

func (s *stubTier) Classify(_ context.Context, p classifier.Prompt, credential string) (classifier.Output, error) {
	s.calls++
	s.prompt = p
	s.cred = credential
	return s.out, s.err
}

func (s *stubTier) Provider() string { return s.name }

// stubSource is a scriptable evidence source.
type stubSource struct {
	snippets []model.Snippet
	calls    int
}

func (s *stubSource) Search(_ context.Context, _ string, _ int) ([]model.Snippet, error) {
	s.calls++
	return s.snippets, nil
}

func (s *stubSource) Name() string { return "stub" }

const verdictJSON = `{"is_hallucinated": true, "confidence": 85, "hallucination_types": ["1A"], "hallucinated_elements": ["Steven Spielberg"], "explanation": "Wrong director."}`

func newTestDetector(tier classifier.Classifier, src evidence.Source, minChars int) *Detector {
	var ev *evidence.Chain
	if src != nil {
		ev = evidence.NewChain(4, src)
	}
	return New(classifier.NewChain(time.Second, tier), ev, minChars, nil)
}

func TestDetect_ValidationErrors(t *testing.T) {
	d := newTestDetector(&stubTier{name: "stub", out: classifier.Output{Text: verdictJSON}}, nil, 0)

	if _, err := d.Detect(context.Background(), model.Request{Answer: "a"}, Options{}); !errors.Is(err, ErrMissingQuestion) {
		t.Errorf("missing question: got %v", err)
	}
	if _, err := d.Detect(context.Background(), model.Request{Question: "q"}, Options{}); !errors.Is(err, ErrMissingAnswer) {
		t.Errorf("missing answer: got %v", err)
	}
	if _, err := d.Detect(context.Background(), model.Request{Question: "  ", Answer: "a"}, Options{}); !errors.Is(err, ErrMissingQuestion) {
		t.Errorf("blank question: got %v", err)
	}
}

func TestDetect_ParagraphSuppliesContext(t *testing.T) {
	tier := &stubTier{name: "openai", out: classifier.Output{Text: verdictJSON, Model: "gpt-4o-mini"}}
	src := &stubSource{}
	paragraph := strings.Repeat("Inception was directed by Christopher Nolan. ", 3)
	d := newTestDetector(tier, src, 64)

	res, err := d.Detect(context.Background(), model.Request{
		Paragraph: paragraph,
		Question:  "Who directed Inception?",
		Answer:    "Steven Spielberg.",
	}, Options{Credential: "sk-test"})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if src.calls != 0 {
		t.Error("long paragraph should suppress evidence lookup")
	}
	if res.EvidenceUsed {
		t.Error("evidence_used should be false")
	}
	if !strings.Contains(tier.prompt.Context, "Christopher Nolan") {
		t.Error("paragraph did not reach the classifier context")
	}
	if tier.cred != "sk-test" {
		t.Errorf("credential not forwarded: got %q", tier.cred)
	}
	if res.Provider != "openai" || res.Model != "gpt-4o-mini" {
		t.Errorf("provenance: provider=%q model=%q", res.Provider, res.Model)
	}
	if !res.IsHallucinated || res.Confidence != 85 {
		t.Errorf("verdict: %+v", res)
	}
	if len(res.TypeNames) != 1 {
		t.Errorf("type names not filled: %v", res.TypeNames)
	}
	if res.EvaluatedAt.IsZero() {
		t.Error("evaluated_at not stamped")
	}
}

func TestDetect_MissingParagraphFetchesEvidence(t *testing.T) {
	tier := &stubTier{name: "stub", out: classifier.Output{Text: verdictJSON}}
	src := &stubSource{snippets: []model.Snippet{
		{Source: "wikipedia", Title: "Tesla, Inc.", Text: "Founded in 2003 by Martin Eberhard and Marc Tarpenning."},
	}}
	d := newTestDetector(tier, src, 64)

	res, err := d.Detect(context.Background(), model.Request{
		Question: "Who founded Tesla Motors?",
		Answer:   "Elon Musk alone.",
	}, Options{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}

	if src.calls != 1 {
		t.Fatalf("evidence lookups: got %d, want 1", src.calls)
	}
	if !res.EvidenceUsed {
		t.Error("evidence_used should be true")
	}
	if len(res.Sources) != 1 || res.Sources[0].Source != "wikipedia" {
		t.Errorf("sources: %+v", res.Sources)
	}
	if !strings.Contains(tier.prompt.Context, "Martin Eberhard") {
		t.Error("evidence did not reach the classifier context")
	}
}

func TestDetect_ShortParagraphAugmentedWithEvidence(t *testing.T) {
	tier := &stubTier{name: "stub", out: classifier.Output{Text: verdictJSON}}
	src := &stubSource{snippets: []model.Snippet{{Source: "wikipedia", Text: "extra context"}}}
	d := newTestDetector(tier, src, 64)

	_, err := d.Detect(context.Background(), model.Request{
		Paragraph: "Too short.",
		Question:  "Who?",
		Answer:    "Them.",
	}, Options{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if src.calls != 1 {
		t.Error("short paragraph should trigger evidence lookup")
	}
	// Both the paragraph and the fetched evidence reach the classifier.
	if !strings.Contains(tier.prompt.Context, "Too short.") || !strings.Contains(tier.prompt.Context, "extra context") {
		t.Errorf("context: %q", tier.prompt.Context)
	}
}

func TestDetect_AllTiersFailYieldsUndetermined(t *testing.T) {
	tier := &stubTier{name: "stub", err: errors.New("unreachable")}
	d := newTestDetector(tier, nil, 0)

	res, err := d.Detect(context.Background(), model.Request{
		Paragraph: "Some context.",
		Question:  "q",
		Answer:    "a",
	}, Options{})
	if err != nil {
		t.Fatalf("provider failure must not surface as error, got %v", err)
	}
	if !res.Undetermined {
		t.Fatal("expected undetermined verdict")
	}
	if res.IsHallucinated {
		t.Error("undetermined verdict must not assert hallucination")
	}
	if res.Provider != "none" {
		t.Errorf("provider: got %q, want none", res.Provider)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	tier := &stubTier{name: "stub", out: classifier.Output{Text: verdictJSON}}
	d := newTestDetector(tier, nil, 0)
	req := model.Request{Paragraph: "Context paragraph.", Question: "q", Answer: "a"}

	first, err := d.Detect(context.Background(), req, Options{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	second, err := d.Detect(context.Background(), req, Options{})
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if first.IsHallucinated != second.IsHallucinated ||
		first.Confidence != second.Confidence ||
		first.Explanation != second.Explanation {
		t.Errorf("repeated detection diverged:\n%+v\n%+v", first, second)
	}
}
