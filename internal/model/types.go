package model

import (
	"strings"
	"time"

	"github.com/truthylabs/truthy/internal/taxonomy"
)

// Request is one detection request: a model-generated answer to a question,
// optionally accompanied by the paragraph the answer should be grounded in.
type Request struct {
	// Paragraph is the optional context. When empty (or too short), the
	// detector fetches web evidence instead.
	Paragraph string `json:"paragraph"`
	// Question is the question the answer responds to. Required.
	Question string `json:"question" binding:"required"`
	// Answer is the model-generated answer under scrutiny. Required.
	Answer string `json:"answer" binding:"required"`
}

// Snippet is a short retrieved text passage used to support or refute the
// answer. Produced by an evidence source, consumed by prompt construction.
type Snippet struct {
	// Source identifies the provider that produced the snippet
	// (e.g., "brave", "duckduckgo", "wikipedia").
	Source string `json:"source"`
	// Title is the result title, when the provider supplies one.
	Title string `json:"title,omitempty"`
	// URL points at the original document, when known.
	URL string `json:"url,omitempty"`
	// Text is the snippet body.
	Text string `json:"text"`
}

// Result is the structured verdict for one detection request.
type Result struct {
	// IsHallucinated reports whether the answer contains a claim
	// unsupported by or contradicting the context.
	IsHallucinated bool `json:"is_hallucinated"`
	// Confidence is the classifier's confidence in the verdict, 0-100.
	Confidence int `json:"confidence"`
	// Types lists the taxonomy codes assigned to the error. Empty when
	// the answer is clean.
	Types []taxonomy.Code `json:"hallucination_types"`
	// TypeNames carries the display names for Types.
	TypeNames []string `json:"hallucination_names,omitempty"`
	// Elements are the implicated text spans from the answer.
	Elements []string `json:"hallucinated_elements"`
	// Explanation says what is wrong and why.
	Explanation string `json:"explanation"`
	// CorrectAnswer is the best-effort corrected answer, when derivable.
	CorrectAnswer string `json:"correct_answer"`

	// Undetermined is set when every classifier tier was exhausted and no
	// judgment could be made. IsHallucinated is false in that case.
	Undetermined bool `json:"undetermined,omitempty"`

	// EvidenceUsed reports whether web evidence was fetched for this call.
	EvidenceUsed bool `json:"evidence_used,omitempty"`
	// Evidence is the combined evidence text handed to the classifier.
	// Only populated when EvidenceUsed is true.
	Evidence string `json:"evidence,omitempty"`
	// Sources lists the evidence snippets behind Evidence.
	Sources []Snippet `json:"sources,omitempty"`

	// Provider is the classifier tier that produced the verdict
	// (e.g., "openai", "anthropic", "ollama", "heuristic").
	Provider string `json:"provider"`
	// Model is the model name used, or "rule-based" for the heuristic tier.
	Model string `json:"model"`
	// Usage tracks token consumption when an LLM tier answered.
	Usage TokenUsage `json:"usage,omitzero"`
	// EvaluatedAt is when the detection ran.
	EvaluatedAt time.Time `json:"evaluated_at"`
	// DurationMs is the wall-clock time for evidence + classification.
	DurationMs int64 `json:"duration_ms"`
}

// TokenUsage tracks LLM token consumption for a single classification.
type TokenUsage struct {
	InputTokens  int64 `json:"input_tokens,omitempty"`
	OutputTokens int64 `json:"output_tokens,omitempty"`
}

// Verdict returns a short label for the result.
func (r Result) Verdict() string {
	if r.Undetermined {
		return "UNDETERMINED"
	}
	if r.IsHallucinated {
		return "HALLUCINATED"
	}
	return "CLEAN"
}

// FillTypeNames populates TypeNames from Types.
func (r *Result) FillTypeNames() {
	r.TypeNames = r.TypeNames[:0]
	for _, c := range r.Types {
		r.TypeNames = append(r.TypeNames, c.Name())
	}
}

// CombineEvidence joins snippet texts into a single context paragraph for
// prompt construction, titled per snippet when a title is available.
func CombineEvidence(snippets []Snippet) string {
	var b strings.Builder
	for i, s := range snippets {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if s.Title != "" {
			b.WriteString(s.Title)
			b.WriteString(": ")
		}
		b.WriteString(s.Text)
	}
	return b.String()
}
