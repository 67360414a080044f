// Package detector orchestrates a hallucination detection: evidence
// gathering, classification, and verdict parsing.
//
// A detection is one sequential chain of calls with no retries and no state
// carried between requests. The only errors a caller ever sees are input
// validation failures; every provider failure downstream degrades through
// the classifier chain, bottoming out in a low-confidence undetermined
// verdict.
package detector

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/truthylabs/truthy/internal/classifier"
	"github.com/truthylabs/truthy/internal/evidence"
	"github.com/truthylabs/truthy/internal/model"
	telem "github.com/truthylabs/truthy/internal/otel"
	"github.com/truthylabs/truthy/internal/verdict"
)

// Input validation errors, the only errors Detect returns.
var (
	ErrMissingQuestion = errors.New("question is required")
	ErrMissingAnswer   = errors.New("answer is required")
)

var tracer = otel.Tracer("truthy/detector")

// Detector runs the detection pipeline.
type Detector struct {
	// Chain is the ordered classifier tiers. Required.
	Chain *classifier.Chain
	// Evidence supplies web context for paragraph-free requests. Optional;
	// nil disables evidence lookups.
	Evidence *evidence.Chain
	// MinParagraphChars is the evidence-sufficiency threshold: a paragraph
	// shorter than this triggers an evidence lookup alongside it.
	MinParagraphChars int
	// Metrics is optional; nil disables metric recording.
	Metrics *telem.Metrics
}

// New builds a Detector and wires the chain's failure hook to metrics.
func New(chain *classifier.Chain, ev *evidence.Chain, minParagraphChars int, metrics *telem.Metrics) *Detector {
	d := &Detector{
		Chain:             chain,
		Evidence:          ev,
		MinParagraphChars: minParagraphChars,
		Metrics:           metrics,
	}
	chain.OnFailure = func(provider string, _ error) {
		metrics.RecordTierFailure(context.Background(), provider)
	}
	return d
}

// Options carries per-call settings.
type Options struct {
	// Credential is the caller-supplied API key for the remote tier. It is
	// scoped to this call: passed down the chain, never stored or logged.
	Credential string
}

// Detect classifies whether the answer is hallucinated. It returns an
// error only for invalid input; provider failures degrade internally.
func (d *Detector) Detect(ctx context.Context, req model.Request, opts Options) (model.Result, error) {
	if strings.TrimSpace(req.Question) == "" {
		return model.Result{}, ErrMissingQuestion
	}
	if strings.TrimSpace(req.Answer) == "" {
		return model.Result{}, ErrMissingAnswer
	}

	ctx, span := tracer.Start(ctx, "detect")
	defer span.End()

	start := time.Now()
	paragraph := strings.TrimSpace(req.Paragraph)

	// Gather web evidence when the supplied context is absent or too thin
	// to judge against.
	var snippets []model.Snippet
	contextText := paragraph
	if d.Evidence != nil && (paragraph == "" || len(paragraph) < d.MinParagraphChars) {
		query := evidence.DeriveQuery(req.Question)
		snippets = d.Evidence.Search(ctx, query)
		d.Metrics.RecordEvidence(ctx, len(snippets))
		span.SetAttributes(attribute.Int("evidence.snippets", len(snippets)))
		if combined := model.CombineEvidence(snippets); combined != "" {
			if contextText != "" {
				contextText = contextText + "\n\n" + combined
			} else {
				contextText = combined
			}
		}
	}

	prompt := classifier.BuildPrompt(contextText, req.Question, req.Answer)

	out, tier, err := d.Chain.Classify(ctx, prompt, opts.Credential)
	var res model.Result
	if err != nil {
		// Every tier exhausted: degrade, never fail the call.
		slog.Warn("all classifier tiers exhausted, returning undetermined verdict")
		res = Undetermined()
	} else {
		res = verdict.Parse(out.Text)
		res.Provider = tier.Provider()
		res.Model = out.Model
		res.Usage = out.Usage
		d.Metrics.RecordTokens(ctx, res.Provider, res.Model, out.Usage.InputTokens, out.Usage.OutputTokens)
	}

	if len(snippets) > 0 {
		res.EvidenceUsed = true
		res.Evidence = model.CombineEvidence(snippets)
		res.Sources = snippets
	}
	res.FillTypeNames()
	res.EvaluatedAt = time.Now().UTC()
	res.DurationMs = time.Since(start).Milliseconds()

	d.Metrics.RecordDetection(ctx, res.Provider, res.Verdict())
	span.SetAttributes(
		attribute.String("detection.verdict", res.Verdict()),
		attribute.String("llm.provider", res.Provider),
	)
	return res, nil
}

// Undetermined is the worst-case result: no tier could judge the answer.
func Undetermined() model.Result {
	return model.Result{
		IsHallucinated: false,
		Confidence:     10,
		Undetermined:   true,
		Explanation:    "No classification backend was reachable; the answer could not be judged.",
		Provider:       "none",
		Model:          "none",
	}
}
