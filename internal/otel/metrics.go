package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "truthy"

// Metrics holds all OTEL metric instruments for truthy.
// All counters are cumulative and safe for concurrent use.
type Metrics struct {
	// Detections counts completed detect calls, partitioned by the tier
	// that answered and the verdict.
	Detections metric.Int64Counter
	// TierFailures counts classifier tier fallthroughs, partitioned by tier.
	TierFailures metric.Int64Counter

	// EvidenceLookups counts web evidence fetches.
	EvidenceLookups metric.Int64Counter
	// EvidenceSnippets counts snippets returned by evidence lookups.
	EvidenceSnippets metric.Int64Counter

	// LLM token counters, partitioned by provider + model.
	InputTokens  metric.Int64Counter
	OutputTokens metric.Int64Counter
}

// NewMetrics creates all metric instruments. Instruments are no-ops when
// no MeterProvider is registered, so this is safe to call unconditionally.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Detections, err = meter.Int64Counter("detections.total",
		metric.WithDescription("Completed hallucination detections partitioned by provider and verdict"))
	if err != nil {
		return nil, err
	}

	m.TierFailures, err = meter.Int64Counter("classifier.tier_failures",
		metric.WithDescription("Classifier tier failures that fell through to the next tier"))
	if err != nil {
		return nil, err
	}

	m.EvidenceLookups, err = meter.Int64Counter("evidence.lookups",
		metric.WithDescription("Web evidence lookups performed for context-free requests"))
	if err != nil {
		return nil, err
	}

	m.EvidenceSnippets, err = meter.Int64Counter("evidence.snippets",
		metric.WithDescription("Evidence snippets returned across all lookups"),
		metric.WithUnit("{snippet}"))
	if err != nil {
		return nil, err
	}

	m.InputTokens, err = meter.Int64Counter("llm.tokens.input",
		metric.WithDescription("Total LLM input tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	m.OutputTokens, err = meter.Int64Counter("llm.tokens.output",
		metric.WithDescription("Total LLM output tokens consumed"),
		metric.WithUnit("{token}"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordDetection records one completed detection.
func (m *Metrics) RecordDetection(ctx context.Context, provider, verdict string) {
	if m == nil {
		return
	}
	m.Detections.Add(ctx, 1, metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("detection.verdict", verdict),
	))
}

// RecordTierFailure records a classifier tier falling through.
func (m *Metrics) RecordTierFailure(ctx context.Context, provider string) {
	if m == nil {
		return
	}
	m.TierFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("llm.provider", provider),
	))
}

// RecordEvidence records one evidence lookup and its snippet count.
func (m *Metrics) RecordEvidence(ctx context.Context, snippets int) {
	if m == nil {
		return
	}
	m.EvidenceLookups.Add(ctx, 1)
	m.EvidenceSnippets.Add(ctx, int64(snippets))
}

// RecordTokens records LLM token usage.
func (m *Metrics) RecordTokens(ctx context.Context, provider, model string, input, output int64) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", model),
	)
	m.InputTokens.Add(ctx, input, attrs)
	m.OutputTokens.Add(ctx, output, attrs)
}
