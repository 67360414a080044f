package classifier

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/truthylabs/truthy/internal/model"
)

// AnthropicClassifier calls the Anthropic Messages API. Like the OpenAI
// tier, the API key is supplied per call and never stored.
type AnthropicClassifier struct {
	baseURL   string
	model     string
	maxTokens int64
}

// AnthropicConfig holds configuration for the Anthropic classifier.
type AnthropicConfig struct {
	// BaseURL overrides the API endpoint. Empty means api.anthropic.com.
	BaseURL string
	// Model is the model name (e.g., "claude-haiku-4-5").
	Model string
	// MaxTokens is the maximum number of output tokens.
	MaxTokens int64
}

// NewAnthropicClassifier creates a new Anthropic classifier.
func NewAnthropicClassifier(cfg AnthropicConfig) *AnthropicClassifier {
	m := cfg.Model
	if m == "" {
		m = "claude-haiku-4-5"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &AnthropicClassifier{
		baseURL:   cfg.BaseURL,
		model:     m,
		maxTokens: maxTokens,
	}
}

// Provider returns "anthropic".
func (c *AnthropicClassifier) Provider() string {
	return "anthropic"
}

// Classify sends the prompt to the Anthropic API and returns the raw
// response text.
func (c *AnthropicClassifier) Classify(ctx context.Context, p Prompt, credential string) (Output, error) {
	if credential == "" {
		return Output{}, ErrNoCredential
	}

	opts := []option.RequestOption{option.WithAPIKey(credential)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := anthropic.NewClient(opts...)

	ctx, span := tracer.Start(ctx, "chat "+c.model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", "anthropic"),
			attribute.String("gen_ai.request.model", c.model),
			attribute.Int64("gen_ai.request.max_tokens", c.maxTokens),
		),
	)
	defer span.End()

	resp, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: p.System},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(p.User),
			),
		},
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return Output{}, fmt.Errorf("anthropic API call failed: %w", err)
	}

	if len(resp.Content) == 0 || resp.Content[0].Text == "" {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return Output{}, fmt.Errorf("anthropic API returned empty response")
	}

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.InputTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.OutputTokens),
	)

	return Output{
		Text:  resp.Content[0].Text,
		Model: c.model,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
		},
	}, nil
}
