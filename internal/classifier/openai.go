package classifier

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/truthylabs/truthy/internal/model"
)

var tracer = otel.Tracer("truthy/classifier")

// OpenAIClassifier calls an OpenAI-compatible Chat Completions API.
// Works with OpenAI, Azure OpenAI, Groq, and any compatible endpoint.
//
// The API key is supplied per call, not at construction, so a caller's
// credential never outlives the request that carried it.
type OpenAIClassifier struct {
	baseURL   string
	model     string
	maxTokens int64
}

// OpenAIConfig holds configuration for the OpenAI classifier.
type OpenAIConfig struct {
	// BaseURL overrides the API endpoint. Empty means api.openai.com.
	BaseURL string
	// Model is the model name (e.g., "gpt-4o-mini").
	Model string
	// MaxTokens is the maximum number of completion tokens.
	MaxTokens int64
}

// NewOpenAIClassifier creates a new OpenAI-compatible classifier.
func NewOpenAIClassifier(cfg OpenAIConfig) *OpenAIClassifier {
	m := cfg.Model
	if m == "" {
		m = "gpt-4o-mini"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &OpenAIClassifier{
		baseURL:   cfg.BaseURL,
		model:     m,
		maxTokens: maxTokens,
	}
}

// Provider returns "openai".
func (c *OpenAIClassifier) Provider() string {
	return "openai"
}

// Classify sends the prompt to the Chat Completions API and returns the raw
// response text.
func (c *OpenAIClassifier) Classify(ctx context.Context, p Prompt, credential string) (Output, error) {
	if credential == "" {
		return Output{}, ErrNoCredential
	}

	opts := []option.RequestOption{option.WithAPIKey(credential)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)

	// GenAI generation span per OTel GenAI semantic conventions.
	ctx, span := tracer.Start(ctx, "chat "+c.model,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", "openai"),
			attribute.String("gen_ai.request.model", c.model),
			attribute.Int64("gen_ai.request.max_tokens", c.maxTokens),
		),
	)
	defer span.End()

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(p.System),
			openai.UserMessage(p.User),
		},
		MaxCompletionTokens: openai.Int(c.maxTokens),
	})
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return Output{}, fmt.Errorf("openai API call failed: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return Output{}, fmt.Errorf("openai API returned empty response")
	}

	span.SetAttributes(
		attribute.String("gen_ai.response.model", resp.Model),
		attribute.String("gen_ai.response.id", resp.ID),
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
	)

	return Output{
		Text:  resp.Choices[0].Message.Content,
		Model: c.model,
		Usage: model.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}
