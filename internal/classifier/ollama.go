package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/truthylabs/truthy/internal/model"
)

// OllamaClassifier calls a locally running Ollama server. It probes
// /api/tags for available models on each call and picks the first one
// matching the configured preference order.
type OllamaClassifier struct {
	baseURL     string
	preferences []string
	maxTokens   int64
	httpClient  *http.Client
}

// OllamaConfig holds configuration for the Ollama classifier.
type OllamaConfig struct {
	// BaseURL is the Ollama server URL (default http://localhost:11434).
	BaseURL string
	// Preferences is the model preference order. Entries are matched as
	// prefixes against installed model names ("llama3.1" matches
	// "llama3.1:8b").
	Preferences []string
	// MaxTokens bounds the response length (Ollama num_predict).
	MaxTokens int64
	// Timeout bounds each HTTP call.
	Timeout time.Duration
}

// NewOllamaClassifier creates a new Ollama classifier.
func NewOllamaClassifier(cfg OllamaConfig) *OllamaClassifier {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &OllamaClassifier{
		baseURL:     baseURL,
		preferences: cfg.Preferences,
		maxTokens:   maxTokens,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

// Provider returns "ollama".
func (c *OllamaClassifier) Provider() string {
	return "ollama"
}

// ollamaTagsResponse is the response from /api/tags.
type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the names of models currently installed on the server.
func (c *OllamaClassifier) ListModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to ollama at %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("ollama /api/tags returned status %d: %s", resp.StatusCode, body)
	}

	var tags ollamaTagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, fmt.Errorf("parsing ollama /api/tags response: %w", err)
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// pickModel returns the first installed model matching the preference
// order. With no preferences (or no match), the first installed model wins.
func (c *OllamaClassifier) pickModel(installed []string) (string, error) {
	if len(installed) == 0 {
		return "", fmt.Errorf("no models installed on ollama server")
	}
	for _, pref := range c.preferences {
		for _, name := range installed {
			if strings.HasPrefix(name, pref) {
				return name, nil
			}
		}
	}
	return installed[0], nil
}

// ollamaChatRequest is the request body for /api/chat.
type ollamaChatRequest struct {
	Model    string              `json:"model"`
	Messages []ollamaChatMessage `json:"messages"`
	Stream   bool                `json:"stream"`
	Format   string              `json:"format,omitempty"`
	Options  map[string]any      `json:"options,omitempty"`
}

type ollamaChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ollamaChatResponse is the non-streaming response from /api/chat.
type ollamaChatResponse struct {
	Message         ollamaChatMessage `json:"message"`
	PromptEvalCount int64             `json:"prompt_eval_count"`
	EvalCount       int64             `json:"eval_count"`
}

// Classify probes the local server, picks a model, and sends the prompt to
// /api/chat. The credential parameter is ignored: local models need none.
func (c *OllamaClassifier) Classify(ctx context.Context, p Prompt, _ string) (Output, error) {
	installed, err := c.ListModels(ctx)
	if err != nil {
		return Output{}, err
	}
	modelName, err := c.pickModel(installed)
	if err != nil {
		return Output{}, err
	}

	ctx, span := tracer.Start(ctx, "chat "+modelName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("gen_ai.operation.name", "chat"),
			attribute.String("gen_ai.provider.name", "ollama"),
			attribute.String("gen_ai.request.model", modelName),
		),
	)
	defer span.End()

	body, err := json.Marshal(ollamaChatRequest{
		Model: modelName,
		Messages: []ollamaChatMessage{
			{Role: "system", Content: p.System},
			{Role: "user", Content: p.User},
		},
		Stream: false,
		Format: "json",
		Options: map[string]any{
			"temperature": 0.1,
			"num_predict": c.maxTokens,
		},
	})
	if err != nil {
		return Output{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return Output{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		return Output{}, fmt.Errorf("ollama chat call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		span.SetAttributes(attribute.String("error.type", "api_error"))
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Output{}, fmt.Errorf("ollama /api/chat returned status %d: %s", resp.StatusCode, raw)
	}

	var chat ollamaChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return Output{}, fmt.Errorf("parsing ollama /api/chat response: %w", err)
	}
	if chat.Message.Content == "" {
		span.SetAttributes(attribute.String("error.type", "empty_response"))
		return Output{}, fmt.Errorf("ollama returned empty response")
	}

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", chat.PromptEvalCount),
		attribute.Int64("gen_ai.usage.output_tokens", chat.EvalCount),
	)

	return Output{
		Text:  chat.Message.Content,
		Model: modelName,
		Usage: model.TokenUsage{
			InputTokens:  chat.PromptEvalCount,
			OutputTokens: chat.EvalCount,
		},
	}, nil
}
