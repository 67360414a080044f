// Package classifier provides the completion-provider tiers that judge
// whether an answer is hallucinated.
//
// Three tiers implement a common interface: remote hosted models (OpenAI or
// Anthropic, using a caller-supplied credential), a local Ollama server, and
// a rule-based comparator that never touches the network. The Chain walks
// them in order until one succeeds.
package classifier

import (
	"context"
	"errors"

	"github.com/truthylabs/truthy/internal/model"
)

// Prompt carries both the rendered LLM messages and the structured fields
// they were built from. LLM tiers send System/User; the heuristic tier
// works from Context/Question/Answer directly.
type Prompt struct {
	System string
	User   string

	Context  string
	Question string
	Answer   string
}

// Output is the raw classification from one tier.
type Output struct {
	// Text is the classifier's raw response, expected (not guaranteed)
	// to be the requested JSON shape.
	Text string
	// Model is the model that actually answered (resolved at call time
	// for Ollama).
	Model string
	// Usage is token consumption, zero for non-LLM tiers.
	Usage model.TokenUsage
}

// Classifier is one tier of the classification chain.
type Classifier interface {
	// Classify sends the prompt to the backing model and returns its raw
	// response. The credential is scoped to this call and must not be
	// retained or logged.
	Classify(ctx context.Context, p Prompt, credential string) (Output, error)

	// Provider returns the tier name (e.g., "openai", "ollama", "heuristic").
	Provider() string
}

// ErrNoCredential signals that a remote tier was skipped because the caller
// supplied no API key. The chain treats it like any other tier failure.
var ErrNoCredential = errors.New("no credential supplied")

// ErrExhausted is returned by the chain when every tier failed.
var ErrExhausted = errors.New("all classifier tiers failed")
