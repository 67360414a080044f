package detector

import (
	"fmt"

	"github.com/truthylabs/truthy/internal/classifier"
	"github.com/truthylabs/truthy/internal/config"
	"github.com/truthylabs/truthy/internal/evidence"
	telem "github.com/truthylabs/truthy/internal/otel"
)

// Factory assembles detectors from configuration. The CLI builds one
// detector at startup; the HTTP server builds one per X-Provider value.
type Factory struct {
	Cfg     *config.Config
	Metrics *telem.Metrics
}

// Providers lists the provider names the factory accepts.
func (f *Factory) Providers() []string {
	return []string{"auto", "openai", "anthropic", "ollama", "heuristic"}
}

// ForProvider builds a detector whose classifier chain starts at the named
// tier. "auto" gives the full chain: remote (by configured provider),
// then local Ollama, then the rule-based comparator. Forced tiers still
// degrade to the comparator so that provider failures never surface.
func (f *Factory) ForProvider(name string) (*Detector, error) {
	heur := classifier.NewHeuristicClassifier()
	ollama := classifier.NewOllamaClassifier(classifier.OllamaConfig{
		BaseURL:     f.Cfg.OllamaURL,
		Preferences: f.Cfg.OllamaModels,
		MaxTokens:   f.Cfg.MaxTokens,
		Timeout:     f.Cfg.LLMTimeoutDuration,
	})

	var tiers []classifier.Classifier
	switch name {
	case "", "auto":
		tiers = []classifier.Classifier{f.remote(f.Cfg.Provider), ollama, heur}
	case "openai", "anthropic":
		tiers = []classifier.Classifier{f.remote(name), heur}
	case "ollama":
		tiers = []classifier.Classifier{ollama, heur}
	case "heuristic":
		tiers = []classifier.Classifier{heur}
	default:
		return nil, fmt.Errorf("unknown provider %q (supported: auto, openai, anthropic, ollama, heuristic)", name)
	}

	return New(classifier.NewChain(f.Cfg.LLMTimeoutDuration, tiers...), f.evidenceChain(), f.Cfg.MinParagraphChars, f.Metrics), nil
}

// remote picks the hosted SDK tier for a provider name. Unknown names get
// the OpenAI-compatible tier, which also covers Groq-style endpoints via
// the base URL override.
func (f *Factory) remote(name string) classifier.Classifier {
	if name == "anthropic" {
		return classifier.NewAnthropicClassifier(classifier.AnthropicConfig{
			BaseURL:   f.Cfg.BaseURL,
			Model:     f.Cfg.Model,
			MaxTokens: f.Cfg.MaxTokens,
		})
	}
	return classifier.NewOpenAIClassifier(classifier.OpenAIConfig{
		BaseURL:   f.Cfg.BaseURL,
		Model:     f.Cfg.Model,
		MaxTokens: f.Cfg.MaxTokens,
	})
}

func (f *Factory) evidenceChain() *evidence.Chain {
	timeout := f.Cfg.SearchTimeoutDuration
	var sources []evidence.Source
	if f.Cfg.BraveAPIKey != "" {
		sources = append(sources, evidence.NewBrave(evidence.BraveConfig{
			APIKey:  f.Cfg.BraveAPIKey,
			Timeout: timeout,
		}))
	}
	sources = append(sources,
		evidence.NewDuckDuckGo(evidence.DuckDuckGoConfig{Timeout: timeout}),
		evidence.NewWikipedia(evidence.WikipediaConfig{Timeout: timeout}),
	)
	return evidence.NewChain(f.Cfg.MaxEvidence, sources...)
}
