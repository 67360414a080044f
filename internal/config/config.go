// Package config loads truthy configuration from file and environment.
//
// Precedence (highest to lowest):
//  1. Environment variables (TRUTHY_*)
//  2. Config file
//  3. Built-in defaults
//
// Config file search order:
//  1. .truthy.yaml in current directory
//  2. ~/.config/truthy/config.yaml
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all truthy configuration.
type Config struct {
	// Remote LLM settings
	Provider  string `yaml:"provider"` // auto, openai, anthropic, ollama, heuristic
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKey    string `yaml:"api_key"`
	MaxTokens int64  `yaml:"max_tokens"`

	// Local model settings
	OllamaURL    string   `yaml:"ollama_url"`
	OllamaModels []string `yaml:"ollama_models"` // preference order, prefix-matched

	// Evidence settings
	BraveAPIKey string `yaml:"brave_api_key"`
	MaxEvidence int    `yaml:"max_evidence"`
	// MinParagraphChars is the evidence-sufficiency threshold: shorter
	// paragraphs trigger a web evidence lookup.
	MinParagraphChars int `yaml:"min_paragraph_chars"`

	// Timeouts (Go duration strings, e.g. "25s")
	LLMTimeout    string `yaml:"llm_timeout"`
	SearchTimeout string `yaml:"search_timeout"`

	// HTTP server
	Addr string `yaml:"addr"`

	// OTEL
	OTELEndpoint string `yaml:"otel_endpoint"`
	OTELHeaders  string `yaml:"otel_headers"` // Comma-separated key=value pairs

	// Parsed durations (not from YAML, set after loading)
	LLMTimeoutDuration    time.Duration `yaml:"-"`
	SearchTimeoutDuration time.Duration `yaml:"-"`

	// ConfigFile is the path to the config file that was loaded (empty if none).
	ConfigFile string `yaml:"-"`
}

// Defaults returns a Config with all default values.
func Defaults() *Config {
	return &Config{
		Provider:          "auto",
		MaxTokens:         1024,
		OllamaURL:         "http://localhost:11434",
		OllamaModels:      []string{"llama3.1", "llama3", "mistral", "qwen2.5", "phi3"},
		MaxEvidence:       4,
		MinParagraphChars: 64,
		LLMTimeout:        "25s",
		SearchTimeout:     "6s",
		Addr:              ":8080",
	}
}

// Load reads configuration from file and environment variables.
// Environment variables always override file values.
func Load() (*Config, error) {
	cfg := Defaults()

	if path, data, err := findConfigFile(); err == nil {
		var fileCfg Config
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
		cfg.ConfigFile = path
		mergeFile(cfg, &fileCfg)
	}

	mergeEnv(cfg)

	var err error
	cfg.LLMTimeoutDuration, err = time.ParseDuration(cfg.LLMTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid llm_timeout %q: %w", cfg.LLMTimeout, err)
	}
	cfg.SearchTimeoutDuration, err = time.ParseDuration(cfg.SearchTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid search_timeout %q: %w", cfg.SearchTimeout, err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file and returns its path and contents.
func findConfigFile() (string, []byte, error) {
	// 1. Current directory
	if data, err := os.ReadFile(".truthy.yaml"); err == nil {
		return ".truthy.yaml", data, nil
	}

	// 2. XDG config dir / ~/.config
	if home, err := os.UserHomeDir(); err == nil {
		path := filepath.Join(home, ".config", "truthy", "config.yaml")
		if data, err := os.ReadFile(path); err == nil {
			return path, data, nil
		}
	}

	return "", nil, fmt.Errorf("no config file found")
}

// mergeFile applies non-zero file values onto cfg.
func mergeFile(cfg *Config, file *Config) {
	if file.Provider != "" {
		cfg.Provider = file.Provider
	}
	if file.Model != "" {
		cfg.Model = file.Model
	}
	if file.BaseURL != "" {
		cfg.BaseURL = file.BaseURL
	}
	if file.APIKey != "" {
		cfg.APIKey = file.APIKey
	}
	if file.MaxTokens > 0 {
		cfg.MaxTokens = file.MaxTokens
	}
	if file.OllamaURL != "" {
		cfg.OllamaURL = file.OllamaURL
	}
	if len(file.OllamaModels) > 0 {
		cfg.OllamaModels = file.OllamaModels
	}
	if file.BraveAPIKey != "" {
		cfg.BraveAPIKey = file.BraveAPIKey
	}
	if file.MaxEvidence > 0 {
		cfg.MaxEvidence = file.MaxEvidence
	}
	if file.MinParagraphChars > 0 {
		cfg.MinParagraphChars = file.MinParagraphChars
	}
	if file.LLMTimeout != "" {
		cfg.LLMTimeout = file.LLMTimeout
	}
	if file.SearchTimeout != "" {
		cfg.SearchTimeout = file.SearchTimeout
	}
	if file.Addr != "" {
		cfg.Addr = file.Addr
	}
	if file.OTELEndpoint != "" {
		cfg.OTELEndpoint = file.OTELEndpoint
	}
	if file.OTELHeaders != "" {
		cfg.OTELHeaders = file.OTELHeaders
	}
}

// mergeEnv applies environment variables onto cfg. Env always wins.
func mergeEnv(cfg *Config) {
	if v := os.Getenv("TRUTHY_PROVIDER"); v != "" {
		cfg.Provider = v
	}
	if v := os.Getenv("TRUTHY_MODEL"); v != "" {
		cfg.Model = v
	}
	if v := os.Getenv("TRUTHY_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TRUTHY_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TRUTHY_OLLAMA_MODELS"); v != "" {
		cfg.OllamaModels = splitList(v)
	}
	if v := os.Getenv("TRUTHY_MIN_PARAGRAPH_CHARS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.MinParagraphChars = n
		}
	}
	if v := os.Getenv("TRUTHY_LLM_TIMEOUT"); v != "" {
		cfg.LLMTimeout = v
	}
	if v := os.Getenv("TRUTHY_SEARCH_TIMEOUT"); v != "" {
		cfg.SearchTimeout = v
	}
	if v := os.Getenv("TRUTHY_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		cfg.OTELEndpoint = v
	}
	if v := os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"); v != "" {
		cfg.OTELHeaders = v
	}

	// API key fallbacks
	if cfg.APIKey == "" {
		if v := os.Getenv("OPENAI_API_KEY"); v != "" {
			cfg.APIKey = v
		}
	}
	if cfg.APIKey == "" {
		if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
			cfg.APIKey = v
		}
	}
	if v := os.Getenv("BRAVE_API_KEY"); v != "" {
		cfg.BraveAPIKey = v
	}
	if v := os.Getenv("OLLAMA_HOST"); v != "" {
		cfg.OllamaURL = v
	}
}

// splitList parses a comma-separated list, trimming whitespace and
// dropping empty entries.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
