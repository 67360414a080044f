package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/truthylabs/truthy/internal/model"
)

// Brave queries the Brave Search API. It is the keyed, paid tier and sits
// first in the chain when a subscription token is configured.
type Brave struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// BraveConfig holds configuration for the Brave source.
type BraveConfig struct {
	// APIKey is the Brave subscription token.
	APIKey string
	// BaseURL overrides the API endpoint (tests).
	BaseURL string
	// Timeout bounds each search call.
	Timeout time.Duration
}

// NewBrave creates a Brave Search source.
func NewBrave(cfg BraveConfig) *Brave {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.search.brave.com/res/v1"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Brave{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns "brave".
func (b *Brave) Name() string {
	return "brave"
}

// braveResponse is the subset of the web search response we consume.
type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// Search queries /web/search and maps results to snippets.
func (b *Brave) Search(ctx context.Context, query string, max int) ([]model.Snippet, error) {
	if b.apiKey == "" {
		return nil, fmt.Errorf("no brave API key configured")
	}

	u := b.baseURL + "/web/search?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(max)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Subscription-Token", b.apiKey)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("brave search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("brave search returned status %d: %s", resp.StatusCode, body)
	}

	var br braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&br); err != nil {
		return nil, fmt.Errorf("parsing brave response: %w", err)
	}

	var out []model.Snippet
	for _, r := range br.Web.Results {
		if r.Description == "" {
			continue
		}
		out = append(out, model.Snippet{
			Source: b.Name(),
			Title:  r.Title,
			URL:    r.URL,
			Text:   r.Description,
		})
		if len(out) >= max {
			break
		}
	}
	return out, nil
}
