package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/truthylabs/truthy/internal/model"
)

// DuckDuckGo queries the free Instant Answer API. No key required.
type DuckDuckGo struct {
	baseURL    string
	httpClient *http.Client
}

// DuckDuckGoConfig holds configuration for the DuckDuckGo source.
type DuckDuckGoConfig struct {
	// BaseURL overrides the API endpoint (tests).
	BaseURL string
	// Timeout bounds each search call.
	Timeout time.Duration
}

// NewDuckDuckGo creates a DuckDuckGo Instant Answer source.
func NewDuckDuckGo(cfg DuckDuckGoConfig) *DuckDuckGo {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.duckduckgo.com"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &DuckDuckGo{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns "duckduckgo".
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// ddgResponse is the subset of the Instant Answer response we consume.
type ddgResponse struct {
	Answer        string `json:"Answer"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	Heading       string `json:"Heading"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search queries the Instant Answer API. The abstract ranks first, then a
// direct answer, then related topics.
func (d *DuckDuckGo) Search(ctx context.Context, query string, max int) ([]model.Snippet, error) {
	u := d.baseURL + "/?q=" + url.QueryEscape(query) + "&format=json&no_redirect=1&no_html=1&skip_disambig=1"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("duckduckgo returned status %d: %s", resp.StatusCode, body)
	}

	var ddg ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&ddg); err != nil {
		return nil, fmt.Errorf("parsing duckduckgo response: %w", err)
	}

	var out []model.Snippet
	if ddg.AbstractText != "" {
		title := ddg.Heading
		if title == "" {
			title = "DuckDuckGo"
		}
		out = append(out, model.Snippet{
			Source: d.Name(),
			Title:  title,
			URL:    ddg.AbstractURL,
			Text:   ddg.AbstractText,
		})
	}
	if ddg.Answer != "" {
		out = append(out, model.Snippet{
			Source: d.Name(),
			Title:  "Direct answer",
			Text:   ddg.Answer,
		})
	}
	for _, rt := range ddg.RelatedTopics {
		if len(out) >= max {
			break
		}
		if strings.TrimSpace(rt.Text) == "" {
			continue
		}
		out = append(out, model.Snippet{
			Source: d.Name(),
			URL:    rt.FirstURL,
			Text:   rt.Text,
		})
	}
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}
