package evidence

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/truthylabs/truthy/internal/model"
)

// maxExtractChars bounds the length of a Wikipedia extract snippet.
const maxExtractChars = 600

// Wikipedia combines two lookups behind one source: the REST page summary
// for an exact title hit, and the broader full-text search API when the
// summary misses.
type Wikipedia struct {
	baseURL    string
	httpClient *http.Client
}

// WikipediaConfig holds configuration for the Wikipedia source.
type WikipediaConfig struct {
	// BaseURL overrides the API host, e.g. "https://en.wikipedia.org" (tests).
	BaseURL string
	// Timeout bounds each lookup call.
	Timeout time.Duration
}

// NewWikipedia creates a Wikipedia source.
func NewWikipedia(cfg WikipediaConfig) *Wikipedia {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://en.wikipedia.org"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 6 * time.Second
	}
	return &Wikipedia{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Name returns "wikipedia".
func (w *Wikipedia) Name() string {
	return "wikipedia"
}

// Search tries the page summary first and falls back to full-text search.
func (w *Wikipedia) Search(ctx context.Context, query string, max int) ([]model.Snippet, error) {
	if s, err := w.summary(ctx, query); err == nil && s.Text != "" {
		return []model.Snippet{s}, nil
	}
	return w.fullText(ctx, query, max)
}

// wikiSummaryResponse is the REST page summary shape.
type wikiSummaryResponse struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	ContentURLs struct {
		Desktop struct {
			Page string `json:"page"`
		} `json:"desktop"`
	} `json:"content_urls"`
}

func (w *Wikipedia) summary(ctx context.Context, query string) (model.Snippet, error) {
	title := query
	if len(title) > 100 {
		title = title[:100]
	}
	u := w.baseURL + "/api/rest_v1/page/summary/" + url.PathEscape(title)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return model.Snippet{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return model.Snippet{}, fmt.Errorf("wikipedia summary failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return model.Snippet{}, fmt.Errorf("wikipedia summary returned status %d", resp.StatusCode)
	}

	var sum wikiSummaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&sum); err != nil {
		return model.Snippet{}, fmt.Errorf("parsing wikipedia summary: %w", err)
	}

	extract := sum.Extract
	if len(extract) > maxExtractChars {
		extract = extract[:maxExtractChars]
	}
	return model.Snippet{
		Source: w.Name(),
		Title:  sum.Title,
		URL:    sum.ContentURLs.Desktop.Page,
		Text:   extract,
	}, nil
}

// wikiSearchResponse is the full-text search API shape.
type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title   string `json:"title"`
			Snippet string `json:"snippet"`
		} `json:"search"`
	} `json:"query"`
}

var htmlTagRe = regexp.MustCompile(`<[^>]+>`)

func (w *Wikipedia) fullText(ctx context.Context, query string, max int) ([]model.Snippet, error) {
	q := query
	if len(q) > 100 {
		q = q[:100]
	}
	u := w.baseURL + "/w/api.php?action=query&list=search&format=json&srlimit=2&srsearch=" + url.QueryEscape(q)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wikipedia search failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("wikipedia search returned status %d", resp.StatusCode)
	}

	var ws wikiSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&ws); err != nil {
		return nil, fmt.Errorf("parsing wikipedia search: %w", err)
	}

	var out []model.Snippet
	for _, r := range ws.Query.Search {
		if len(out) >= max {
			break
		}
		text := strings.TrimSpace(htmlTagRe.ReplaceAllString(r.Snippet, ""))
		if text == "" {
			continue
		}
		out = append(out, model.Snippet{
			Source: w.Name(),
			Title:  r.Title,
			URL:    w.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(r.Title, " ", "_")),
			Text:   r.Title + ". " + text,
		})
	}
	return out, nil
}
